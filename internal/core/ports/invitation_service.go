package ports

import (
	"context"

	"github.com/sould/property-match/internal/core/domain"
)

// InvitationView pairs an invitation with the other party's account. The
// counterpart is nil while an invitee has not registered.
type InvitationView struct {
	Invitation  domain.Invitation
	Counterpart *domain.User
}

// InvitationService defines the invitation lifecycle.
type InvitationService interface {
	Create(ctx context.Context, fromUserID, toUserEmail string) (*domain.Invitation, error)
	Accept(ctx context.Context, userID, invitationID string) (*domain.Invitation, error)
	Reject(ctx context.Context, userID, invitationID string) error
	Delete(ctx context.Context, userID, invitationID string) error

	PendingSent(ctx context.Context, userID string) ([]InvitationView, error)
	AcceptedSent(ctx context.Context, userID string) ([]InvitationView, error)
	Received(ctx context.Context, userID string) ([]InvitationView, error)
	Clients(ctx context.Context, userID string) ([]*domain.User, error)
}
