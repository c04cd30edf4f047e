package ports

import (
	"context"

	"github.com/sould/property-match/internal/core/domain"
)

// InvitationRepository persists the invitation graph. (FromUserID,
// ToUserEmail) is unique: Create returns domain.ErrInvitationExists on a
// duplicate. Lookups return domain.ErrInvitationNotFound.
type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	Exists(ctx context.Context, fromUserID, toUserEmail string) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.Invitation, error)

	// Transition moves the invitation from one status to another only if it
	// is still in from. It returns domain.ErrInvalidTransition otherwise.
	Transition(ctx context.Context, id string, from, to domain.InvitationStatus) error

	Delete(ctx context.Context, id string) error
	// DeletePending removes the invitation only while it is pending.
	DeletePending(ctx context.Context, id string) error

	List(ctx context.Context, filter domain.InvitationFilter) ([]domain.Invitation, error)

	// BackfillInvitee sets ToUserID on every invitation addressed to email.
	BackfillInvitee(ctx context.Context, email, userID string) (int64, error)

	HasAccepted(ctx context.Context, fromUserID, toUserID string) (bool, error)
	// AcceptedInvitees returns the ToUserIDs of fromUserID's accepted invitations.
	AcceptedInvitees(ctx context.Context, fromUserID string) ([]string, error)
}
