package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

const invitationSubject = "Invitation for Application Access"

// InvitationService implements the invitation lifecycle. Rejected and
// deleted invitations are removed; only pending and accepted are stored.
type InvitationService struct {
	invitations ports.InvitationRepository
	users       ports.UserRepository
	notifier    ports.Notifier
	logger      zerolog.Logger
}

func NewInvitationService(
	invitations ports.InvitationRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		users:       users,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create sends an invitation from fromUserID to toUserEmail. The record is
// removed again when the notification cannot be delivered.
func (s *InvitationService) Create(ctx context.Context, fromUserID, toUserEmail string) (*domain.Invitation, error) {
	email := domain.NormalizeEmail(toUserEmail)
	if email == "" {
		return nil, domain.ErrMissingFields
	}

	from, err := s.users.FindByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	if email == from.Email {
		return nil, domain.ErrSelfInvite
	}

	exists, err := s.invitations.Exists(ctx, from.ID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrInvitationExists
	}

	invitee, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &domain.Invitation{
		FromUserID:  from.ID,
		ToUserEmail: email,
		Status:      domain.InvitationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if invitee != nil {
		inv.ToUserID = invitee.ID
	}

	// A concurrent duplicate passes Exists and is rejected here by the
	// unique index.
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.notifier.Send(ctx, invitationMessage(from, invitee, email)); err != nil {
		s.logger.Error().Err(err).Str("invitation_id", inv.ID).Msg("failed to send invitation")
		if delErr := s.invitations.Delete(ctx, inv.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("invitation_id", inv.ID).Msg("failed to roll back invitation")
		}
		return nil, domain.ErrInvitationMail
	}

	s.logger.Info().
		Str("invitation_id", inv.ID).
		Str("from_user_id", from.ID).
		Bool("invitee_registered", invitee != nil).
		Msg("invitation created")
	return inv, nil
}

func invitationMessage(from, invitee *domain.User, email string) ports.Message {
	var body string
	if invitee != nil {
		body = fmt.Sprintf("Hello %s\n\nYou have received an invitation from %s. Please log in to the application to accept it.",
			invitee.FirstName, from.FirstName)
	} else {
		body = fmt.Sprintf("Hello\n\nYou have received an invitation from %s. Please sign up in the application to accept it.",
			from.FirstName)
	}
	return ports.Message{To: email, Subject: invitationSubject, Body: body}
}

// Accept moves a pending invitation addressed to userID to accepted.
func (s *InvitationService) Accept(ctx context.Context, userID, invitationID string) (*domain.Invitation, error) {
	inv, err := s.findForInvitee(ctx, userID, invitationID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.CanTransitionTo(domain.InvitationAccepted) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.invitations.Transition(ctx, inv.ID, inv.Status, domain.InvitationAccepted); err != nil {
		return nil, err
	}

	inv.Status = domain.InvitationAccepted
	inv.UpdatedAt = time.Now().UTC()
	s.logger.Info().Str("invitation_id", inv.ID).Str("user_id", userID).Msg("invitation accepted")
	return inv, nil
}

// Reject removes a pending invitation addressed to userID.
func (s *InvitationService) Reject(ctx context.Context, userID, invitationID string) error {
	inv, err := s.findForInvitee(ctx, userID, invitationID)
	if err != nil {
		return err
	}
	if inv.Status != domain.InvitationPending {
		return domain.ErrInvalidTransition
	}

	if err := s.invitations.DeletePending(ctx, inv.ID); err != nil {
		return err
	}
	s.logger.Info().Str("invitation_id", inv.ID).Str("user_id", userID).Msg("invitation rejected")
	return nil
}

// Delete removes an invitation sent by userID, in any state. Deleting an
// accepted invitation revokes access.
func (s *InvitationService) Delete(ctx context.Context, userID, invitationID string) error {
	if invitationID == "" {
		return domain.ErrMissingID
	}
	inv, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if !inv.SentBy(userID) {
		return domain.ErrNotInviter
	}

	if err := s.invitations.Delete(ctx, inv.ID); err != nil {
		return err
	}
	s.logger.Info().Str("invitation_id", inv.ID).Str("user_id", userID).Msg("invitation deleted")
	return nil
}

func (s *InvitationService) findForInvitee(ctx context.Context, userID, invitationID string) (*domain.Invitation, error) {
	if invitationID == "" {
		return nil, domain.ErrMissingID
	}
	inv, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if !inv.AddressedTo(userID) {
		return nil, domain.ErrNotInvitee
	}
	return inv, nil
}

// PendingSent lists pending invitations sent by userID with their invitees.
func (s *InvitationService) PendingSent(ctx context.Context, userID string) ([]ports.InvitationView, error) {
	return s.listSent(ctx, userID, domain.InvitationPending)
}

// AcceptedSent lists accepted invitations sent by userID with their invitees.
func (s *InvitationService) AcceptedSent(ctx context.Context, userID string) ([]ports.InvitationView, error) {
	return s.listSent(ctx, userID, domain.InvitationAccepted)
}

func (s *InvitationService) listSent(ctx context.Context, userID string, status domain.InvitationStatus) ([]ports.InvitationView, error) {
	invs, err := s.invitations.List(ctx, domain.InvitationFilter{FromUserID: userID, Status: status})
	if err != nil {
		return nil, err
	}
	return s.join(ctx, invs, func(inv domain.Invitation) string { return inv.ToUserID })
}

// Received lists invitations addressed to userID with their inviters.
func (s *InvitationService) Received(ctx context.Context, userID string) ([]ports.InvitationView, error) {
	invs, err := s.invitations.List(ctx, domain.InvitationFilter{ToUserID: userID})
	if err != nil {
		return nil, err
	}
	return s.join(ctx, invs, func(inv domain.Invitation) string { return inv.FromUserID })
}

// Clients returns the accounts behind userID's accepted invitations.
func (s *InvitationService) Clients(ctx context.Context, userID string) ([]*domain.User, error) {
	ids, err := s.invitations.AcceptedInvitees(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return s.users.FindByIDs(ctx, ids)
}

func (s *InvitationService) join(ctx context.Context, invs []domain.Invitation, counterpart func(domain.Invitation) string) ([]ports.InvitationView, error) {
	views := make([]ports.InvitationView, 0, len(invs))
	if len(invs) == 0 {
		return views, nil
	}

	var ids []string
	for _, inv := range invs {
		if id := counterpart(inv); id != "" {
			ids = append(ids, id)
		}
	}
	byID := map[string]*domain.User{}
	if len(ids) > 0 {
		users, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			byID[u.ID] = u
		}
	}

	for _, inv := range invs {
		views = append(views, ports.InvitationView{Invitation: inv, Counterpart: byID[counterpart(inv)]})
	}
	return views, nil
}
