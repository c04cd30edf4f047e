package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

// UserService implements profile management and super-admin account
// administration. Deleting a user does not remove the user's filter,
// selections, comments or invitations.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrMissingID
	}
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile overwrites the non-empty fields of update.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update == (domain.ProfileUpdate{}) {
		return nil, domain.ErrMissingFields
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(update.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(update.LastName); v != "" {
		user.LastName = v
	}
	if update.Phone != "" {
		user.Phone = update.Phone
	}
	if update.ImageURL != "" {
		user.ImageURL = update.ImageURL
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUserType records the user's profile choice and ends the first-login flow.
func (s *UserService) SetUserType(ctx context.Context, userID string, userType domain.UserType) (*domain.User, error) {
	if !userType.Valid() {
		return nil, domain.NewError(domain.KindInvalid, "user type missing or invalid")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.UserType = userType
	user.IsFirstLogin = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds verified users other than userID by first or last name.
func (s *UserService) Search(ctx context.Context, userID, query string) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.User{}, nil
	}
	return s.repo.SearchVerified(ctx, query, userID)
}

func (s *UserService) DeleteSelf(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user deleted own account")
	return nil
}

// ListVerified returns every verified account except the caller's.
func (s *UserService) ListVerified(ctx context.Context, actor ports.Actor) ([]*domain.User, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	users, err := s.repo.ListVerified(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if u.ID != actor.UserID {
			out = append(out, u)
		}
	}
	return out, nil
}

// SetAdmin grants or revokes the admin role. Super admins cannot be demoted
// through this path.
func (s *UserService) SetAdmin(ctx context.Context, actor ports.Actor, targetID string, admin bool) (*domain.User, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if targetID == "" {
		return nil, domain.ErrMissingID
	}
	user, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleSuperAdmin {
		return nil, domain.NewError(domain.KindConflict, "super admin role cannot be changed")
	}

	user.Role = domain.RoleUser
	if admin {
		user.Role = domain.RoleAdmin
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("actor_id", actor.UserID).Str("user_id", targetID).Str("role", string(user.Role)).Msg("user role changed")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor ports.Actor, targetID string) error {
	if actor.Role != domain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	if targetID == "" {
		return domain.ErrMissingID
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info().Str("actor_id", actor.UserID).Str("user_id", targetID).Msg("user deleted")
	return nil
}
