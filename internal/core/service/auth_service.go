package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

const (
	defaultTokenTTL        = 30 * 24 * time.Hour
	defaultVerificationTTL = 24 * time.Hour
	temporaryPasswordLen   = 16
	temporaryPasswordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Token types carried in the "typ" claim. Only access tokens authenticate
// API requests.
const (
	TokenTypeAccess       = "access"
	TokenTypeVerification = "verification"
)

// AuthConfig holds token settings and the public host used in mailed links.
type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	VerificationTTL time.Duration
	Host            string
}

// AuthService implements registration, verification and credential
// management for password accounts.
type AuthService struct {
	users       ports.UserRepository
	invitations ports.InvitationRepository
	notifier    ports.Notifier
	cfg         AuthConfig
	logger      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	invitations ports.InvitationRepository,
	notifier ports.Notifier,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = defaultVerificationTTL
	}
	return &AuthService{
		users:       users,
		invitations: invitations,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
	}
}

// Register creates an unverified account and mails a verification link. The
// account is removed again when the mail cannot be sent. Pending invitations
// addressed to the email are attached to the new account.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" || strings.TrimSpace(input.FirstName) == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Role:         domain.RoleUser,
		UserType:     domain.UserTypeVisitor,
		IsFirstLogin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user, TokenTypeVerification, s.cfg.VerificationTTL)
	if err != nil {
		s.rollbackUser(ctx, user.ID)
		return nil, err
	}
	user.VerificationToken = token
	if err := s.users.Update(ctx, user); err != nil {
		s.rollbackUser(ctx, user.ID)
		return nil, err
	}

	if err := s.notifier.Send(ctx, verificationMessage(user, s.cfg.Host, token)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to send verification mail")
		s.rollbackUser(ctx, user.ID)
		return nil, domain.ErrRegistrationMail
	}

	s.attachInvitations(ctx, user)
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AuthService) rollbackUser(ctx context.Context, userID string) {
	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to roll back user")
	}
}

// attachInvitations is idempotent; Login runs it again so a failed attempt at
// registration heals on the next sign-in.
func (s *AuthService) attachInvitations(ctx context.Context, user *domain.User) {
	n, err := s.invitations.BackfillInvitee(ctx, user.Email, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to attach invitations")
		return
	}
	if n > 0 {
		s.logger.Info().Str("user_id", user.ID).Int64("invitations", n).Msg("invitations attached")
	}
}

func verificationMessage(user *domain.User, host, token string) ports.Message {
	link := fmt.Sprintf("%s/verify?token=%s", strings.TrimRight(host, "/"), token)
	return ports.Message{
		To:      user.Email,
		Subject: "Registration Verification",
		Body: fmt.Sprintf("Hello %s\n\nWelcome to Sould! Please click on the following link to activate your account:\n\n%s",
			user.FirstName, link),
	}
}

// VerifyEmail marks the account carrying token as verified. The token is
// single use.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return domain.ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	if typ, _ := claims["typ"].(string); id == "" || typ != TokenTypeVerification {
		return domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if user.VerificationToken != token {
		return domain.ErrInvalidToken
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user verified")
	return nil
}

// Login checks a password account and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user.SocialSignIn {
		return "", nil, domain.ErrSocialSignIn
	}
	if !user.IsVerified {
		return "", nil, domain.ErrAccountUnverified
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user, TokenTypeAccess, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, err
	}
	s.attachInvitations(ctx, user)
	return token, user, nil
}

// ForgotPassword mails a temporary password and stores its hash. The user
// is flagged until the password is reset.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrMissingFields
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnknownEmail
		}
		return err
	}

	temp, err := temporaryPassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Store first so a mailed password always works; undo if the mail fails.
	prev := *user
	user.PasswordHash = string(hash)
	user.HasTemporaryPassword = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	msg := ports.Message{
		To:      user.Email,
		Subject: "Temporary Login Password",
		Body:    "Your temporary generated login password is: " + temp,
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to send temporary password")
		if rerr := s.users.Update(context.WithoutCancel(ctx), &prev); rerr != nil {
			s.logger.Error().Err(rerr).Str("user_id", user.ID).Msg("failed to restore password after mail failure")
		}
		return domain.ErrPasswordMail
	}
	return nil
}

// ResetPassword replaces the password after checking the old one.
func (s *AuthService) ResetPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrMissingFields
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.HasTemporaryPassword = false
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *AuthService) generateToken(user *domain.User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"typ":  typ,
		"exp":  time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseToken(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func temporaryPassword() (string, error) {
	alphabet := big.NewInt(int64(len(temporaryPasswordChars)))
	b := make([]byte, temporaryPasswordLen)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", err
		}
		b[i] = temporaryPasswordChars[n.Int64()]
	}
	return string(b), nil
}
