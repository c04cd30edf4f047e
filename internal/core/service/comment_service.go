package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

// CommentService exposes a listing's comments to their author and to the
// author's agents, i.e. users holding an accepted invitation to the author.
type CommentService struct {
	comments ports.CommentRepository
	users    ports.UserRepository
	gate     *AccessGate
	logger   zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, users ports.UserRepository, gate *AccessGate, logger zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, users: users, gate: gate, logger: logger}
}

// List returns the comments on propertyID written by userID or by one of its
// accepted clients, joined with their authors.
func (s *CommentService) List(ctx context.Context, userID, propertyID string) ([]ports.CommentView, error) {
	if propertyID == "" {
		return nil, domain.ErrMissingID
	}
	authors, err := s.gate.VisibleAuthors(ctx, userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPropertyAndAuthors(ctx, propertyID, authors)
	if err != nil {
		return nil, err
	}

	views := make([]ports.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	users, err := s.users.FindByIDs(ctx, authors)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, c := range comments {
		views = append(views, ports.CommentView{Comment: c, Author: byID[c.UserID]})
	}
	return views, nil
}

func (s *CommentService) Create(ctx context.Context, userID, propertyID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if propertyID == "" || text == "" {
		return nil, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	c := &domain.Comment{
		UserID:     userID,
		PropertyID: propertyID,
		Text:       text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("comment_id", c.ID).Str("user_id", userID).Str("property_id", propertyID).Msg("comment created")
	return c, nil
}

// Update replaces the text of a comment written by userID.
func (s *CommentService) Update(ctx context.Context, userID, commentID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrMissingFields
	}
	c, err := s.findOwned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.comments.UpdateText(ctx, c.ID, text, now); err != nil {
		return nil, err
	}
	c.Text = text
	c.UpdatedAt = now
	return c, nil
}

// Delete removes a comment written by userID.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	c, err := s.findOwned(ctx, userID, commentID)
	if err != nil {
		return err
	}
	return s.comments.Delete(ctx, c.ID)
}

func (s *CommentService) findOwned(ctx context.Context, userID, commentID string) (*domain.Comment, error) {
	if commentID == "" {
		return nil, domain.ErrMissingID
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, domain.ErrNotAuthor
	}
	return c, nil
}
