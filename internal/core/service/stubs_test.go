package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
	"github.com/sould/property-match/internal/core/search"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. They enforce the same unique keys as the
// MongoDB indexes.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	seq     int
	failErr error // if set, Create returns this error
	// updateErr, if set, is returned by Update.
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// add stores a verified user and returns it.
func (r *stubUserRepo) add(first, email string) *domain.User {
	u, err := r.Create(context.Background(), &domain.User{
		FirstName:  first,
		Email:      domain.NormalizeEmail(email),
		Role:       domain.RoleUser,
		UserType:   domain.UserTypeVisitor,
		IsVerified: true,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) SearchVerified(_ context.Context, query, excludeID string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*domain.User
	for _, u := range r.users {
		if !u.IsVerified || u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.FirstName), q) || strings.Contains(strings.ToLower(u.LastName), q) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListVerified(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if u.IsVerified {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------

type stubInvitationRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Invitation
	seq  int
}

func newStubInvitationRepo() *stubInvitationRepo {
	return &stubInvitationRepo{byID: make(map[string]*domain.Invitation)}
}

// accepted stores an accepted invitation from -> to.
func (r *stubInvitationRepo) accepted(from, to *domain.User) *domain.Invitation {
	inv := &domain.Invitation{
		FromUserID:  from.ID,
		ToUserID:    to.ID,
		ToUserEmail: to.Email,
		Status:      domain.InvitationAccepted,
	}
	if err := r.Create(context.Background(), inv); err != nil {
		panic(err)
	}
	return inv
}

func (r *stubInvitationRepo) Create(_ context.Context, inv *domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.FromUserID == inv.FromUserID && existing.ToUserEmail == inv.ToUserEmail {
			return domain.ErrInvitationExists
		}
	}
	r.seq++
	inv.ID = fmt.Sprintf("inv-%d", r.seq)
	clone := *inv
	r.byID[inv.ID] = &clone
	return nil
}

func (r *stubInvitationRepo) Exists(_ context.Context, fromUserID, toUserEmail string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byID {
		if inv.FromUserID == fromUserID && inv.ToUserEmail == toUserEmail {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInvitationRepo) FindByID(_ context.Context, id string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *stubInvitationRepo) Transition(_ context.Context, id string, from, to domain.InvitationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	if inv.Status != from {
		return domain.ErrInvalidTransition
	}
	inv.Status = to
	return nil
}

func (r *stubInvitationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrInvitationNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubInvitationRepo) DeletePending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	if inv.Status != domain.InvitationPending {
		return domain.ErrInvalidTransition
	}
	delete(r.byID, id)
	return nil
}

func (r *stubInvitationRepo) List(_ context.Context, f domain.InvitationFilter) ([]domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range r.byID {
		if f.FromUserID != "" && inv.FromUserID != f.FromUserID {
			continue
		}
		if f.ToUserID != "" && inv.ToUserID != f.ToUserID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubInvitationRepo) BackfillInvitee(_ context.Context, email, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.byID {
		if inv.ToUserEmail == email && inv.ToUserID != userID {
			inv.ToUserID = userID
			n++
		}
	}
	return n, nil
}

func (r *stubInvitationRepo) HasAccepted(_ context.Context, fromUserID, toUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byID {
		if inv.FromUserID == fromUserID && inv.ToUserID == toUserID && inv.Status == domain.InvitationAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubInvitationRepo) AcceptedInvitees(_ context.Context, fromUserID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, inv := range r.byID {
		if inv.FromUserID == fromUserID && inv.Status == domain.InvitationAccepted && inv.ToUserID != "" {
			out = append(out, inv.ToUserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ---------------------------------------------------------------------------

type stubFilterRepo struct {
	byUser map[string]*domain.Filter
}

func newStubFilterRepo() *stubFilterRepo {
	return &stubFilterRepo{byUser: make(map[string]*domain.Filter)}
}

func (r *stubFilterRepo) FindByUser(_ context.Context, userID string) (*domain.Filter, error) {
	f, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	clone := *f
	return &clone, nil
}

func (r *stubFilterRepo) Upsert(_ context.Context, f *domain.Filter) (*domain.Filter, error) {
	clone := *f
	if existing, ok := r.byUser[f.UserID]; ok {
		clone.ID = existing.ID
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.ID = "filter-" + f.UserID
		clone.CreatedAt = f.UpdatedAt
	}
	r.byUser[f.UserID] = &clone
	out := clone
	return &out, nil
}

// ---------------------------------------------------------------------------

// stubPropertyRepo evaluates compiled predicates in memory.
type stubPropertyRepo struct {
	props     []domain.Property
	lastQuery search.Node
	searches  int
}

func (r *stubPropertyRepo) Search(_ context.Context, q search.Node, page ports.Page) (*ports.PropertyPage, error) {
	r.lastQuery = q
	r.searches++

	var matched []domain.Property
	for _, p := range r.props {
		if q.Match(propertyDocument(p)) {
			matched = append(matched, p)
		}
	}
	total := int64(len(matched))
	start := int(page.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &ports.PropertyPage{
		Items:      matched[start:end],
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: ports.TotalPages(total, page.Limit),
	}, nil
}

func (r *stubPropertyRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Property, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Property
	for _, p := range r.props {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPropertyRepo) ListPurgeable(_ context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	for _, p := range r.props {
		if p.IsDeleted && p.DeletedAt != nil && !p.DeletedAt.After(cutoff) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *stubPropertyRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	del := map[string]bool{}
	for _, id := range ids {
		del[id] = true
	}
	var kept []domain.Property
	var n int64
	for _, p := range r.props {
		if del[p.ID] && p.IsDeleted {
			n++
			continue
		}
		kept = append(kept, p)
	}
	r.props = kept
	return n, nil
}

func propertyDocument(p domain.Property) search.MapDocument {
	return search.MapDocument{
		"id":              p.ID,
		"transactionType": p.TransactionType,
		"isDeleted":       p.IsDeleted,
		"propertyType":    p.PropertyType,
		"price":           p.Price,
		"description":     p.Description,
		"features":        p.Features,
		"address": map[string]any{
			"province":      p.Address.Province,
			"city":          p.Address.City,
			"streetAddress": p.Address.StreetAddress,
		},
		"building": map[string]any{
			"bathroomTotal":               int(p.Building.BathroomTotal),
			"bedroomsTotal":               int(p.Building.BedroomsTotal),
			"type":                        p.Building.Type,
			"constructionStyleAttachment": p.Building.ConstructionStyleAttachment,
		},
		"location": map[string]any{
			"type":        p.Location.Type,
			"coordinates": p.Location.Coordinates,
		},
	}
}

// forSale returns a searchable listing in Toronto.
func forSale(id string, beds int) domain.Property {
	return domain.Property{
		ID:              id,
		TransactionType: domain.TransactionForSale,
		PropertyType:    "Single Family",
		Price:           750000,
		Address:         domain.Address{City: "Toronto", Province: "Ontario"},
		Building:        domain.Building{BedroomsTotal: domain.RoomCount(beds), BathroomTotal: 2, Type: "House", ConstructionStyleAttachment: "Detached"},
		Location:        domain.NewGeoPoint(-79.3832, 43.6532),
	}
}

// ---------------------------------------------------------------------------

type stubSelectionRepo struct {
	mu   sync.Mutex
	sels []domain.PropertySelection
	seq  int
	// listed records the owners whose selections were read.
	listed []string
}

func (r *stubSelectionRepo) Create(_ context.Context, s *domain.PropertySelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sels {
		if existing.UserID == s.UserID && existing.PropertyID == s.PropertyID {
			return domain.ErrSelectionExists
		}
	}
	r.seq++
	s.ID = fmt.Sprintf("sel-%d", r.seq)
	r.sels = append(r.sels, *s)
	return nil
}

func (r *stubSelectionRepo) ListByUser(_ context.Context, userID string) ([]domain.PropertySelection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed = append(r.listed, userID)
	var out []domain.PropertySelection
	for _, s := range r.sels {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSelectionRepo) PropertyIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.sels {
		if s.UserID == userID {
			out = append(out, s.PropertyID)
		}
	}
	return out, nil
}

func (r *stubSelectionRepo) Delete(_ context.Context, userID, propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sels[:0]
	for _, s := range r.sels {
		if s.UserID == userID && s.PropertyID == propertyID {
			continue
		}
		kept = append(kept, s)
	}
	r.sels = kept
	return nil
}

func (r *stubSelectionRepo) DeleteByProperties(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	del := map[string]bool{}
	for _, id := range ids {
		del[id] = true
	}
	kept := r.sels[:0]
	var n int64
	for _, s := range r.sels {
		if del[s.PropertyID] {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.sels = kept
	return n, nil
}

// ---------------------------------------------------------------------------

type stubCommentRepo struct {
	byID map[string]*domain.Comment
	seq  int
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byID: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.seq++
	c.ID = fmt.Sprintf("comment-%02d", r.seq)
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) UpdateText(_ context.Context, id, text string, at time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Text = text
	c.UpdatedAt = at
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCommentRepo) ListByPropertyAndAuthors(_ context.Context, propertyID string, authors []string) ([]domain.Comment, error) {
	allowed := map[string]bool{}
	for _, a := range authors {
		allowed[a] = true
	}
	var out []domain.Comment
	for _, c := range r.byID {
		if c.PropertyID == propertyID && allowed[c.UserID] {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCommentRepo) DeleteByProperties(_ context.Context, ids []string) (int64, error) {
	del := map[string]bool{}
	for _, id := range ids {
		del[id] = true
	}
	var n int64
	for id, c := range r.byID {
		if del[c.PropertyID] {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------

var errSMTPDown = errors.New("smtp: connection refused")

type stubNotifier struct {
	mu   sync.Mutex
	sent []ports.Message
	err  error
}

func (n *stubNotifier) Send(_ context.Context, msg ports.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *stubNotifier) last() ports.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return ports.Message{}
	}
	return n.sent[len(n.sent)-1]
}
