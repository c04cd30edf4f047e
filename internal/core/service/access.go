package service

import (
	"context"

	"github.com/sould/property-match/internal/core/ports"
)

// AccessGate decides who may read whose selections and comments. An accepted
// invitation from A to B is the only grant: A may then read B's data.
type AccessGate struct {
	invitations ports.InvitationRepository
}

func NewAccessGate(invitations ports.InvitationRepository) *AccessGate {
	return &AccessGate{invitations: invitations}
}

// CanView reports whether viewerID may read ownerID's selections.
func (g *AccessGate) CanView(ctx context.Context, viewerID, ownerID string) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}
	return g.invitations.HasAccepted(ctx, viewerID, ownerID)
}

// VisibleAuthors returns the users whose comments userID may read: userID
// itself followed by every invitee of its accepted invitations.
func (g *AccessGate) VisibleAuthors(ctx context.Context, userID string) ([]string, error) {
	clients, err := g.invitations.AcceptedInvitees(ctx, userID)
	if err != nil {
		return nil, err
	}

	authors := make([]string, 0, len(clients)+1)
	authors = append(authors, userID)
	seen := map[string]struct{}{userID: {}}
	for _, id := range clients {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}
	return authors, nil
}
