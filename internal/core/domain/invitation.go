package domain

import "time"

// InvitationStatus is the stored state of an invitation. Rejection and
// deletion remove the record instead of storing a state.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// invitationTransitions lists the stored-state transitions. ACCEPTED is terminal.
var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationPending: {InvitationAccepted},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	for _, allowed := range invitationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invitation is a directed access grant from an agent (From) to a client (To).
// ToUserID stays empty until the invited email registers.
type Invitation struct {
	ID          string
	FromUserID  string
	ToUserID    string
	ToUserEmail string
	Status      InvitationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AddressedTo reports whether userID is the invitee.
func (i *Invitation) AddressedTo(userID string) bool {
	return i.ToUserID != "" && i.ToUserID == userID
}

// SentBy reports whether userID is the inviter.
func (i *Invitation) SentBy(userID string) bool {
	return i.FromUserID == userID
}

// InvitationFilter narrows invitation listings. Empty fields are ignored.
type InvitationFilter struct {
	FromUserID string
	ToUserID   string
	Status     InvitationStatus
}
