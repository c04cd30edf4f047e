package domain

import "time"

// SelectionStatus is a user's decision on a listing.
type SelectionStatus string

const (
	SelectionLiked    SelectionStatus = "liked"
	SelectionDisliked SelectionStatus = "disliked"
)

// PropertySelection is unique per (UserID, PropertyID).
type PropertySelection struct {
	ID         string
	UserID     string
	PropertyID string
	Status     SelectionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment is a note left by a user on a listing.
type Comment struct {
	ID         string
	UserID     string
	PropertyID string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
