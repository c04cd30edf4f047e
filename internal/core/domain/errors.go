package domain

import "errors"

// Kind classifies a domain failure. The transport layer maps each kind to a
// status code; the core never deals with HTTP.
type Kind uint8

const (
	KindInvalid    Kind = iota + 1 // malformed or missing input
	KindForbidden                  // role or access-grant failure
	KindConflict                   // duplicate, or entity not found
	KindDependency                 // downstream collaborator failed mid-operation
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is a typed, user-facing domain failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds a one-off domain error. Prefer the sentinels below when the
// failure is a known case so callers can match it with errors.Is.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

var (
	ErrMissingFields = NewError(KindInvalid, "required fields are missing")
	ErrMissingID     = NewError(KindInvalid, "id missing or invalid")
	ErrSelfInvite    = NewError(KindInvalid, "you cannot invite yourself")
	ErrUnknownEmail  = NewError(KindInvalid, "user does not exist with given email")

	ErrForbidden         = NewError(KindForbidden, "you don't have access to this API")
	ErrNoClientAccess    = NewError(KindForbidden, "you don't have access to this client")
	ErrNotInvitee        = NewError(KindForbidden, "invitation is not addressed to you")
	ErrNotInviter        = NewError(KindForbidden, "invitation was not sent by you")
	ErrNotAuthor         = NewError(KindForbidden, "comment belongs to another user")
	ErrSocialSignIn      = NewError(KindForbidden, "you cannot log in using this method")
	ErrAccountUnverified = NewError(KindForbidden, "your account is not verified, please follow the instructions in the verification email")

	ErrUserExists         = NewError(KindConflict, "user already exists with given email address")
	ErrUserNotFound       = NewError(KindConflict, "user does not exist")
	ErrInvalidCredentials = NewError(KindConflict, "incorrect email or password")
	ErrInvalidOldPassword = NewError(KindConflict, "invalid old password")
	ErrInvalidToken       = NewError(KindConflict, "error verifying user")
	ErrInvitationExists   = NewError(KindConflict, "either user is already your client or you have already sent an invitation to this user")
	ErrInvitationNotFound = NewError(KindConflict, "invitation does not exist")
	ErrInvalidTransition  = NewError(KindConflict, "invalid invitation status transition")
	ErrSelectionExists    = NewError(KindConflict, "property already selected")
	ErrCommentNotFound    = NewError(KindConflict, "comment does not exist")

	ErrRegistrationMail = NewError(KindDependency, "error creating user")
	ErrInvitationMail   = NewError(KindDependency, "error sending invitation")
	ErrPasswordMail     = NewError(KindDependency, "error sending temporary password")
)
