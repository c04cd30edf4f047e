package domain

import (
	"strings"
	"time"
)

// Role is the authorization level carried in every access token.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// UserType is the self-declared profile of a user, set after first login.
type UserType string

const (
	UserTypeVisitor UserType = "visitor"
	UserTypeBuyer   UserType = "buyer"
	UserTypeAgent   UserType = "agent"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeVisitor, UserTypeBuyer, UserTypeAgent:
		return true
	}
	return false
}

// User models an account. PasswordHash and VerificationToken never leave the
// service layer; handlers map users to a public DTO.
type User struct {
	ID                   string
	FirstName            string
	LastName             string
	Email                string
	PasswordHash         string
	Phone                string
	ImageURL             string
	Role                 Role
	UserType             UserType
	SocialSignIn         bool
	IsFirstLogin         bool
	VerificationToken    string
	IsVerified           bool
	HasTemporaryPassword bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	ImageURL  string
}

// NormalizeEmail is applied to every email before it is stored or compared,
// so invitations addressed before registration match the registered account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
