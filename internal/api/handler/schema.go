package handler

import (
	"time"

	"github.com/sould/property-match/internal/core/domain"
)

// --- Requests ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type updateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type userTypeRequest struct {
	UserType string `json:"userType" validate:"required,oneof=visitor buyer agent"`
}

type adminRequest struct {
	Admin *bool `json:"admin" validate:"required"`
}

type invitationRequest struct {
	ToUserEmail string `json:"toUserEmail" validate:"required,email"`
}

type selectionRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=liked disliked"`
}

type locationSearchRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Radius    float64  `json:"radius" validate:"gt=0"`
}

type commentRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Comment    string `json:"comment" validate:"required"`
}

type updateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// --- Responses ---

type userResponse struct {
	ID                   string    `json:"id"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	ImageURL             string    `json:"imageUrl,omitempty"`
	Role                 string    `json:"role"`
	UserType             string    `json:"userType"`
	IsFirstLogin         bool      `json:"isFirstLogin"`
	IsVerified           bool      `json:"isVerified"`
	HasTemporaryPassword bool      `json:"hasTemporaryPassword"`
	CreatedAt            time.Time `json:"createdAt"`
}

// publicUserResponse is what one user sees of another.
type publicUserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ImageURL  string `json:"imageUrl,omitempty"`
	UserType  string `json:"userType"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type propertyPageResponse struct {
	Items      []domain.Property `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type selectionResponse struct {
	ID         string           `json:"id"`
	PropertyID string           `json:"propertyId"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	Property   *domain.Property `json:"property,omitempty"`
}

type invitationResponse struct {
	ID          string              `json:"id"`
	FromUserID  string              `json:"fromUserId"`
	ToUserID    string              `json:"toUserId,omitempty"`
	ToUserEmail string              `json:"toUserEmail"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	User        *publicUserResponse `json:"user,omitempty"`
}

type commentResponse struct {
	ID         string              `json:"id"`
	PropertyID string              `json:"propertyId"`
	Comment    string              `json:"comment"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
	Author     *publicUserResponse `json:"author,omitempty"`
}
