package handler

import (
	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:                   u.ID,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Email:                u.Email,
		Phone:                u.Phone,
		ImageURL:             u.ImageURL,
		Role:                 string(u.Role),
		UserType:             string(u.UserType),
		IsFirstLogin:         u.IsFirstLogin,
		IsVerified:           u.IsVerified,
		HasTemporaryPassword: u.HasTemporaryPassword,
		CreatedAt:            u.CreatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toPublicUser(u *domain.User) *publicUserResponse {
	if u == nil {
		return nil
	}
	return &publicUserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		ImageURL:  u.ImageURL,
		UserType:  string(u.UserType),
	}
}

func toPublicUsers(users []*domain.User) []*publicUserResponse {
	out := make([]*publicUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toPublicUser(u))
	}
	return out
}

func toPropertyPage(p *ports.PropertyPage) propertyPageResponse {
	items := p.Items
	if items == nil {
		items = []domain.Property{}
	}
	return propertyPageResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func toSelectionResponse(s domain.PropertySelection, p *domain.Property) selectionResponse {
	return selectionResponse{
		ID:         s.ID,
		PropertyID: s.PropertyID,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		Property:   p,
	}
}

func toSelectionResponses(views []ports.SelectionView) []selectionResponse {
	out := make([]selectionResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toSelectionResponse(v.Selection, v.Property))
	}
	return out
}

func toInvitationResponse(inv domain.Invitation, counterpart *domain.User) invitationResponse {
	return invitationResponse{
		ID:          inv.ID,
		FromUserID:  inv.FromUserID,
		ToUserID:    inv.ToUserID,
		ToUserEmail: inv.ToUserEmail,
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
		User:        toPublicUser(counterpart),
	}
}

func toInvitationResponses(views []ports.InvitationView) []invitationResponse {
	out := make([]invitationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toInvitationResponse(v.Invitation, v.Counterpart))
	}
	return out
}

func toCommentResponse(c domain.Comment, author *domain.User) commentResponse {
	return commentResponse{
		ID:         c.ID,
		PropertyID: c.PropertyID,
		Comment:    c.Text,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Author:     toPublicUser(author),
	}
}

func toCommentResponses(views []ports.CommentView) []commentResponse {
	out := make([]commentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toCommentResponse(v.Comment, v.Author))
	}
	return out
}
