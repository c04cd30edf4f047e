package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

type UserHandler struct {
	users       ports.UserService
	invitations ports.InvitationService
}

func NewUserHandler(users ports.UserService, invitations ports.InvitationService) *UserHandler {
	return &UserHandler{users: users, invitations: invitations}
}

// Profile returns the caller's account.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=userResponse}
// @Failure      409  {object}  envelope
// @Router       /v1/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile", toUserResponse(user))
}

// UpdateProfile changes the caller's name, phone or image.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  envelope
// @Router       /v1/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), actor.UserID, domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "profile updated", toUserResponse(user))
}

// SetUserType records whether the caller is a visitor, buyer or agent.
//
// @Summary      Set own user type
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userTypeRequest  true  "User type"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      400   {object}  envelope
// @Router       /v1/users/type [put]
func (h *UserHandler) SetUserType(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req userTypeRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetUserType(c.Request().Context(), actor.UserID, domain.UserType(req.UserType))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user type updated", toUserResponse(user))
}

// Search finds verified users by first or last name.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Name fragment"
// @Success      200  {object}  envelope{data=[]publicUserResponse}
// @Router       /v1/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	users, err := h.users.Search(c.Request().Context(), actor.UserID, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "users", toPublicUsers(users))
}

// Clients lists the users who accepted the caller's invitations.
//
// @Summary      List own clients
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]publicUserResponse}
// @Router       /v1/users/clients [get]
func (h *UserHandler) Clients(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	users, err := h.invitations.Clients(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "clients", toPublicUsers(users))
}

// DeleteSelf removes the caller's account.
//
// @Summary      Delete own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /v1/users/self [delete]
func (h *UserHandler) DeleteSelf(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteSelf(c.Request().Context(), actor.UserID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "account deleted", nil)
}

// List returns every verified user. super_admin only.
//
// @Summary      List verified users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]userResponse}
// @Failure      403  {object}  envelope
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListVerified(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "users", toUserResponses(users))
}

// SetAdmin grants or revokes the admin role. super_admin only.
//
// @Summary      Grant or revoke admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "User id"
// @Param        body  body      adminRequest  true  "Admin flag"
// @Success      200   {object}  envelope{data=userResponse}
// @Failure      403   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /v1/users/{id}/admin [put]
func (h *UserHandler) SetAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req adminRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetAdmin(c.Request().Context(), actor, c.Param("id"), *req.Admin)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "role updated", toUserResponse(user))
}

// Delete removes another user's account. super_admin only.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user deleted", nil)
}
