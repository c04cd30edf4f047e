package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/api/metrics"
	"github.com/sould/property-match/internal/core/ports"
)

type InvitationHandler struct {
	invitations ports.InvitationService
}

func NewInvitationHandler(invitations ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// Create invites an email address to become the caller's client.
//
// @Summary      Send an invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      invitationRequest  true  "Invitee email"
// @Success      201   {object}  envelope{data=invitationResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /v1/invitations [post]
func (h *InvitationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req invitationRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	inv, err := h.invitations.Create(c.Request().Context(), actor.UserID, req.ToUserEmail)
	if err != nil {
		return err
	}
	metrics.InvitationsTotal.WithLabelValues("created").Inc()
	return respond(c, http.StatusCreated, "invitation sent", toInvitationResponse(*inv, nil))
}

// Accept accepts an invitation addressed to the caller.
//
// @Summary      Accept an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation id"
// @Success      200  {object}  envelope{data=invitationResponse}
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /v1/invitations/{id}/accept [put]
func (h *InvitationHandler) Accept(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	inv, err := h.invitations.Accept(c.Request().Context(), actor.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.InvitationsTotal.WithLabelValues("accepted").Inc()
	return respond(c, http.StatusOK, "invitation accepted", toInvitationResponse(*inv, nil))
}

// Reject declines a pending invitation addressed to the caller.
//
// @Summary      Reject an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /v1/invitations/{id}/reject [put]
func (h *InvitationHandler) Reject(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.invitations.Reject(c.Request().Context(), actor.UserID, c.Param("id")); err != nil {
		return err
	}
	metrics.InvitationsTotal.WithLabelValues("rejected").Inc()
	return respond(c, http.StatusOK, "invitation rejected", nil)
}

// Delete withdraws an invitation the caller sent, in any state.
//
// @Summary      Delete an invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /v1/invitations/{id} [delete]
func (h *InvitationHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.invitations.Delete(c.Request().Context(), actor.UserID, c.Param("id")); err != nil {
		return err
	}
	metrics.InvitationsTotal.WithLabelValues("deleted").Inc()
	return respond(c, http.StatusOK, "invitation deleted", nil)
}

// Pending lists the caller's sent invitations awaiting an answer.
//
// @Summary      List pending sent invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]invitationResponse}
// @Router       /v1/invitations/pending [get]
func (h *InvitationHandler) Pending(c echo.Context) error {
	return h.list(c, h.invitations.PendingSent)
}

// Accepted lists the caller's sent invitations that were accepted.
//
// @Summary      List accepted sent invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]invitationResponse}
// @Router       /v1/invitations/accepted [get]
func (h *InvitationHandler) Accepted(c echo.Context) error {
	return h.list(c, h.invitations.AcceptedSent)
}

// Received lists invitations addressed to the caller.
//
// @Summary      List received invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]invitationResponse}
// @Router       /v1/invitations/received [get]
func (h *InvitationHandler) Received(c echo.Context) error {
	return h.list(c, h.invitations.Received)
}

type invitationLister func(ctx context.Context, userID string) ([]ports.InvitationView, error)

func (h *InvitationHandler) list(c echo.Context, fn invitationLister) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	views, err := fn(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "invitations", toInvitationResponses(views))
}
