package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/core/ports"
)

type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List returns the comments on a listing that the caller may see: their own
// and those of their accepted clients.
//
// @Summary      List comments on a property
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        propertyId  path      string  true  "Property id"
// @Success      200         {object}  envelope{data=[]commentResponse}
// @Router       /v1/comments/{propertyId} [get]
func (h *CommentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	views, err := h.comments.List(c.Request().Context(), actor.UserID, c.Param("propertyId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "comments", toCommentResponses(views))
}

// Create comments on a listing.
//
// @Summary      Comment on a property
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  envelope{data=commentResponse}
// @Failure      400   {object}  envelope
// @Router       /v1/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	cm, err := h.comments.Create(c.Request().Context(), actor.UserID, req.PropertyID, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "comment added", toCommentResponse(*cm, nil))
}

// Update edits the caller's own comment.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment id"
// @Param        body  body      updateCommentRequest  true  "New text"
// @Success      200   {object}  envelope{data=commentResponse}
// @Failure      403   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /v1/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	cm, err := h.comments.Update(c.Request().Context(), actor.UserID, c.Param("id"), req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "comment updated", toCommentResponse(*cm, nil))
}

// Delete removes the caller's own comment.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), actor.UserID, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "comment deleted", nil)
}
