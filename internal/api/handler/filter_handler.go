package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

type FilterHandler struct {
	filters ports.FilterService
}

func NewFilterHandler(filters ports.FilterService) *FilterHandler {
	return &FilterHandler{filters: filters}
}

// Get returns the caller's saved filter, or an empty one.
//
// @Summary      Get saved filter
// @Tags         filters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=domain.Filter}
// @Router       /v1/filters [get]
func (h *FilterHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	f, err := h.filters.Get(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "filter", f)
}

// Set replaces the caller's saved filter.
//
// @Summary      Save filter
// @Tags         filters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Filter  true  "Search filter"
// @Success      200   {object}  envelope{data=domain.Filter}
// @Failure      400   {object}  envelope
// @Router       /v1/filters [put]
func (h *FilterHandler) Set(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var f domain.Filter
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	saved, err := h.filters.Set(c.Request().Context(), actor.UserID, &f)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "filter saved", saved)
}
