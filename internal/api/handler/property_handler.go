package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/api/metrics"
	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

type PropertyHandler struct {
	properties ports.PropertyService
}

func NewPropertyHandler(properties ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// Search runs the caller's saved filter.
//
// @Summary      Search properties with the saved filter
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  envelope{data=propertyPageResponse}
// @Router       /v1/properties/search [get]
func (h *PropertyHandler) Search(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	start := time.Now()
	page, err := h.properties.Search(c.Request().Context(), actor.UserID, pageParams(c))
	observeSearch("saved", start)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "properties", toPropertyPage(page))
}

// SearchByLocation runs the saved filter around another location.
//
// @Summary      Search properties around a location
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int                    false  "Page number (default 1)"
// @Param        limit  query     int                    false  "Page size (default 10, max 100)"
// @Param        body   body      locationSearchRequest  true   "Search center and radius in km"
// @Success      200    {object}  envelope{data=propertyPageResponse}
// @Failure      400    {object}  envelope
// @Router       /v1/properties/search/location [post]
func (h *PropertyHandler) SearchByLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req locationSearchRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	loc := domain.Location{Latitude: *req.Latitude, Longitude: *req.Longitude, Radius: req.Radius}
	start := time.Now()
	page, err := h.properties.SearchByLocation(c.Request().Context(), actor.UserID, loc, pageParams(c))
	observeSearch("location", start)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "properties", toPropertyPage(page))
}

func observeSearch(mode string, start time.Time) {
	metrics.PropertySearchesTotal.WithLabelValues(mode).Inc()
	metrics.PropertySearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

// SetSelection likes or dislikes a listing.
//
// @Summary      Like or dislike a property
// @Tags         selections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      selectionRequest  true  "Property and decision"
// @Success      201   {object}  envelope{data=selectionResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /v1/properties/selections [post]
func (h *PropertyHandler) SetSelection(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req selectionRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	sel, err := h.properties.SetSelection(c.Request().Context(), actor.UserID, req.PropertyID, domain.SelectionStatus(req.Status))
	if err != nil {
		return err
	}
	metrics.SelectionsTotal.WithLabelValues(string(sel.Status)).Inc()
	return respond(c, http.StatusCreated, "selection saved", toSelectionResponse(*sel, nil))
}

// Selections lists the caller's liked and disliked listings.
//
// @Summary      List own selections
// @Tags         selections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope{data=[]selectionResponse}
// @Router       /v1/properties/selections [get]
func (h *PropertyHandler) Selections(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	views, err := h.properties.Selections(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "selections", toSelectionResponses(views))
}

// ClientSelections lists a client's selections. The caller needs an accepted
// invitation to that client.
//
// @Summary      List a client's selections
// @Tags         selections
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  path      string  true  "Client user id"
// @Success      200       {object}  envelope{data=[]selectionResponse}
// @Failure      403       {object}  envelope
// @Router       /v1/properties/selections/{clientId} [get]
func (h *PropertyHandler) ClientSelections(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	views, err := h.properties.ClientSelections(c.Request().Context(), actor.UserID, c.Param("clientId"))
	if errors.Is(err, domain.ErrNoClientAccess) {
		metrics.AccessDeniedTotal.Inc()
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "selections", toSelectionResponses(views))
}

// DeleteSelection forgets the caller's decision on a listing.
//
// @Summary      Remove a selection
// @Tags         selections
// @Produce      json
// @Security     BearerAuth
// @Param        propertyId  path      string  true  "Property id"
// @Success      200         {object}  envelope
// @Failure      400         {object}  envelope
// @Router       /v1/properties/selections/{propertyId} [delete]
func (h *PropertyHandler) DeleteSelection(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.properties.DeleteSelection(c.Request().Context(), actor.UserID, c.Param("propertyId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "selection removed", nil)
}
