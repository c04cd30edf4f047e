package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

// Context keys set by the Auth middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// ctxActor extracts the caller injected by the Auth middleware. A missing id
// means the route was registered without the middleware; reject with 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get(ContextUserID).(string)
	if userID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(ContextRole).(string)
	if role == "" {
		role = string(domain.RoleUser)
	}
	return ports.Actor{UserID: userID, Role: domain.Role(role)}, nil
}

// bindValid binds the request body into req and runs struct validation.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
