package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sould/property-match/internal/core/ports"
)

// envelope wraps every successful response. Errors use the same shape
// without data, rendered by the API error handler.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Data: data, Message: message, Success: true})
}

// pageParams reads ?page= and ?limit=. Malformed values fall back to the
// defaults.
func pageParams(c echo.Context) ports.Page {
	number, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.NewPage(number, limit)
}
