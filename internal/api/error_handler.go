package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
)

// errorResponse is the envelope for every failed request.
type errorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindInvalid:    http.StatusBadRequest,
	domain.KindForbidden:  http.StatusForbidden,
	domain.KindConflict:   http.StatusConflict,
	domain.KindDependency: http.StatusUnprocessableEntity,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to a status code by their kind.
//   - Keeps the code of Echo's own errors (bind failures, router 404s).
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg, Success: false})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var de *domain.Error
	if errors.As(err, &de) {
		if code, ok := kindStatus[de.Kind]; ok {
			if de.Kind == domain.KindDependency {
				log.Warn().Err(err).Str("path", c.Path()).Msg("dependency failure")
			}
			return code, de.Message
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
