package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StatusCode maps an error from the taxonomy to its HTTP status.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		ce *ConflictError
		nf *NotFoundError
		he *echo.HTTPError
	)
	switch {
	case errors.Is(err, ErrAuthorizationDenied):
		return http.StatusForbidden
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &he):
		return he.Code
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the JSON envelope returned for err.
func Body(err error) map[string]interface{} {
	var (
		ve *ValidationError
		ce *ConflictError
		nf *NotFoundError
		he *echo.HTTPError
	)
	switch {
	case errors.Is(err, ErrAuthorizationDenied):
		return map[string]interface{}{"message": ErrAuthorizationDenied.Error()}
	case errors.As(err, &ve):
		return map[string]interface{}{
			"message": "The given data was invalid.",
			"errors":  ve.Fields,
		}
	case errors.As(err, &ce):
		return map[string]interface{}{
			"message":  ce.Message,
			"resource": ce.ResourceType,
			"id":       ce.ResourceID,
		}
	case errors.As(err, &nf):
		return map[string]interface{}{"message": nf.Error()}
	case errors.As(err, &he):
		return map[string]interface{}{"message": he.Message}
	default:
		return map[string]interface{}{"message": "internal server error"}
	}
}

// HTTPErrorHandler renders errors returned by handlers. Server-side failures
// are logged; client errors are not.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := StatusCode(err)
		if status >= http.StatusInternalServerError {
			evt := logger.Error().Err(err).Str("path", c.Request().URL.Path)
			if rid, ok := c.Get("request_id").(string); ok {
				evt = evt.Str("request_id", rid)
			}
			evt.Msg("request failed")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, Body(err))
	}
}
