package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityConfig selects the transport-dependent headers.
type SecurityConfig struct {
	// HSTS sends Strict-Transport-Security; only behind TLS.
	HSTS bool
}

var apiHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
	// Prescriptions and payments must not be cached by intermediaries.
	{"Cache-Control", "no-store"},
}

// SecurityHeaders sets the JSON API response headers. Responses vary by
// Accept-Language because validation messages are localized.
func SecurityHeaders(cfg SecurityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range apiHeaders {
				h.Set(kv[0], kv[1])
			}
			if cfg.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			h.Add(echo.HeaderVary, "Accept-Language")
			return next(c)
		}
	}
}
