package auth

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// publicPaths are route templates served without a token.
var publicPaths = []string{"/health", "/health/db", "/metrics"}

// AuthSkipper lets CORS preflight requests and public routes through
// without authentication.
func AuthSkipper(c echo.Context) bool {
	return c.Request().Method == http.MethodOptions || IsPublicPath(c.Path())
}

// IsPublicPath reports whether path is one of the public infrastructure
// routes (health probes and metrics).
func IsPublicPath(path string) bool {
	return slices.Contains(publicPaths, path)
}
