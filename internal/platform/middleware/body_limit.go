package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/bytes"
)

// BodyLimit caps request bodies of writes at limit ("1M", "512K", "2MB").
// Oversized bodies get 413. Reads are not limited.
func BodyLimit(limit string) (echo.MiddlewareFunc, error) {
	n, err := bytes.Parse(limit)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid body limit %q", limit)
	}
	return echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Limit:   limit,
		Skipper: readOnly,
	}), nil
}

func readOnly(c echo.Context) bool {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
