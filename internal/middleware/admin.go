package middleware // middleware provides shared request processing for handlers

import (
    "crypto/subtle" // constant-time comparison of the shared key
    "net/http"      // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// AdminKeyHeader carries the administrative API key.
const AdminKeyHeader = "X-API-Key"

// RequireAdminKey gates administrative routes (train creation) behind a
// shared API key.  An empty key leaves the route open, which matches the
// behavior of deployments that were never configured with one.
func RequireAdminKey(key string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        if key == "" {
            return next
        }
        want := []byte(key)
        return func(c echo.Context) error {
            got := []byte(c.Request().Header.Get(AdminKeyHeader))
            if subtle.ConstantTimeCompare(got, want) != 1 {
                return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid admin api key"})
            }
            return next(c)
        }
    }
}
