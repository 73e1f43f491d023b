package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/railway-booking/internal/utils" // token verification shared with issuance
)

// Context keys set by JWTAuth.
const (
    CtxUserID   = "user_id"
    CtxUsername = "username"
    CtxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// with the same secret used to issue it and injects the token's userId,
// username and role into the request context.  Requests with a missing,
// malformed, badly signed or expired token are answered with 401 before
// the handler (and so the database) is reached.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized. Invalid or expired token."})
            }

            // user_id is stored as uint64 so handlers can compare it with
            // request bodies without further conversion.
            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxUsername, claims.Username)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}
