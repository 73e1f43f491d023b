package middleware

// identity.go defines helpers shared across middleware files for keying
// per-user state (rate limit buckets, cache entries).

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserIDFrom returns the authenticated user's ID set by JWTAuth, or
// false when the request is unauthenticated.
func UserIDFrom(c echo.Context) (uint64, bool) {
    id, ok := c.Get(CtxUserID).(uint64)
    return id, ok && id != 0
}

// userKey renders the user for use in Redis keys; "anon" when no token
// has been verified on this request.
func userKey(c echo.Context) string {
    if id, ok := UserIDFrom(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
