package handler // handler defines http handlers

import (
    "errors"   // errors.Is maps service sentinels to status codes
    "log"      // unexpected failures are logged with the request path
    "net/http" // HTTP status codes
    "strconv"  // strconv converts path params to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/railway-booking/internal/middleware" // context keys set by JWTAuth
    "github.com/iliyamo/railway-booking/internal/service"    // service error taxonomy
)

// errorStatus maps a service error to its HTTP status.  Anything that is
// not a known sentinel is a storage or internal failure.
func errorStatus(err error) int {
    switch {
    case errors.Is(err, service.ErrValidation):
        return http.StatusBadRequest
    case errors.Is(err, service.ErrInvalidCredentials):
        return http.StatusUnauthorized
    case errors.Is(err, service.ErrForbidden):
        return http.StatusForbidden
    case errors.Is(err, service.ErrTrainNotFound), errors.Is(err, service.ErrBookingNotFound):
        return http.StatusNotFound
    case errors.Is(err, service.ErrDuplicateUser), errors.Is(err, service.ErrCapacityExceeded):
        return http.StatusConflict
    default:
        return http.StatusInternalServerError
    }
}

// writeError converts err into a JSON error response.  Internal errors are
// logged and replaced by a generic message.
func writeError(c echo.Context, err error) error {
    status := errorStatus(err)
    if status == http.StatusInternalServerError {
        log.Printf("handler: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
        return c.JSON(status, echo.Map{"error": "Database error"})
    }
    return c.JSON(status, echo.Map{"error": err.Error()})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id != 0
}

// getUserID returns the user ID that JWTAuth stored on the context.
func getUserID(c echo.Context) (uint64, bool) {
    return middleware.UserIDFrom(c)
}
