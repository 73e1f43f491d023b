package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health answers liveness probes with a plain "ok".  It does not touch
// storage, so a healthy response only means the process is serving.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
