package handler // package handler exposes the console's HTTP endpoints

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness endpoint for process supervisors. It says nothing
// about the backend's reachability; the table's error banner covers that.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
