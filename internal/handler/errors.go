package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/session"
	"github.com/pharmstock/medfront/internal/table"
)

// writeError maps the module's error taxonomy onto HTTP responses for the
// browser. Messages are returned verbatim: the sentinels wrap the
// server-supplied detail where one exists, and the front end renders them as
// dismissible notices near the point of action.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, table.ErrValidation),
		errors.Is(err, session.ErrFieldsRequired),
		errors.Is(err, session.ErrPasswordMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, session.ErrMissingOAuthToken):
		// Fatal for the redirect flow; distinct from a failed login so the
		// front end does not offer a retry that cannot succeed.
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error(), "fatal": true})
	case errors.Is(err, apiclient.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, apiclient.ErrSessionExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error(), "sessionExpired": true})
	case errors.Is(err, apiclient.ErrUserExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, apiclient.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
}
