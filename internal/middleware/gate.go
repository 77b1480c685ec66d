package middleware // middleware provides shared request processing for the console routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/session"
)

// The gates below decide which affordances are reachable, nothing more. The
// backend re-authorizes every proxied call, so these are a UX boundary, not
// a security one. While the session is still pending (Initialize has not
// resolved) gated routes refuse instead of guessing either way.

// RequireAuth admits only authenticated sessions.
func RequireAuth(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := m.Current()
			if st.Pending {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session not ready"})
			}
			if !st.Authenticated {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			return next(c)
		}
	}
}

// RequireAdmin admits only authenticated sessions holding the ADMIN role.
func RequireAdmin(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := m.Current()
			if st.Pending {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session not ready"})
			}
			if !st.Authenticated {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			if st.User == nil || !st.User.IsAdmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
