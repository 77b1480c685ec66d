package router // package router defines how the console's HTTP routes are registered

import (
	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/handler"
	"github.com/pharmstock/medfront/internal/middleware"
	"github.com/pharmstock/medfront/internal/session"
)

// RegisterRoutes registers routes that carry no session requirement.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. None of them sit behind the
// gate: login/register/the OAuth callback establish the session, and logout
// and the snapshot endpoint must work regardless of state.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.GET("/session", a.Session)
	g.POST("/login", a.Login)
	g.POST("/register", a.Register)
	g.POST("/logout", a.Logout)
	g.GET("/oauth2/start", a.OAuthStart)
	g.GET("/oauth2/callback", a.OAuthCallback)
}

// RegisterTable registers the inventory table routes. Reading the table is
// open — unauthenticated visitors get the read-only view — while every
// mutating affordance sits behind the admin gate. The gate is a UX boundary;
// the backend still authorizes each proxied call.
func RegisterTable(e *echo.Echo, t *handler.TableHandler, r *handler.RecordsHandler, sessions *session.Manager) {
	e.GET("/v1/table", t.Snapshot)
	e.POST("/v1/table/load", t.Load)
	e.POST("/v1/table/page", t.SetPage)
	e.POST("/v1/table/sort", t.SetSort)

	sel := e.Group("/v1/table", middleware.RequireAdmin(sessions))
	sel.POST("/select", t.ToggleSelect)
	sel.POST("/select-all", t.SelectAll)
	sel.DELETE("/selection", t.ClearSelection)

	rec := e.Group("/v1/records", middleware.RequireAdmin(sessions))
	rec.POST("", r.Create)
	rec.PUT("/:id", r.Update)
	rec.DELETE("/:id", r.Delete)
	rec.POST("/delete-selected", r.DeleteSelected)
}

// RegisterProfile registers the profile screen for any authenticated user.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, sessions *session.Manager) {
	g := e.Group("/v1/profile", middleware.RequireAuth(sessions))
	g.GET("", p.Get)
	g.PUT("/password", p.ChangePassword)
}

// RegisterAdmin registers the user-management screen behind the admin gate.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, sessions *session.Manager) {
	g := e.Group("/v1/admin", middleware.RequireAdmin(sessions))
	g.GET("/users", a.ListUsers)
	g.DELETE("/users/:id", a.DeleteUser)
	g.PUT("/users/:username/:action", a.SetUserStatus)
	g.PUT("/users/role", a.SetUserRole)
	g.POST("/users/notification", a.Notify)
}
