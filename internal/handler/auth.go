package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/session"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Sessions      *session.Manager
	APIBaseURL    string // for building the OAuth authorization redirect
	OAuthProvider string
}

func NewAuthHandler(sessions *session.Manager, apiBaseURL, provider string) *AuthHandler {
	return &AuthHandler{Sessions: sessions, APIBaseURL: apiBaseURL, OAuthProvider: provider}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerReq struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Session reports the current session snapshot, including the pending flag
// the front end must respect before showing role-gated controls.
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Sessions.Current())
}

// Login authenticates and returns the resulting session snapshot. A failed
// login leaves any existing session untouched.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Sessions.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.Sessions.Current())
}

// Register creates an account; whether the response is already authenticated
// depends on the auto-login policy, which the snapshot reflects.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Sessions.Register(c.Request().Context(), req.Username, req.Password, req.ConfirmPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, h.Sessions.Current())
}

// Logout resets the session. Always succeeds locally; calling it while
// logged out is a harmless no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, h.Sessions.Current())
}

// OAuthStart bounces the browser to the backend's authorization endpoint;
// the provider redirects back to OAuthCallback with ?token=.
func (h *AuthHandler) OAuthStart(c echo.Context) error {
	return c.Redirect(http.StatusFound,
		fmt.Sprintf("%s/oauth2/authorization/%s", h.APIBaseURL, h.OAuthProvider))
}

// OAuthCallback completes the redirect flow with the query-delivered token.
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	if err := h.Sessions.CompleteOAuthRedirect(c.Request().Context(), c.QueryParam("token")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.Sessions.Current())
}
