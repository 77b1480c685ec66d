package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/session"
)

// ProfileHandler serves the current user's profile screen.
type ProfileHandler struct {
	Client   *apiclient.Client
	Sessions *session.Manager
}

func NewProfileHandler(client *apiclient.Client, sessions *session.Manager) *ProfileHandler {
	return &ProfileHandler{Client: client, Sessions: sessions}
}

type changePasswordReq struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// Get fetches a fresh profile from the backend rather than echoing the
// session's cached identity, so role or status changes made by another admin
// show up.
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := h.Client.Profile(ctx)
	if err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, id)
}

// ChangePassword updates the password for the logged-in user. The username
// comes from the session, not the request body.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OldPassword == "" || req.NewPassword == "" || req.ConfirmNewPassword == "" {
		return writeError(c, session.ErrFieldsRequired)
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return writeError(c, session.ErrPasswordMismatch)
	}

	st := h.Sessions.Current()
	if st.User == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}
	ctx := c.Request().Context()
	if err := h.Client.ChangePassword(ctx, st.User.Username, req.OldPassword, req.NewPassword, req.ConfirmNewPassword); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
