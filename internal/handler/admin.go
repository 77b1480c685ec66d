package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/admin"
	"github.com/pharmstock/medfront/internal/model"
	"github.com/pharmstock/medfront/internal/session"
)

// AdminHandler serves the user-management screen. Routes behind it are
// admin-gated in the router.
type AdminHandler struct {
	Admin    *admin.Controller
	Sessions *session.Manager
}

func NewAdminHandler(a *admin.Controller, s *session.Manager) *AdminHandler {
	return &AdminHandler{Admin: a, Sessions: s}
}

func (h *AdminHandler) actor() string {
	if st := h.Sessions.Current(); st.User != nil {
		return st.User.Username
	}
	return ""
}

type setRoleReq struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ListUsers refreshes and returns all accounts.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Admin.Load(ctx)
	if err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// DeleteUser removes an account by id.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Admin.Delete(ctx, h.actor(), id); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetUserStatus handles PUT /admin/users/:username/:action where action is
// ENABLE or DISABLE, mirroring the backend's own route shape.
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	username := c.Param("username")
	action := strings.ToUpper(c.Param("action"))
	if action != "ENABLE" && action != "DISABLE" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be ENABLE or DISABLE"})
	}
	ctx := c.Request().Context()
	updated, err := h.Admin.SetStatus(ctx, h.actor(), username, action == "ENABLE")
	if err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// SetUserRole changes an account's role.
func (h *AdminHandler) SetUserRole(c echo.Context) error {
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role != model.RoleUser && role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be USER or ADMIN"})
	}
	ctx := c.Request().Context()
	if err := h.Admin.SetRole(ctx, h.actor(), req.Username, role); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": h.Admin.Users()})
}

// Notify triggers the expiring-stock notification mail.
func (h *AdminHandler) Notify(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Admin.Notify(ctx, h.actor()); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}
