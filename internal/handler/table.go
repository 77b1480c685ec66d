package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/session"
	"github.com/pharmstock/medfront/internal/table"
)

// TableHandler exposes the inventory table's view-state operations. The
// controller owns the state; these endpoints only translate browser actions
// into controller calls and hand the resulting snapshot back.
type TableHandler struct {
	Table    *table.Controller
	Sessions *session.Manager
}

func NewTableHandler(t *table.Controller, s *session.Manager) *TableHandler {
	return &TableHandler{Table: t, Sessions: s}
}

type setPageReq struct {
	Page int `json:"page"`
}

type setSortReq struct {
	Field string `json:"field"`
}

type selectReq struct {
	ID int64 `json:"id"`
}

// Snapshot returns the current view state without refetching.
func (h *TableHandler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Table.Snapshot())
}

// Load refetches the current page. Used on first render and as the retry
// action under the error banner. A failed load still answers 200 with the
// snapshot: the banner renders over the retained rows, never a blank table.
func (h *TableHandler) Load(c echo.Context) error {
	snap, err := h.Table.LoadPage(c.Request().Context())
	h.Sessions.InvalidateOn(c.Request().Context(), err)
	return c.JSON(http.StatusOK, snap)
}

// SetPage moves to another page and refetches.
func (h *TableHandler) SetPage(c echo.Context) error {
	var req setPageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	snap, err := h.Table.SetPage(c.Request().Context(), req.Page)
	h.Sessions.InvalidateOn(c.Request().Context(), err)
	return c.JSON(http.StatusOK, snap)
}

// SetSort applies the sort toggling rule and refetches.
func (h *TableHandler) SetSort(c echo.Context) error {
	var req setSortReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	snap, err := h.Table.SetSort(c.Request().Context(), req.Field)
	h.Sessions.InvalidateOn(c.Request().Context(), err)
	return c.JSON(http.StatusOK, snap)
}

// ToggleSelect flips one row's checkbox.
func (h *TableHandler) ToggleSelect(c echo.Context) error {
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return c.JSON(http.StatusOK, h.Table.ToggleSelect(req.ID))
}

// SelectAll selects exactly the current page's rows.
func (h *TableHandler) SelectAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Table.SelectAll())
}

// ClearSelection empties the selection.
func (h *TableHandler) ClearSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Table.ClearSelection())
}
