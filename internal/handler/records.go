package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pharmstock/medfront/internal/audit"
	"github.com/pharmstock/medfront/internal/session"
	"github.com/pharmstock/medfront/internal/table"
)

// RecordsHandler covers the mutating half of the inventory table: create,
// update, delete, bulk delete. All routes behind it are admin-gated. Every
// successful mutation refetches through the controller, so the response
// snapshot already shows the server's canonical ordering and banding.
type RecordsHandler struct {
	Table    *table.Controller
	Sessions *session.Manager
	Audit    *audit.Publisher
}

func NewRecordsHandler(t *table.Controller, s *session.Manager, a *audit.Publisher) *RecordsHandler {
	return &RecordsHandler{Table: t, Sessions: s, Audit: a}
}

func (h *RecordsHandler) actor() string {
	if st := h.Sessions.Current(); st.User != nil {
		return st.User.Username
	}
	return ""
}

// Create adds a record from the dialog's draft.
func (h *RecordsHandler) Create(c echo.Context) error {
	var draft table.Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if err := h.Table.Create(ctx, draft); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	_ = h.Audit.Publish(ctx, audit.NewEvent(audit.ActionRecordCreated, h.actor(), draft.Name, ""))
	return c.JSON(http.StatusCreated, h.Table.Snapshot())
}

// Update edits a record addressed by the path id.
func (h *RecordsHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var draft table.Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if err := h.Table.Update(ctx, id, draft); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	_ = h.Audit.Publish(ctx, audit.NewEvent(audit.ActionRecordUpdated, h.actor(), strconv.FormatInt(id, 10), ""))
	return c.JSON(http.StatusOK, h.Table.Snapshot())
}

// Delete removes one record.
func (h *RecordsHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Table.Delete(ctx, id); err != nil {
		h.Sessions.InvalidateOn(ctx, err)
		return writeError(c, err)
	}
	_ = h.Audit.Publish(ctx, audit.NewEvent(audit.ActionRecordDeleted, h.actor(), strconv.FormatInt(id, 10), ""))
	return c.JSON(http.StatusOK, h.Table.Snapshot())
}

// bulkDeleteResp pairs the per-id outcome with the refreshed snapshot so the
// front end can report failures and re-render in one pass.
type bulkDeleteResp struct {
	Result   table.BulkResult `json:"result"`
	Snapshot table.Snapshot   `json:"snapshot"`
}

// DeleteSelected deletes every selected record. Partial failure is a 207:
// the body says exactly which ids survived, and the snapshot reflects
// whatever subset was actually removed.
func (h *RecordsHandler) DeleteSelected(c echo.Context) error {
	ctx := c.Request().Context()
	res, err := h.Table.DeleteSelected(ctx)
	if err != nil {
		h.Sessions.InvalidateOn(ctx, err)
	}
	for _, id := range res.Deleted {
		_ = h.Audit.Publish(ctx, audit.NewEvent(audit.ActionRecordDeleted, h.actor(), strconv.FormatInt(id, 10), "bulk"))
	}
	resp := bulkDeleteResp{Result: res, Snapshot: h.Table.Snapshot()}
	if len(res.Failed) > 0 {
		return c.JSON(http.StatusMultiStatus, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
