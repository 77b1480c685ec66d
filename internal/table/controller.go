// Package table owns the paginated, sorted view of the inventory and the
// mutations against it. It never caches beyond the current page: every
// successful mutation refetches, because ordering and freshness banding are
// server-derived. Responses are applied in last-request-wins order keyed by
// a sequence number, so a slow response for stale parameters can never
// clobber newer state.
package table

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/model"
)

// ErrValidation is returned when a draft fails the client-side field checks.
// The operation aborts before any network call; the caller keeps the dialog
// open with the user's input intact.
var ErrValidation = errors.New("validation failed")

// Phase is the table lifecycle state.
type Phase string

const (
	Idle    Phase = "idle"
	Loading Phase = "loading"
	Loaded  Phase = "loaded"
	Errored Phase = "errored"
)

// DefaultSortField is the initial ordering of the table.
const DefaultSortField = "name"

// Draft is the raw form input for creating or editing a record. The
// expiration date arrives as the dd-MM-yyyy string the date field produces.
type Draft struct {
	Name           string `json:"name"`
	SerialNumber   string `json:"serialNumber"`
	ExpirationDate string `json:"expirationDate"`
}

// BulkResult reports a bulk delete outcome id by id. Partial failure is a
// normal outcome, never collapsed into all-or-nothing.
type BulkResult struct {
	Deleted []int64 `json:"deleted"`
	Failed  []int64 `json:"failed"`
}

// Row is one rendered table line: the record as the backend serves it plus
// the display form of the expiration date ("25 Dec 2025"), so the front end
// never reparses the wire format.
type Row struct {
	model.Medicine
	DisplayDate string `json:"displayDate"`
}

// Snapshot is a copy of the view state for rendering. Rows survive into the
// Errored phase so sort and selection context is not lost under an error
// banner.
type Snapshot struct {
	Phase      Phase                   `json:"phase"`
	Records    []Row                   `json:"records"`
	Page       int                     `json:"page"` // 1-based, as displayed
	TotalPages int                     `json:"totalPages"`
	SortField  string                  `json:"sortField"`
	SortDir    apiclient.SortDirection `json:"sortDir"`
	Selected   []int64                 `json:"selected"`
	LastError  string                  `json:"lastError,omitempty"`
}

// Controller is the table state machine. Safe for concurrent use; the mutex
// is never held across a backend call.
type Controller struct {
	client   *apiclient.Client
	pageSize int

	mu         sync.Mutex
	seq        uint64
	closed     bool
	phase      Phase
	records    []model.Medicine
	page       int
	totalPages int
	sortField  string
	sortDir    apiclient.SortDirection
	selected   map[int64]bool
	lastErr    string
}

// NewController builds an idle controller showing page 1 sorted by name
// ascending.
func NewController(client *apiclient.Client, pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = 20
	}
	return &Controller{
		client:     client,
		pageSize:   pageSize,
		phase:      Idle,
		records:    []model.Medicine{},
		page:       1,
		totalPages: 1,
		sortField:  DefaultSortField,
		sortDir:    apiclient.Ascending,
		selected:   map[int64]bool{},
	}
}

// Close marks the controller torn down; in-flight responses are discarded
// from then on.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	rows := make([]Row, len(c.records))
	for i, r := range c.records {
		rows[i] = Row{Medicine: r, DisplayDate: r.ExpirationDate.Display()}
	}
	sel := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		sel = append(sel, id)
	}
	sort.Slice(sel, func(i, j int) bool { return sel[i] < sel[j] })
	return Snapshot{
		Phase:      c.phase,
		Records:    rows,
		Page:       c.page,
		TotalPages: c.totalPages,
		SortField:  c.sortField,
		SortDir:    c.sortDir,
		Selected:   sel,
		LastError:  c.lastErr,
	}
}

// LoadPage fetches the page for the current view parameters. The returned
// error is the load failure when there was one; the snapshot already
// reflects it (Errored phase, retained rows), so callers can render either
// way and still distinguish a dead session from a flaky backend.
func (c *Controller) LoadPage(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	return c.fetch(ctx)
}

// SetPage moves to a different 1-based page and refetches. Out-of-range
// input is clamped to the known page count.
func (c *Controller) SetPage(ctx context.Context, page int) (Snapshot, error) {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	if page > c.totalPages {
		page = c.totalPages
	}
	c.page = page
	return c.fetch(ctx)
}

// SetSort applies the toggling rule: clicking the active field flips the
// direction, clicking another field activates it ascending. The current page
// is preserved; page and sort are independent view dimensions.
func (c *Controller) SetSort(ctx context.Context, field string) (Snapshot, error) {
	c.mu.Lock()
	field = strings.TrimSpace(field)
	if field == "" {
		field = DefaultSortField
	}
	if field == c.sortField {
		if c.sortDir == apiclient.Ascending {
			c.sortDir = apiclient.Descending
		} else {
			c.sortDir = apiclient.Ascending
		}
	} else {
		c.sortField = field
		c.sortDir = apiclient.Ascending
	}
	return c.fetch(ctx)
}

// fetch issues a sequenced load for the parameters current at call time.
// Called with c.mu held; returns with it released. The response is applied
// only if no newer request was issued meanwhile.
func (c *Controller) fetch(ctx context.Context) (Snapshot, error) {
	for {
		c.seq++
		mySeq := c.seq
		c.phase = Loading
		page, size := c.page, c.pageSize
		field, dir := c.sortField, c.sortDir
		c.mu.Unlock()

		res, err := c.client.ListMedicines(ctx, page-1, size, field, dir)

		c.mu.Lock()
		if c.closed || mySeq != c.seq {
			// A newer request owns the view now (or the controller is
			// gone); this response is dropped on the floor.
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}

		if err != nil {
			// Keep the last-good rows under the error banner.
			c.phase = Errored
			c.lastErr = err.Error()
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, err
		}

		c.phase = Loaded
		c.lastErr = ""
		c.records = res.Records
		c.totalPages = res.TotalPages

		// A refetch after deletes can prove the current page out of range;
		// snap to the last page that exists and fetch again.
		if c.page > c.totalPages {
			c.page = c.totalPages
			continue
		}

		// Selection stays a subset of the rows on screen.
		onPage := make(map[int64]bool, len(c.records))
		for _, r := range c.records {
			onPage[r.ID] = true
		}
		for id := range c.selected {
			if !onPage[id] {
				delete(c.selected, id)
			}
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
}

// parseDraft runs the client-side checks and converts the form input to the
// wire draft.
func parseDraft(d Draft) (model.MedicineDraft, error) {
	name := strings.TrimSpace(d.Name)
	serial := strings.TrimSpace(d.SerialNumber)
	if name == "" {
		return model.MedicineDraft{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if serial == "" {
		return model.MedicineDraft{}, fmt.Errorf("%w: serial number is required", ErrValidation)
	}
	date, err := model.ParseWireDate(d.ExpirationDate)
	if err != nil {
		return model.MedicineDraft{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return model.MedicineDraft{Name: name, SerialNumber: serial, ExpirationDate: date}, nil
}

// Create validates the draft and submits it. On success the current page is
// refetched; on failure nothing changes, so the edit dialog can stay open.
func (c *Controller) Create(ctx context.Context, d Draft) error {
	draft, err := parseDraft(d)
	if err != nil {
		return err
	}
	if err := c.client.CreateMedicine(ctx, draft); err != nil {
		return err
	}
	c.mu.Lock()
	_, _ = c.fetch(ctx)
	return nil
}

// Update is Create's edit-mode sibling.
func (c *Controller) Update(ctx context.Context, id int64, d Draft) error {
	draft, err := parseDraft(d)
	if err != nil {
		return err
	}
	if err := c.client.UpdateMedicine(ctx, id, draft); err != nil {
		return err
	}
	c.mu.Lock()
	_, _ = c.fetch(ctx)
	return nil
}

// Delete removes one record and refetches.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.client.DeleteMedicine(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.selected, id)
	_, _ = c.fetch(ctx)
	return nil
}

// DeleteSelected deletes every selected record as independent calls and
// accounts for each id separately. Ids confirmed deleted leave the
// selection; failed ids stay selected so the user can see and retry them.
// The refetch afterwards shows whatever subset actually survived.
func (c *Controller) DeleteSelected(ctx context.Context) (BulkResult, error) {
	c.mu.Lock()
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var res BulkResult
	var firstErr error
	for _, id := range ids {
		if err := c.client.DeleteMedicine(ctx, id); err != nil {
			res.Failed = append(res.Failed, id)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		res.Deleted = append(res.Deleted, id)
		c.mu.Lock()
		delete(c.selected, id)
		c.mu.Unlock()
	}

	c.mu.Lock()
	_, _ = c.fetch(ctx)

	if len(res.Failed) > 0 {
		return res, fmt.Errorf("delete failed for %d of %d records: %w", len(res.Failed), len(ids), firstErr)
	}
	return res, nil
}

// ToggleSelect flips one row's selection. Ids not on the current page are
// ignored, keeping the subset invariant.
func (c *Controller) ToggleSelect(id int64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	onPage := false
	for _, r := range c.records {
		if r.ID == id {
			onPage = true
			break
		}
	}
	if onPage {
		if c.selected[id] {
			delete(c.selected, id)
		} else {
			c.selected[id] = true
		}
	}
	return c.snapshotLocked()
}

// SelectAll selects exactly the rows on the current page, never across pages.
func (c *Controller) SelectAll() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int64]bool, len(c.records))
	for _, r := range c.records {
		c.selected[r.ID] = true
	}
	return c.snapshotLocked()
}

// ClearSelection drops every selection.
func (c *Controller) ClearSelection() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = map[int64]bool{}
	return c.snapshotLocked()
}
