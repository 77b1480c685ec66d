package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/model"
)

// inventory is a stub backend serving paged, sorted medicine listings from an
// in-memory slice, with per-id delete failures and a gate hook for holding
// list responses open.
type inventory struct {
	mu         sync.Mutex
	records    []model.Medicine
	nextID     int64
	failDelete map[int64]bool
	failList   bool
	listCalls  int
	creates    int

	// listGate, when set, runs before a list response is written. It is
	// called outside the lock so it may block.
	listGate func(sortParam string)
}

func newInventory(records ...model.Medicine) *inventory {
	inv := &inventory{failDelete: map[int64]bool{}, nextID: 1}
	for _, r := range records {
		if r.ID >= inv.nextID {
			inv.nextID = r.ID + 1
		}
		inv.records = append(inv.records, r)
	}
	return inv
}

func (inv *inventory) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /medicines", inv.list)
	mux.HandleFunc("POST /medicines", func(w http.ResponseWriter, r *http.Request) {
		var draft model.MedicineDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, `{"message":"bad body"}`, http.StatusBadRequest)
			return
		}
		inv.mu.Lock()
		inv.creates++
		inv.records = append(inv.records, model.Medicine{
			ID:             inv.nextID,
			Name:           draft.Name,
			SerialNumber:   draft.SerialNumber,
			ExpirationDate: draft.ExpirationDate,
		})
		inv.nextID++
		inv.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /medicines/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var draft model.MedicineDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		inv.mu.Lock()
		defer inv.mu.Unlock()
		for i := range inv.records {
			if inv.records[i].ID == id {
				inv.records[i].Name = draft.Name
				inv.records[i].SerialNumber = draft.SerialNumber
				inv.records[i].ExpirationDate = draft.ExpirationDate
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("DELETE /medicines/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		inv.mu.Lock()
		defer inv.mu.Unlock()
		if inv.failDelete[id] {
			http.Error(w, `{"message":"constraint violation"}`, http.StatusInternalServerError)
			return
		}
		for i := range inv.records {
			if inv.records[i].ID == id {
				inv.records = append(inv.records[:i], inv.records[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func (inv *inventory) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	sortParam := q.Get("sort")

	inv.mu.Lock()
	inv.listCalls++
	fail := inv.failList
	rows := make([]model.Medicine, len(inv.records))
	copy(rows, inv.records)
	gate := inv.listGate
	inv.mu.Unlock()

	if gate != nil {
		gate(sortParam)
	}
	if fail {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		return
	}

	field, dir, _ := strings.Cut(sortParam, ",")
	sort.SliceStable(rows, func(i, j int) bool {
		var less bool
		switch field {
		case "expirationDate":
			less = rows[i].ExpirationDate.Time().Before(rows[j].ExpirationDate.Time())
		case "serialNumber":
			less = rows[i].SerialNumber < rows[j].SerialNumber
		default:
			less = rows[i].Name < rows[j].Name
		}
		if dir == "desc" {
			return !less
		}
		return less
	})

	totalPages := (len(rows) + size - 1) / size
	lo := page * size
	hi := lo + size
	if lo > len(rows) {
		lo = len(rows)
	}
	if hi > len(rows) {
		hi = len(rows)
	}
	out := map[string]any{
		"page": map[string]any{
			"size": size, "totalElements": len(rows), "totalPages": totalPages, "number": page,
		},
	}
	if len(rows[lo:hi]) > 0 {
		out["_embedded"] = map[string]any{"medicineViewList": rows[lo:hi]}
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (inv *inventory) listCount() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.listCalls
}

func med(id int64, name, serial, date string) model.Medicine {
	d, err := model.ParseWireDate(date)
	if err != nil {
		panic(err)
	}
	return model.Medicine{ID: id, Name: name, SerialNumber: serial, ExpirationDate: d}
}

func newTestController(t *testing.T, pageSize int, inv *inventory) *Controller {
	t.Helper()
	srv := httptest.NewServer(inv.handler())
	t.Cleanup(srv.Close)
	client := apiclient.New(srv.URL, 5*time.Second)
	client.SetCredential(model.NewCredential("Bearer", "tok"))
	ctl := NewController(client, pageSize)
	t.Cleanup(ctl.Close)
	return ctl
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestLoadPage(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
		med(3, "Codeine", "SN-3", "01-02-2026"),
	)
	ctl := newTestController(t, 10, inv)

	snap, err := ctl.LoadPage(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Phase != Loaded || snap.Page != 1 || snap.TotalPages != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	want := []string{"Aspirin", "Bandage", "Codeine"}
	if got := names(snap.Records); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("records = %v, want %v", got, want)
	}
}

func TestLoadEmptyCollection(t *testing.T) {
	ctl := newTestController(t, 10, newInventory())

	snap, err := ctl.LoadPage(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Phase != Loaded || len(snap.Records) != 0 || snap.Page != 1 || snap.TotalPages != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSortToggle(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
	)
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Clicking the active field flips the direction.
	snap, err := ctl.SetSort(ctx, "name")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if snap.SortField != "name" || snap.SortDir != apiclient.Descending {
		t.Fatalf("snapshot = %+v", snap)
	}
	if got := names(snap.Records); got[0] != "Bandage" {
		t.Fatalf("records = %v, want descending by name", got)
	}

	// Clicking another field activates it ascending.
	snap, err = ctl.SetSort(ctx, "expirationDate")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if snap.SortField != "expirationDate" || snap.SortDir != apiclient.Ascending {
		t.Fatalf("snapshot = %+v", snap)
	}
	if got := names(snap.Records); got[0] != "Bandage" {
		t.Fatalf("records = %v, want ascending by expiration", got)
	}
}

func TestSortPreservesPage(t *testing.T) {
	var records []model.Medicine
	for i := 1; i <= 25; i++ {
		records = append(records, med(int64(i), fmt.Sprintf("Med %02d", i), fmt.Sprintf("SN-%02d", i), "01-01-2026"))
	}
	ctl := newTestController(t, 10, newInventory(records...))
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if snap, err := ctl.SetPage(ctx, 2); err != nil || snap.Page != 2 {
		t.Fatalf("page = %+v err = %v", snap, err)
	}
	snap, err := ctl.SetSort(ctx, "serialNumber")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if snap.Page != 2 {
		t.Fatalf("sorting moved the page to %d", snap.Page)
	}
}

func TestSetPageClamps(t *testing.T) {
	var records []model.Medicine
	for i := 1; i <= 25; i++ {
		records = append(records, med(int64(i), fmt.Sprintf("Med %02d", i), fmt.Sprintf("SN-%02d", i), "01-01-2026"))
	}
	ctl := newTestController(t, 10, newInventory(records...))
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	snap, err := ctl.SetPage(ctx, 99)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if snap.Page != 3 || len(snap.Records) != 5 {
		t.Fatalf("snapshot = page %d with %d records, want page 3 with 5", snap.Page, len(snap.Records))
	}
	if snap, _ := ctl.SetPage(ctx, -4); snap.Page != 1 {
		t.Fatalf("page = %d, want 1", snap.Page)
	}
}

// A slow response for old view parameters must never overwrite the result of
// a newer request. The stub holds the first re-sort open until a second one
// has fully landed, then releases it.
func TestLastRequestWins(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
		med(3, "Codeine", "SN-3", "01-02-2026"),
	)
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	arrived := make(chan struct{})
	release := make(chan struct{})
	inv.mu.Lock()
	inv.listGate = func(sortParam string) {
		if sortParam == "expirationDate,asc" {
			close(arrived)
			<-release
		}
	}
	inv.mu.Unlock()

	var staleSnap Snapshot
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		staleSnap, _ = ctl.SetSort(ctx, "expirationDate")
	}()

	<-arrived
	// While the expiration sort hangs, the user clicks the name header.
	snap, err := ctl.SetSort(ctx, "name")
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if snap.SortField != "name" || snap.SortDir != apiclient.Ascending {
		t.Fatalf("snapshot = %+v", snap)
	}

	close(release)
	wg.Wait()

	final := ctl.Snapshot()
	if final.SortField != "name" || final.SortDir != apiclient.Ascending {
		t.Fatalf("stale response won: %+v", final)
	}
	if got := names(final.Records); got[0] != "Aspirin" {
		t.Fatalf("records = %v, want name-ascending order", got)
	}
	// The stale caller got the newer view back, not its own dead one.
	if staleSnap.SortField != "name" {
		t.Fatalf("stale caller saw %q", staleSnap.SortField)
	}
}

func TestErrorRetainsRows(t *testing.T) {
	inv := newInventory(med(1, "Bandage", "SN-1", "01-01-2026"))
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	inv.mu.Lock()
	inv.failList = true
	inv.mu.Unlock()

	snap, err := ctl.LoadPage(ctx)
	if !errors.Is(err, apiclient.ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if snap.Phase != Errored || snap.LastError == "" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Records) != 1 || snap.Records[0].Name != "Bandage" {
		t.Fatalf("last-good rows were dropped: %+v", snap.Records)
	}

	inv.mu.Lock()
	inv.failList = false
	inv.mu.Unlock()
	if snap, err := ctl.LoadPage(ctx); err != nil || snap.Phase != Loaded || snap.LastError != "" {
		t.Fatalf("recovery: snap = %+v err = %v", snap, err)
	}
}

func TestSelection(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
		med(3, "Codeine", "SN-3", "01-02-2026"),
	)
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	snap := ctl.ToggleSelect(2)
	if fmt.Sprint(snap.Selected) != "[2]" {
		t.Fatalf("selected = %v", snap.Selected)
	}
	snap = ctl.ToggleSelect(2)
	if len(snap.Selected) != 0 {
		t.Fatalf("toggle did not deselect: %v", snap.Selected)
	}
	// Ids that are not on the page are ignored.
	if snap = ctl.ToggleSelect(99); len(snap.Selected) != 0 {
		t.Fatalf("off-page id selected: %v", snap.Selected)
	}

	snap = ctl.SelectAll()
	if fmt.Sprint(snap.Selected) != "[1 2 3]" {
		t.Fatalf("select all = %v", snap.Selected)
	}
	if snap = ctl.ClearSelection(); len(snap.Selected) != 0 {
		t.Fatalf("clear left %v", snap.Selected)
	}
}

func TestSelectionDroppedOnPageChange(t *testing.T) {
	var records []model.Medicine
	for i := 1; i <= 15; i++ {
		records = append(records, med(int64(i), fmt.Sprintf("Med %02d", i), fmt.Sprintf("SN-%02d", i), "01-01-2026"))
	}
	ctl := newTestController(t, 10, newInventory(records...))
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	ctl.SelectAll()
	snap, err := ctl.SetPage(ctx, 2)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(snap.Selected) != 0 {
		t.Fatalf("selection crossed pages: %v", snap.Selected)
	}
}

func TestCreateValidation(t *testing.T) {
	inv := newInventory()
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()

	cases := []Draft{
		{Name: "", SerialNumber: "SN-1", ExpirationDate: "25-12-2025"},
		{Name: "Aspirin", SerialNumber: "  ", ExpirationDate: "25-12-2025"},
		{Name: "Aspirin", SerialNumber: "SN-1", ExpirationDate: "2025-12-25"},
		{Name: "Aspirin", SerialNumber: "SN-1", ExpirationDate: ""},
	}
	for _, d := range cases {
		if err := ctl.Create(ctx, d); !errors.Is(err, ErrValidation) {
			t.Fatalf("Create(%+v) = %v, want ErrValidation", d, err)
		}
	}
	inv.mu.Lock()
	creates := inv.creates
	inv.mu.Unlock()
	if creates != 0 || inv.listCount() != 0 {
		t.Fatalf("validation failures reached the network")
	}
}

func TestCreateRefetches(t *testing.T) {
	inv := newInventory(med(1, "Bandage", "SN-1", "01-01-2026"))
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := ctl.Create(ctx, Draft{Name: " Aspirin ", SerialNumber: "SN-2", ExpirationDate: "25-12-2025"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	snap := ctl.Snapshot()
	if got := names(snap.Records); fmt.Sprint(got) != "[Aspirin Bandage]" {
		t.Fatalf("records = %v", got)
	}
	// The date survives the round trip in wire form and renders for display.
	if snap.Records[0].ExpirationDate.String() != "25-12-2025" {
		t.Fatalf("date = %q", snap.Records[0].ExpirationDate)
	}
	if snap.Records[0].DisplayDate != "25 Dec 2025" {
		t.Fatalf("display date = %q", snap.Records[0].DisplayDate)
	}
}

func TestUpdateRefetches(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
	)
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ctl.Update(ctx, 1, Draft{Name: "Zinc", SerialNumber: "SN-1", ExpirationDate: "01-01-2026"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap := ctl.Snapshot()
	if got := names(snap.Records); fmt.Sprint(got) != "[Aspirin Zinc]" {
		t.Fatalf("records = %v", got)
	}

	if err := ctl.Update(ctx, 99, Draft{Name: "Ghost", SerialNumber: "SN-99", ExpirationDate: "01-01-2026"}); !errors.Is(err, apiclient.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
		med(3, "Codeine", "SN-3", "01-02-2026"),
		med(4, "Dextrose", "SN-4", "01-04-2026"),
	)
	inv.failDelete[3] = true
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	ctl.ToggleSelect(1)
	ctl.ToggleSelect(2)
	ctl.ToggleSelect(3)

	res, err := ctl.DeleteSelected(ctx)
	if err == nil {
		t.Fatalf("partial failure must surface an error")
	}
	if fmt.Sprint(res.Deleted) != "[1 2]" || fmt.Sprint(res.Failed) != "[3]" {
		t.Fatalf("result = %+v", res)
	}

	snap := ctl.Snapshot()
	if got := names(snap.Records); fmt.Sprint(got) != "[Codeine Dextrose]" {
		t.Fatalf("records = %v", got)
	}
	// The failed id stays selected so the user can see and retry it.
	if fmt.Sprint(snap.Selected) != "[3]" {
		t.Fatalf("selected = %v", snap.Selected)
	}
}

// Deleting the whole last page must land on the new last page, not an empty
// out-of-range one.
func TestBulkDeleteClampsPage(t *testing.T) {
	var records []model.Medicine
	for i := 1; i <= 12; i++ {
		records = append(records, med(int64(i), fmt.Sprintf("Med %02d", i), fmt.Sprintf("SN-%02d", i), "01-01-2026"))
	}
	ctl := newTestController(t, 10, newInventory(records...))
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap, err := ctl.SetPage(ctx, 2); err != nil || len(snap.Records) != 2 {
		t.Fatalf("page 2: %+v err = %v", snap, err)
	}

	ctl.SelectAll()
	res, err := ctl.DeleteSelected(ctx)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if len(res.Deleted) != 2 || len(res.Failed) != 0 {
		t.Fatalf("result = %+v", res)
	}
	snap := ctl.Snapshot()
	if snap.Page != 1 || snap.TotalPages != 1 || len(snap.Records) != 10 {
		t.Fatalf("snapshot = page %d/%d with %d records", snap.Page, snap.TotalPages, len(snap.Records))
	}
	if len(snap.Selected) != 0 {
		t.Fatalf("selection survived deletion: %v", snap.Selected)
	}
}

func TestDeleteSingle(t *testing.T) {
	inv := newInventory(
		med(1, "Bandage", "SN-1", "01-01-2026"),
		med(2, "Aspirin", "SN-2", "01-03-2026"),
	)
	ctl := newTestController(t, 10, inv)
	ctx := context.Background()
	if _, err := ctl.LoadPage(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	ctl.ToggleSelect(1)

	if err := ctl.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snap := ctl.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].ID != 2 {
		t.Fatalf("records = %+v", snap.Records)
	}
	if len(snap.Selected) != 0 {
		t.Fatalf("deleted id still selected: %v", snap.Selected)
	}
}
