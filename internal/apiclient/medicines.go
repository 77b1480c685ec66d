package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pharmstock/medfront/internal/model"
)

// SortDirection is the order of a medicines listing.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// MedicinePage is one page of inventory records plus the paging metadata the
// table needs.
type MedicinePage struct {
	Records    []model.Medicine
	TotalPages int
}

// ListMedicines fetches one page. Sort travels as "field,direction"
// ("name,asc"), the format the backend's pageable binding expects.
func (c *Client) ListMedicines(ctx context.Context, page, size int, sortField string, dir SortDirection) (MedicinePage, error) {
	var paged model.PagedMedicines
	err := c.do(ctx, http.MethodGet, "/medicines", map[string]string{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(size),
		"sort": fmt.Sprintf("%s,%s", sortField, dir),
	}, nil, &paged, true)
	if err != nil {
		return MedicinePage{}, classify(err)
	}
	return MedicinePage{
		Records:    paged.Records(),
		TotalPages: paged.TotalPages(),
	}, nil
}

// CreateMedicine adds a record. The response body is not relied on; the
// caller refetches the page so ordering and color banding come from the server.
func (c *Client) CreateMedicine(ctx context.Context, draft model.MedicineDraft) error {
	return classify(c.do(ctx, http.MethodPost, "/medicines", nil, draft, nil, true))
}

// UpdateMedicine replaces the editable fields of an existing record.
func (c *Client) UpdateMedicine(ctx context.Context, id int64, draft model.MedicineDraft) error {
	return classify(c.do(ctx, http.MethodPut, fmt.Sprintf("/medicines/%d", id), nil, draft, nil, true))
}

// DeleteMedicine removes one record. Bulk deletion lives in the table
// controller as independent calls so partial failure stays observable.
func (c *Client) DeleteMedicine(ctx context.Context, id int64) error {
	return classify(c.do(ctx, http.MethodDelete, fmt.Sprintf("/medicines/%d", id), nil, nil, nil, true))
}
