package model

// Medicine represents one inventory line as the backend serves it. The ID is
// server-assigned and immutable; Color is a freshness band derived by the
// backend from the expiration date, so the console never computes it locally.
type Medicine struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	SerialNumber   string   `json:"serialNumber"`
	ExpirationDate WireDate `json:"expirationDate"`
	Color          string   `json:"color,omitempty"`
}

// MedicineDraft carries the user-editable fields of a record for create and
// update calls. The ID never travels in the body; updates address it in the URL.
type MedicineDraft struct {
	Name           string   `json:"name"`
	SerialNumber   string   `json:"serialNumber"`
	ExpirationDate WireDate `json:"expirationDate"`
}

// pagedMeta mirrors the "page" block of the backend's paged responses.
type pagedMeta struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// PagedMedicines is the envelope returned by GET /medicines. The _embedded
// block is absent entirely when the collection is empty, so both it and the
// list inside are optional on decode.
type PagedMedicines struct {
	Embedded *struct {
		Medicines []Medicine `json:"medicineViewList"`
	} `json:"_embedded"`
	Page pagedMeta `json:"page"`
}

// Records returns the embedded list, never nil.
func (p PagedMedicines) Records() []Medicine {
	if p.Embedded == nil || p.Embedded.Medicines == nil {
		return []Medicine{}
	}
	return p.Embedded.Medicines
}

// TotalPages normalizes the page count: an empty collection reports one page,
// not zero, so the pager always has something to stand on.
func (p PagedMedicines) TotalPages() int {
	if p.Page.TotalPages < 1 {
		return 1
	}
	return p.Page.TotalPages
}
