package model // package model defines the wire and domain types shared across the console

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// wireLayout is the fixed day-month-year format the backend uses for
// expiration dates, e.g. "25-12-2025". Create and update requests must send
// exactly this shape, and list responses deliver it back unchanged, so the
// type below round-trips through it without loss.
const wireLayout = "02-01-2006"

// displayLayout is the human-facing form rendered in the table ("25 Dec 2025").
const displayLayout = "02 Jan 2006"

// WireDate is a calendar date (no time-of-day component) carried over the
// wire in the backend's fixed dd-MM-yyyy format. The zero value marshals to
// an empty string and is treated as "not set".
type WireDate struct {
	t time.Time
}

// ParseWireDate parses a dd-MM-yyyy string into a WireDate. It rejects
// anything that does not match the layout exactly, including empty input.
func ParseWireDate(s string) (WireDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WireDate{}, fmt.Errorf("expiration date is empty")
	}
	t, err := time.Parse(wireLayout, s)
	if err != nil {
		return WireDate{}, fmt.Errorf("expiration date %q: want dd-MM-yyyy", s)
	}
	return WireDate{t: t}, nil
}

// IsZero reports whether the date has never been set.
func (d WireDate) IsZero() bool { return d.t.IsZero() }

// String returns the wire form (dd-MM-yyyy), or "" for the zero value.
func (d WireDate) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(wireLayout)
}

// Display returns the table rendering ("02 Jan 2006"), or "" for the zero value.
func (d WireDate) Display() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(displayLayout)
}

// Time exposes the underlying time at midnight UTC.
func (d WireDate) Time() time.Time { return d.t }

// MarshalJSON writes the wire form as a JSON string.
func (d WireDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the wire form. An empty string decodes to the zero
// value rather than an error so that optional fields stay optional.
func (d *WireDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = WireDate{}
		return nil
	}
	parsed, err := ParseWireDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
