package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pharmstock/medfront/internal/model"
)

// Client talks to the medicine-inventory backend. The credential it attaches
// is an explicit field guarded by a mutex, not a process-wide default header:
// only the session manager swaps it, and every request reads the value that
// was current when the request was built.
type Client struct {
	base string
	http *http.Client

	mu   sync.RWMutex
	cred model.Credential
}

// New builds a Client for the given base URL (e.g. "http://localhost:8080/api/v1").
// A non-positive timeout falls back to ten seconds.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.base }

// SetCredential installs the bearer credential attached to subsequent
// requests. A zero credential detaches authorization entirely.
func (c *Client) SetCredential(cred model.Credential) {
	c.mu.Lock()
	c.cred = cred
	c.mu.Unlock()
}

// Credential returns the currently attached credential.
func (c *Client) Credential() model.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred
}

// statusError keeps the raw status and server message of an unclassified
// non-2xx response so that individual endpoints can refine the mapping
// (register turns a 400 into ErrUserExists, everyone else treats it as
// transient).
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("status %d: %s", e.code, e.msg)
	}
	return fmt.Sprintf("status %d", e.code)
}

// errorBody is the shape the backend uses for error payloads. Both keys have
// been observed across backend iterations.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one request and decodes a 2xx response body into out (when out is
// non-nil). 401 is mapped immediately because its meaning depends only on
// whether the call rode an established session; everything else non-2xx comes
// back as *statusError for the caller to classify.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body any, out any, authed bool) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	if cred := c.Credential(); !cred.IsZero() {
		req.Header.Set("Authorization", cred.Header())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if authed {
			return ErrSessionExpired
		}
		return ErrInvalidCredentials
	}

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	return &statusError{code: resp.StatusCode, msg: msg}
}

// classify is the default refinement for endpoints with no special cases:
// 404 stays distinct, every other unclassified status is transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) {
		if se.code == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %s", ErrTransient, se.Error())
	}
	return err
}
