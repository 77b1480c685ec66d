// Package apiclient is the typed HTTP client for the medicine-inventory
// backend. It owns the error taxonomy the rest of the console reasons about:
// handlers and controllers match on the sentinel values below instead of
// inspecting status codes themselves.
package apiclient

import "errors"

// ErrInvalidCredentials is returned when the backend rejects a login attempt
// with 401. It is deliberately distinct from ErrSessionExpired so that a bad
// password does not tear down an existing session.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrSessionExpired is returned when an authenticated call comes back 401,
// meaning the stored token was revoked or timed out. Whoever sees it must
// invalidate the session.
var ErrSessionExpired = errors.New("session expired")

// ErrUserExists is returned when registration fails with 400. The wrapped
// message carries the server's own explanation where one was provided.
var ErrUserExists = errors.New("user already exists")

// ErrNotFound is returned for 404 responses, e.g. deleting a record that a
// concurrent admin already removed.
var ErrNotFound = errors.New("not found")

// ErrTransient covers transport failures, 5xx responses and any status the
// taxonomy does not classify. Callers surface it as a retryable notice.
var ErrTransient = errors.New("temporary backend failure")
