// Package token persists the bearer credential between console runs. It
// plays the role the browser's localStorage played in earlier front ends:
// one string value under a fixed key, absent means logged out.
package token

import (
	"context"
	"errors"
)

// ErrNoCredential is returned by Load when nothing has been persisted yet or
// the credential was cleared. Callers treat it as "logged out", not a fault.
var ErrNoCredential = errors.New("no stored credential")

// Store persists a single credential string in header form
// ("Bearer eyJ..."). Only the session manager writes to it.
type Store interface {
	// Load returns the persisted credential, or ErrNoCredential.
	Load(ctx context.Context) (string, error)
	// Save overwrites the persisted credential.
	Save(ctx context.Context, value string) error
	// Clear removes the credential. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
