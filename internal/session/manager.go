// Package session is the single source of truth for who is logged in and
// with what privileges. It is the only component allowed to touch the
// credential: every successful establish/revoke keeps the persisted token,
// the client's Authorization credential and the in-memory state consistent
// by funneling all three writes through one serialized routine.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/model"
	"github.com/pharmstock/medfront/internal/token"
)

// State is a snapshot of the session for rendering and gating. Pending is
// true until Initialize has resolved; until then role-gated actions must not
// fire, because the session could still turn out to be authenticated.
type State struct {
	Pending       bool            `json:"pending"`
	Authenticated bool            `json:"authenticated"`
	User          *model.Identity `json:"user,omitempty"`
}

// Manager owns authentication state. All operations are safe for concurrent
// use. Transitions (login, logout, initialize, the OAuth callback) serialize
// on opMu and call the backend without holding mu, so Current and the gates
// always answer immediately with the state as of the last completed
// transition.
type Manager struct {
	client    *apiclient.Client
	store     token.Store
	autoLogin bool

	opMu sync.Mutex // serializes transitions, held across backend calls
	mu   sync.Mutex // guards the snapshot fields below, never held across I/O

	pending       bool
	authenticated bool
	user          *model.Identity
}

// NewManager wires the manager to its collaborators. autoLogin controls the
// register-then-auto-login chaining; it is a policy flag, not a hidden side
// effect.
func NewManager(client *apiclient.Client, store token.Store, autoLogin bool) *Manager {
	return &Manager{client: client, store: store, autoLogin: autoLogin, pending: true}
}

// Current returns a snapshot. The Identity is copied so callers can hold it
// across a later mutation.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := State{Pending: m.pending, Authenticated: m.authenticated}
	if m.user != nil {
		u := *m.user
		st.User = &u
	}
	return st
}

// IsAdmin reports whether the session is authenticated with the ADMIN role.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated && m.user != nil && m.user.IsAdmin()
}

// Initialize restores the session from the persisted credential. Absent
// credential: stay unauthenticated without touching the network. Present:
// attach it and ask the backend who we are; on any failure the credential is
// purged and the session stays unauthenticated. Either way the pending flag
// resolves, so gated UI can trust the state afterwards.
func (m *Manager) Initialize(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	defer m.resolvePending()

	stored, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, token.ErrNoCredential) {
			log.Printf("session: credential store unreadable: %v", err)
		}
		return
	}
	cred, ok := model.ParseCredential(stored)
	if !ok {
		_ = m.store.Clear(ctx)
		return
	}

	// A token that is provably expired is purged without a round trip.
	if expired, err := tokenExpired(cred.Token); err == nil && expired {
		log.Printf("session: stored token expired, purging")
		m.purge(ctx)
		return
	}

	m.client.SetCredential(cred)
	id, err := m.client.Profile(ctx)
	if err != nil {
		log.Printf("session: stored credential rejected: %v", err)
		m.purge(ctx)
		return
	}
	m.establish(id)
}

// Login exchanges credentials for a token, persists it, attaches it and
// loads the identity. On any failure the session is left exactly as it was;
// a bad password never logs an existing session out.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrFieldsRequired
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.login(ctx, username, password)
}

// login runs the full login transition. Callers hold opMu.
func (m *Manager) login(ctx context.Context, username, password string) error {
	res, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	cred := model.NewCredential(res.Type, res.Token)

	prev := m.client.Credential()
	m.client.SetCredential(cred)
	id, err := m.client.Profile(ctx)
	if err != nil {
		m.client.SetCredential(prev)
		return err
	}
	if err := m.store.Save(ctx, cred.Header()); err != nil {
		m.client.SetCredential(prev)
		return err
	}
	m.establish(id)
	return nil
}

// Register creates an account and, when the auto-login policy is on, chains
// straight into Login with the same credentials so the user is not asked to
// type them twice.
func (m *Manager) Register(ctx context.Context, username, password, confirm string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirm == "" {
		return ErrFieldsRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()
	if err := m.client.Register(ctx, username, password); err != nil {
		return err
	}
	if !m.autoLogin {
		return nil
	}
	return m.login(ctx, username, password)
}

// Logout revokes the session. The backend call is best-effort: a network
// failure is logged but never blocks the local reset. Logging out while
// already unauthenticated is a no-op, without a network call.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	if !m.Current().Authenticated && m.client.Credential().IsZero() {
		return
	}
	if err := m.client.Logout(ctx); err != nil {
		log.Printf("session: backend logout failed, resetting locally: %v", err)
	}
	m.purge(ctx)
}

// CompleteOAuthRedirect finishes the OAuth callback: it persists and attaches
// the query-delivered token exactly as Login would, but derives the identity
// from the token's own claims instead of a profile round trip.
func (m *Manager) CompleteOAuthRedirect(ctx context.Context, queryToken string) error {
	queryToken = strings.TrimSpace(queryToken)
	if queryToken == "" {
		return ErrMissingOAuthToken
	}
	cred := model.NewCredential("Bearer", queryToken)

	id, err := identityFromToken(queryToken)
	if err != nil {
		// The backend issued this token moments ago; an undecodable payload
		// is logged but does not block the session.
		log.Printf("session: oauth token claims undecodable: %v", err)
		id = model.Identity{Role: model.RoleUser, Enabled: true}
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()
	if err := m.store.Save(ctx, cred.Header()); err != nil {
		return err
	}
	m.client.SetCredential(cred)
	m.establish(id)
	return nil
}

// Invalidate is the session-expiry path: any component that sees an
// authenticated call come back 401 routes it here. The credential is purged
// and the session reset, same as an explicit logout minus the backend call.
func (m *Manager) Invalidate(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.purge(ctx)
}

// InvalidateOn invalidates the session iff err is the session-expired
// sentinel. Returns true when it fired, so callers can re-render the gate.
func (m *Manager) InvalidateOn(ctx context.Context, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		return false
	}
	m.Invalidate(ctx)
	return true
}

// establish and purge are the only two places session state changes, keeping
// store, client and memory in step. Callers hold opMu.

func (m *Manager) establish(id model.Identity) {
	m.mu.Lock()
	m.authenticated = true
	m.user = &id
	m.mu.Unlock()
}

func (m *Manager) purge(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		log.Printf("session: credential store clear failed: %v", err)
	}
	m.client.SetCredential(model.Credential{})
	m.mu.Lock()
	m.authenticated = false
	m.user = nil
	m.mu.Unlock()
}

func (m *Manager) resolvePending() {
	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()
}
