package model

import "strings"

// Credential is the bearer value proving an authenticated session to the
// backend. Header() is what goes into the Authorization header on every
// outgoing request. The persisted form is the header form, so a stored
// credential survives restarts byte-for-byte.
type Credential struct {
	Scheme string // normally "Bearer"
	Token  string // opaque value issued by the backend
}

// NewCredential builds a credential from the login response's type and token
// fields. An empty scheme defaults to Bearer, matching what the backend
// actually issues.
func NewCredential(scheme, token string) Credential {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" {
		scheme = "Bearer"
	}
	return Credential{Scheme: scheme, Token: strings.TrimSpace(token)}
}

// ParseCredential reads a persisted header value back into a Credential.
// Earlier iterations of the client stored the raw token without a scheme;
// those are accepted and normalized to Bearer.
func ParseCredential(stored string) (Credential, bool) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return Credential{}, false
	}
	parts := strings.SplitN(stored, " ", 2)
	if len(parts) == 2 {
		return Credential{Scheme: parts[0], Token: strings.TrimSpace(parts[1])}, true
	}
	return Credential{Scheme: "Bearer", Token: stored}, true
}

// IsZero reports whether no token is held.
func (c Credential) IsZero() bool { return c.Token == "" }

// Header returns the Authorization header value, or "" when empty.
func (c Credential) Header() string {
	if c.IsZero() {
		return ""
	}
	return c.Scheme + " " + c.Token
}
