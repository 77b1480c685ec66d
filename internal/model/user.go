package model

import "strings"

// Role is the privilege level the backend assigns to an account. Only ADMIN
// unlocks the mutating affordances of the console; the backend still enforces
// authorization on every call, the role here only gates the UI.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// RoleFromClaim maps a raw role claim to a Role. OAuth tokens carry Spring
// style authority strings ("ROLE_ADMIN"), profile responses carry the bare
// name; both collapse to the same two-value enum, defaulting to USER.
func RoleFromClaim(raw string) Role {
	if strings.Contains(strings.ToUpper(raw), "ADMIN") {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the authenticated user's profile as reported by the backend
// (GET /users/profile) or decoded from an OAuth token.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// User is one account row on the admin user-management screen.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Enabled  bool   `json:"enabled"`
}

// PagedUsers is the envelope of GET /admin/users. Like the medicines list,
// _embedded disappears when there are no rows.
type PagedUsers struct {
	Embedded *struct {
		Users []User `json:"userResponseList"`
	} `json:"_embedded"`
}

// Users returns the embedded list, never nil.
func (p PagedUsers) Users() []User {
	if p.Embedded == nil || p.Embedded.Users == nil {
		return []User{}
	}
	return p.Embedded.Users
}
