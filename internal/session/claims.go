package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pharmstock/medfront/internal/model"
)

// The tokens the backend issues are JWTs, but the console never verifies
// signatures: it has no key, and the backend re-checks every request anyway.
// Claims are decoded locally for two purposes only: pre-expiry checks during
// Initialize and identity derivation on the OAuth callback.

// tokenExpired reports whether the token carries an exp claim in the past.
// Tokens that are not JWTs or carry no exp claim report false; the profile
// round trip settles those.
func tokenExpired(raw string) (bool, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, nil
	}
	return exp.Before(time.Now()), nil
}

// identityFromToken derives an Identity from the token's sub and role claims.
// The role claim has appeared both as a single authority string and as a
// list; any shape containing an admin authority maps to ADMIN.
func identityFromToken(raw string) (model.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return model.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	sub, _ := claims.GetSubject()

	var roles []string
	switch v := claims["role"].(type) {
	case string:
		roles = append(roles, v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				roles = append(roles, s)
			}
		}
	}

	return model.Identity{
		Username: sub,
		Role:     model.RoleFromClaim(strings.Join(roles, ",")),
		Enabled:  true,
	}, nil
}
