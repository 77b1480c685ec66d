package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pharmstock/medfront/internal/model"
)

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the token half of a successful login. Identity is fetched
// separately from the profile endpoint.
type LoginResult struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

type changePasswordReq struct {
	Username           string `json:"username"`
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// Login exchanges credentials for a bearer token. A 401 maps to
// ErrInvalidCredentials; the session state of the caller must stay untouched
// on failure.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentialsReq{Username: username, Password: password}, &res, false)
	if err != nil {
		return LoginResult{}, classify(err)
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("%w: login response carried no token", ErrTransient)
	}
	return res, nil
}

// Register creates an account. A 400 is the backend's "username taken"
// answer and keeps the server-supplied message.
func (c *Client) Register(ctx context.Context, username, password string) error {
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentialsReq{Username: username, Password: password}, nil, false)
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusBadRequest {
		if se.msg != "" {
			return fmt.Errorf("%w: %s", ErrUserExists, se.msg)
		}
		return ErrUserExists
	}
	return classify(err)
}

// Logout tells the backend to drop the session. Callers treat failure as
// best-effort: the local credential is purged regardless.
func (c *Client) Logout(ctx context.Context) error {
	return classify(c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, true))
}

// Profile returns the identity behind the attached credential. A 401 here is
// how an expired or revoked token announces itself.
func (c *Client) Profile(ctx context.Context) (model.Identity, error) {
	var id model.Identity
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, nil, &id, true); err != nil {
		return model.Identity{}, classify(err)
	}
	return id, nil
}

// ChangePassword updates the current user's password. Old and new values are
// validated by the backend; the console only checks the confirmation match.
func (c *Client) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	return classify(c.do(ctx, http.MethodPut, "/users/changePassword", nil, changePasswordReq{
		Username:           username,
		OldPassword:        oldPassword,
		NewPassword:        newPassword,
		ConfirmNewPassword: confirm,
	}, nil, true))
}
