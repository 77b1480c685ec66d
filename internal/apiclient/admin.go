package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pharmstock/medfront/internal/model"
)

// Admin endpoints. The console only exposes these behind the session gate,
// but the backend is the real authority; a demoted admin gets ErrSessionExpired
// or a transient 403 here and the UI falls back accordingly.

type setRoleReq struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// ListUsers returns every account for the user-management screen.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var paged model.PagedUsers
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &paged, true); err != nil {
		return nil, classify(err)
	}
	return paged.Users(), nil
}

// DeleteUser removes an account by id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return classify(c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil, nil, true))
}

// SetUserStatus enables or disables an account and returns the updated row,
// which the admin screen applies in place.
func (c *Client) SetUserStatus(ctx context.Context, username string, enable bool) (model.User, error) {
	action := "DISABLE"
	if enable {
		action = "ENABLE"
	}
	var u model.User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%s/%s", url.PathEscape(username), action), nil, nil, &u, true)
	if err != nil {
		return model.User{}, classify(err)
	}
	return u, nil
}

// SetUserRole changes an account's role.
func (c *Client) SetUserRole(ctx context.Context, username string, role model.Role) error {
	return classify(c.do(ctx, http.MethodPut, "/admin/users/role", nil, setRoleReq{Username: username, Role: role}, nil, true))
}

// SendExpiryNotification asks the backend to mail the expiring-stock digest.
func (c *Client) SendExpiryNotification(ctx context.Context) error {
	return classify(c.do(ctx, http.MethodPost, "/admin/users/notification", nil, nil, nil, true))
}
