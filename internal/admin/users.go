// Package admin drives the user-management screen. Unlike the inventory
// table, the users list has no server-side paging; mutations patch the
// cached list in place from the backend's responses instead of refetching.
package admin

import (
	"context"
	"strconv"
	"sync"

	"github.com/pharmstock/medfront/internal/apiclient"
	"github.com/pharmstock/medfront/internal/audit"
	"github.com/pharmstock/medfront/internal/model"
)

// Controller holds the cached account list and mediates admin mutations.
// Every mutation emits a best-effort audit event attributed to the acting
// admin.
type Controller struct {
	client *apiclient.Client
	audit  *audit.Publisher

	mu    sync.Mutex
	users []model.User
}

// NewController builds an empty controller; call Load before rendering.
func NewController(client *apiclient.Client, auditor *audit.Publisher) *Controller {
	return &Controller{client: client, audit: auditor}
}

// Load refreshes the cached account list from the backend.
func (c *Controller) Load(ctx context.Context) ([]model.User, error) {
	users, err := c.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.users = users
	c.mu.Unlock()
	return c.Users(), nil
}

// Users returns a copy of the cached list.
func (c *Controller) Users() []model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.User, len(c.users))
	copy(out, c.users)
	return out
}

// Delete removes an account and drops it from the cache.
func (c *Controller) Delete(ctx context.Context, actor string, id int64) error {
	if err := c.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	kept := c.users[:0]
	for _, u := range c.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	c.users = kept
	c.mu.Unlock()

	_ = c.audit.Publish(ctx, audit.NewEvent(audit.ActionUserDeleted, actor, strconv.FormatInt(id, 10), ""))
	return nil
}

// SetStatus enables or disables an account and applies the updated row the
// backend returns.
func (c *Controller) SetStatus(ctx context.Context, actor, username string, enable bool) (model.User, error) {
	updated, err := c.client.SetUserStatus(ctx, username, enable)
	if err != nil {
		return model.User{}, err
	}
	c.mu.Lock()
	for i, u := range c.users {
		if u.ID == updated.ID {
			c.users[i] = updated
		}
	}
	c.mu.Unlock()

	detail := "DISABLE"
	if enable {
		detail = "ENABLE"
	}
	_ = c.audit.Publish(ctx, audit.NewEvent(audit.ActionUserStatus, actor, username, detail))
	return updated, nil
}

// SetRole changes an account's role and patches the cache.
func (c *Controller) SetRole(ctx context.Context, actor, username string, role model.Role) error {
	if err := c.client.SetUserRole(ctx, username, role); err != nil {
		return err
	}
	c.mu.Lock()
	for i, u := range c.users {
		if u.Username == username {
			c.users[i].Role = role
		}
	}
	c.mu.Unlock()

	_ = c.audit.Publish(ctx, audit.NewEvent(audit.ActionUserRole, actor, username, string(role)))
	return nil
}

// Notify triggers the expiring-stock notification mail.
func (c *Controller) Notify(ctx context.Context, actor string) error {
	if err := c.client.SendExpiryNotification(ctx); err != nil {
		return err
	}
	_ = c.audit.Publish(ctx, audit.NewEvent(audit.ActionNotification, actor, "", ""))
	return nil
}
