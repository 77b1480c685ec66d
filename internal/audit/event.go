// Package audit publishes a trail of admin mutations to a message queue.
// Publishing is strictly best-effort: the console's job is the mutation
// itself, and a broker outage must never turn a successful delete into a
// user-visible failure. Errors are logged and returned so callers can choose
// to ignore them, which they all do.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names the admin operation an event records.
type Action string

const (
	ActionRecordCreated Action = "record.created"
	ActionRecordUpdated Action = "record.updated"
	ActionRecordDeleted Action = "record.deleted"
	ActionUserDeleted   Action = "user.deleted"
	ActionUserStatus    Action = "user.status_changed"
	ActionUserRole      Action = "user.role_changed"
	ActionNotification  Action = "notification.sent"
)

// Event is one audit entry. Target identifies what was acted on (a record
// id, a username); Detail carries the new value where one exists (the new
// role, ENABLE/DISABLE).
type Event struct {
	ID     string    `json:"id"`
	Action Action    `json:"action"`
	Actor  string    `json:"actor"`
	Target string    `json:"target,omitempty"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(action Action, actor, target, detail string) Event {
	return Event{
		ID:     uuid.NewString(),
		Action: action,
		Actor:  actor,
		Target: target,
		Detail: detail,
		At:     time.Now().UTC(),
	}
}
