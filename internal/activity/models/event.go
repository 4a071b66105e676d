package models

import (
	"time"

	id "studytrail/pkg/domain"
)

// Entry is a request to record one audit event.
type Entry struct {
	UserID     id.UserID
	ResourceID *string
	Details    Details
}

// Event is an appended audit trail row. Events are immutable once stored.
type Event struct {
	ID           id.EventID     `json:"id"`
	UserID       id.UserID      `json:"user_id"`
	Action       Action         `json:"action"`
	ResourceType ResourceType   `json:"resource_type"`
	ResourceID   *string        `json:"resource_id"`
	Details      map[string]any `json:"details"`
	Origin       string         `json:"origin"`
	IPAddress    *string        `json:"ip_address"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ListFilter narrows a history query. Zero Limit means DefaultListLimit.
type ListFilter struct {
	Actions []Action
	Limit   int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// EffectiveLimit clamps Limit into (0, MaxListLimit].
func (f ListFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Matches reports whether e passes the action filter.
func (f ListFilter) Matches(e *Event) bool {
	if len(f.Actions) == 0 {
		return true
	}
	for _, a := range f.Actions {
		if e.Action == a {
			return true
		}
	}
	return false
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
