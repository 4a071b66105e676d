// Package domain holds typed identifiers shared across modules.
//
// Identifiers wrap uuid.UUID so a user id can never be passed where an event id
// is expected. Parse functions are the trust boundary for ids arriving from
// HTTP requests or tokens.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "studytrail/pkg/domain-errors"
)

// UserID identifies an account issued by the identity provider.
type UserID uuid.UUID

// EventID identifies a single row in the activity trail.
type EventID uuid.UUID

// NewUserID returns a random user id.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewEventID returns a random event id.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id UserID) String() string  { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id EventID) String() string { return uuid.UUID(id).String() }
func (id EventID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed ids render as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id EventID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *EventID) UnmarshalText(b []byte) error {
	parsed, err := ParseEventID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseUserID validates and converts a string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseEventID validates and converts a string into an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event ID")
	if err != nil {
		return EventID{}, err
	}
	return EventID(u), nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" required")
	}
	if !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return u, nil
}
