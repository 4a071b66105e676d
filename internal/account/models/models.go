package models

import (
	"time"

	id "studytrail/pkg/domain"
)

// Account is the identity record issued by the identity provider.
// This module creates it once and never mutates it.
type Account struct {
	ID            id.UserID         `json:"id"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	EmailVerified bool              `json:"email_verified"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Profile is 1:1 with Account and carries a denormalized email copy.
type Profile struct {
	UserID    id.UserID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Preferences is 1:1 with Account.
type Preferences struct {
	UserID             id.UserID `json:"user_id"`
	Theme              string    `json:"theme"`
	EmailNotifications bool      `json:"email_notifications"`
	PushNotifications  bool      `json:"push_notifications"`
	WeeklySummary      bool      `json:"weekly_summary"`
	GoalReminders      bool      `json:"goal_reminders"`
	Language           string    `json:"language"`
	DateFormat         string    `json:"date_format"`
	CreatedAt          time.Time `json:"created_at"`
}

const (
	ThemeSystem       = "system"
	LanguageEnglish   = "en"
	DateFormatMDY     = "mdy"
	MetadataFirstName = "first_name"
	MetadataLastName  = "last_name"
)

// DefaultPreferences returns the preferences every new account starts with.
func DefaultPreferences(userID id.UserID, now time.Time) *Preferences {
	return &Preferences{
		UserID:             userID,
		Theme:              ThemeSystem,
		EmailNotifications: true,
		PushNotifications:  true,
		WeeklySummary:      true,
		GoalReminders:      true,
		Language:           LanguageEnglish,
		DateFormat:         DateFormatMDY,
		CreatedAt:          now,
	}
}
