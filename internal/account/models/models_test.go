package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "studytrail/pkg/domain"
)

func TestDefaultPreferences(t *testing.T) {
	userID := id.NewUserID()
	now := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	prefs := DefaultPreferences(userID, now)

	assert.Equal(t, &Preferences{
		UserID:             userID,
		Theme:              "system",
		EmailNotifications: true,
		PushNotifications:  true,
		WeeklySummary:      true,
		GoalReminders:      true,
		Language:           "en",
		DateFormat:         "mdy",
		CreatedAt:          now,
	}, prefs)
}
