package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studytrail/internal/account/models"
	"studytrail/internal/platform/postgres"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/sentinel"
)

// PostgresStore persists preferences in the preferences table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, prefs *models.Preferences) error {
	query := `
		INSERT INTO preferences (user_id, theme, email_notifications, push_notifications,
			weekly_summary, goal_reminders, language, date_format, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		prefs.UserID.String(),
		prefs.Theme,
		prefs.EmailNotifications,
		prefs.PushNotifications,
		prefs.WeeklySummary,
		prefs.GoalReminders,
		prefs.Language,
		prefs.DateFormat,
		prefs.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("preferences for user %s: %w", prefs.UserID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert preferences: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Preferences, error) {
	query := `
		SELECT theme, email_notifications, push_notifications, weekly_summary,
			goal_reminders, language, date_format, created_at
		FROM preferences WHERE user_id = $1
	`
	p := models.Preferences{UserID: userID}
	err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(
		&p.Theme, &p.EmailNotifications, &p.PushNotifications, &p.WeeklySummary,
		&p.GoalReminders, &p.Language, &p.DateFormat, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences for user %s: %w", userID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return &p, nil
}
