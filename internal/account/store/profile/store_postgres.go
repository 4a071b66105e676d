package profile

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

// PostgresStore persists profiles in the profiles table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		profile.UserID.String(),
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("profile for user %s: %w", profile.UserID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	query := `SELECT first_name, last_name, email, created_at FROM profiles WHERE user_id = $1`
	p := models.Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(&p.FirstName, &p.LastName, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile for user %s: %w", userID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}
