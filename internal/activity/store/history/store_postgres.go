package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"studytrail/internal/activity/models"
	"studytrail/internal/platform/postgres"
	id "studytrail/pkg/domain"
	"studytrail/pkg/platform/sentinel"
)

// PostgresStore persists the audit trail in the user_history table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event *models.Event) error {
	if event == nil {
		return errNilEvent
	}
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}
	query := `
		INSERT INTO user_history (id, user_id, action, resource_type, resource_id, details, user_agent, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		event.ID.String(),
		nullableUserID(event.UserID),
		string(event.Action),
		string(event.ResourceType),
		event.ResourceID,
		details,
		event.Origin,
		event.IPAddress,
		event.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("append event %s: %w", event.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, filter models.ListFilter) ([]*models.Event, error) {
	actions := make([]string, 0, len(filter.Actions))
	for _, a := range filter.Actions {
		actions = append(actions, string(a))
	}
	query := `
		SELECT id, user_id, action, resource_type, resource_id, details, user_agent, ip_address, created_at
		FROM user_history
		WHERE user_id = $1
		  AND (cardinality($2::text[]) = 0 OR action = ANY($2::text[]))
		ORDER BY created_at DESC, id
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String(), pq.Array(actions), filter.EffectiveLimit())
	if err != nil {
		return nil, fmt.Errorf("list user history: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user history: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (*models.Event, error) {
	var (
		eventID    string
		userID     sql.NullString
		action     string
		resource   string
		resourceID sql.NullString
		details    []byte
		origin     string
		ipAddress  sql.NullString
		event      models.Event
	)
	if err := rows.Scan(&eventID, &userID, &action, &resource, &resourceID, &details, &origin, &ipAddress, &event.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan user history: %w", err)
	}
	parsedID, err := id.ParseEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	event.ID = parsedID
	if userID.Valid {
		if event.UserID, err = id.ParseUserID(userID.String); err != nil {
			return nil, fmt.Errorf("parse user id: %w", err)
		}
	}
	event.Action = models.Action(action)
	event.ResourceType = models.ResourceType(resource)
	if resourceID.Valid {
		event.ResourceID = &resourceID.String
	}
	if ipAddress.Valid {
		event.IPAddress = &ipAddress.String
	}
	event.Origin = origin
	if err := json.Unmarshal(details, &event.Details); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	return &event, nil
}

// nullableUserID stores system-originated events with a NULL user.
func nullableUserID(userID id.UserID) any {
	if userID.IsNil() {
		return nil
	}
	return userID.String()
}
