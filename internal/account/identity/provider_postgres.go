package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"studytrail/internal/account/models"
	"studytrail/internal/platform/postgres"
)

// PostgresProvider issues accounts into the accounts table. Email
// uniqueness is enforced by the table's unique constraint.
type PostgresProvider struct {
	db    *sql.DB
	cost  int
	clock func() time.Time
}

type PostgresOption func(*PostgresProvider)

func WithPostgresCost(cost int) PostgresOption {
	return func(p *PostgresProvider) {
		p.cost = cost
	}
}

func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresProvider {
	p := &PostgresProvider{db: db, cost: bcrypt.DefaultCost, clock: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PostgresProvider) CreateAccount(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	account, hash, err := prepare(req, p.cost, p.clock())
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(account.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal account metadata: %w", err)
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, metadata, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = p.db.ExecContext(ctx, query,
		account.ID.String(),
		account.Email,
		hash,
		account.FirstName,
		account.LastName,
		metadata,
		account.EmailVerified,
		account.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}
