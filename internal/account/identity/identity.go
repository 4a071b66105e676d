// Package identity issues accounts. Providers own email uniqueness and
// password hashing; callers only see the resulting Account.
package identity

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"studytrail/internal/account/models"
	id "studytrail/pkg/domain"
	dErrors "studytrail/pkg/domain-errors"
	"studytrail/pkg/email"
)

// CreateAccountRequest mirrors the provider's admin create call.
type CreateAccountRequest struct {
	Email         string
	Password      string
	EmailVerified bool
	Metadata      map[string]string
}

// prepare validates req and builds the account and password hash a provider persists.
func prepare(req CreateAccountRequest, cost int, now time.Time) (*models.Account, string, error) {
	normalized, err := email.Normalize(req.Email)
	if err != nil {
		return nil, "", err
	}
	if req.Password == "" {
		return nil, "", dErrors.New(dErrors.CodeValidation, "password is required")
	}
	hash, err := HashPassword(req.Password, cost)
	if err != nil {
		return nil, "", err
	}

	metadata := make(map[string]string, len(req.Metadata))
	maps.Copy(metadata, req.Metadata)

	return &models.Account{
		ID:            id.UserID(uuid.New()),
		Email:         normalized,
		FirstName:     metadata[models.MetadataFirstName],
		LastName:      metadata[models.MetadataLastName],
		Metadata:      metadata,
		EmailVerified: req.EmailVerified,
		CreatedAt:     now.UTC(),
	}, hash, nil
}

func emailTaken() error {
	return dErrors.New(dErrors.CodeConflict, "email already registered")
}
