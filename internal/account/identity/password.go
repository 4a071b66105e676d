package identity

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "studytrail/pkg/domain-errors"
)

// HashPassword creates a bcrypt hash of the password at cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}
