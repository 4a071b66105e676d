// Package email canonicalizes account email addresses.
package email

import (
	"net/mail"
	"strings"

	dErrors "studytrail/pkg/domain-errors"
)

// Normalize trims and lowercases an address and checks its syntax.
// Display-name forms such as "Ann <a@x.com>" are rejected.
func Normalize(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email is required")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	return trimmed, nil
}
