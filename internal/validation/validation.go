package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
	ErrInvalidCode = fmt.Errorf("invalid instrument code")
)

// maxCodeLength is the canonical width instrument codes are padded to.
const maxCodeLength = 6

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateCode checks that an instrument code is one to six digits.
// Shorter codes are valid and get zero-padded on storage.
func ValidateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > maxCodeLength {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return nil
}
