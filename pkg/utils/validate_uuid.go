package utils

import "github.com/gofrs/uuid"

// ValidateUUID reports whether s is a canonical, hyphenated or braced UUID.
func ValidateUUID(s string) bool {
	_, err := uuid.FromString(s)
	return err == nil
}
