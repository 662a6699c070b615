package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLimit reads an optional positive limit. Empty input yields def; anything outside
// [1, max] is rejected rather than clamped.
func ParseLimit(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer")
	}
	if limit < 1 || limit > max {
		return 0, fmt.Errorf("limit must be between 1 and %d", max)
	}

	return limit, nil
}
