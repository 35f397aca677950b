package helpers

import "strings"

// NullIfEmpty returns nil for a blank string so the column is stored as NULL.
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
