package helpers

import (
	"fmt"
	"strings"
	"time"
)

// local layouts accepted for date strings without an offset
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseDateTime parses either an RFC 3339 timestamp (with "Z" or an offset) or a
// local datetime such as the value of an HTML datetime-local input. Minute
// precision input ("2025-03-01T09:30") gets ":00" appended. Local values are
// interpreted in loc.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("无效的日期时间格式: %q", value)
	}
	if loc == nil {
		loc = time.UTC
	}

	if len(s) == len("2006-01-02T15:04") {
		s += ":00"
	}

	if strings.HasSuffix(s, "Z") || hasNumericOffset(s) {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("无效的日期时间格式: %q", value)
		}
		return t, nil
	}

	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("无效的日期时间格式: %q", value)
}

// hasNumericOffset reports whether s ends in a "+hh:mm" or "-hh:mm" zone.
// The date part's own hyphens sit before the 'T' and are ignored.
func hasNumericOffset(s string) bool {
	t := strings.IndexByte(s, 'T')
	if t < 0 {
		return false
	}
	rest := s[t:]
	return strings.ContainsAny(rest, "+-")
}
