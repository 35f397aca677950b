package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"minute precision local", "2025-03-01T09:30", time.Date(2025, 3, 1, 9, 30, 0, 0, shanghai)},
		{"second precision local", "2025-03-01T09:30:15", time.Date(2025, 3, 1, 9, 30, 15, 0, shanghai)},
		{"space separated local", "2025-03-01 09:30:15", time.Date(2025, 3, 1, 9, 30, 15, 0, shanghai)},
		{"utc", "2025-03-01T01:30:00Z", time.Date(2025, 3, 1, 1, 30, 0, 0, time.UTC)},
		{"utc with millis", "2025-03-01T01:30:00.250Z", time.Date(2025, 3, 1, 1, 30, 0, 250_000_000, time.UTC)},
		{"positive offset", "2025-03-01T09:30:00+08:00", time.Date(2025, 3, 1, 1, 30, 0, 0, time.UTC)},
		{"negative offset", "2025-03-01T09:30:00-05:00", time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"surrounding spaces", "  2025-03-01T09:30  ", time.Date(2025, 3, 1, 9, 30, 0, 0, shanghai)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input, shanghai)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "2025-13-01T09:30", "2025-03-01", "2025-03-01T25:00", "2025-03-01T09:30:00+8"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDateTime(input, time.UTC)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "无效的日期时间格式")
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, uint64(20), limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(DefaultPageSize), limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty("   "))
	require.NotNil(t, NullIfEmpty(" x "))
	assert.Equal(t, "x", *NullIfEmpty(" x "))
}
