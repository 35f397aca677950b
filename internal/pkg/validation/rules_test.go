package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Slug   string `json:"slug" validate:"required,slug" label:"URL标识"`
	Suffix string `json:"phoneLastFour" validate:"required,digits4" label:"手机号后四位"`
	Score  *int   `json:"score" validate:"required,min=0,max=100" label:"分数"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func intPtr(i int) *int { return &i }

func TestCustomRules(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		in        sample
		wantOK    bool
		wantField string
		wantMsg   string
	}{
		{name: "valid", in: sample{Slug: "mun-2025", Suffix: "1234", Score: intPtr(85)}, wantOK: true},
		{name: "upper case slug", in: sample{Slug: "MUN", Suffix: "1234", Score: intPtr(1)}, wantField: "Slug", wantMsg: "URL标识只能包含小写字母、数字和连字符"},
		{name: "three digit suffix", in: sample{Slug: "a", Suffix: "123", Score: intPtr(1)}, wantField: "Suffix", wantMsg: "手机号后四位必须是4位数字"},
		{name: "letters in suffix", in: sample{Slug: "a", Suffix: "12a4", Score: intPtr(1)}, wantField: "Suffix", wantMsg: "手机号后四位必须是4位数字"},
		{name: "score above range", in: sample{Slug: "a", Suffix: "1234", Score: intPtr(101)}, wantField: "Score", wantMsg: "分数不能大于100"},
		{name: "score missing", in: sample{Slug: "a", Suffix: "1234"}, wantField: "Score", wantMsg: "分数不能为空"},
		{name: "zero score allowed", in: sample{Slug: "a", Suffix: "0000", Score: intPtr(0)}, wantOK: true},
		{name: "bad email falls back to json name", in: sample{Slug: "a", Suffix: "1234", Score: intPtr(0), Email: "nope"}, wantField: "Email", wantMsg: "email格式不正确"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantOK {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			field, msg, ok := FirstError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestFirstError_NotValidation(t *testing.T) {
	_, _, ok := FirstError(assert.AnError)
	assert.False(t, ok)
}
