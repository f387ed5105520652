package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizvenue/billing-console/internal/normalize"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "iso string without zone",
			raw:  `"2024-01-30T00:00:00"`,
			want: "Jan 30, 2024",
		},
		{
			name: "iso string with zone",
			raw:  `"2024-01-30T00:00:00Z"`,
			want: "Jan 30, 2024",
		},
		{
			name: "date only string",
			raw:  `"2024-01-30"`,
			want: "Jan 30, 2024",
		},
		{
			name: "six element array",
			raw:  `[2024,1,30,0,0,0]`,
			want: "Jan 30, 2024",
		},
		{
			name: "array with time part",
			raw:  `[2025,3,1,13,45,10]`,
			want: "Mar 01, 2025",
		},
		{
			name: "three element array",
			raw:  `[2025,3,1]`,
			want: "Mar 01, 2025",
		},
		{
			name: "null",
			raw:  `null`,
			want: "N/A",
		},
		{
			name: "empty raw",
			raw:  ``,
			want: "N/A",
		},
		{
			name: "empty string",
			raw:  `""`,
			want: "N/A",
		},
		{
			name: "unparseable string falls through as is",
			raw:  `"next week"`,
			want: "next week",
		},
		{
			name: "too short array",
			raw:  `[2024,1]`,
			want: "N/A",
		},
		{
			name: "object",
			raw:  `{"year":2024}`,
			want: "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.Date(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

// Both backend date encodings must render to the identical display string.
func TestDate_StringAndArrayAgree(t *testing.T) {
	iso := normalize.Date(json.RawMessage(`"2024-01-30T00:00:00"`))
	arr := normalize.Date(json.RawMessage(`[2024,1,30,0,0,0]`))
	assert.Equal(t, iso, arr)
}

func TestEnum(t *testing.T) {
	tests := []struct {
		name string
		pre  string
		raw  string
		want string
	}{
		{
			name: "prefers pre-lowered convenience field",
			pre:  "past_due",
			raw:  "PAST_DUE",
			want: "past_due",
		},
		{
			name: "lowercases raw enum",
			pre:  "",
			raw:  "ACTIVE",
			want: "active",
		},
		{
			name: "empty input stays empty",
			pre:  "",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Enum(tt.pre, tt.raw))
		})
	}
}

func TestEnumOr_Fallback(t *testing.T) {
	assert.Equal(t, "active", normalize.EnumOr("", "", "active"))
	assert.Equal(t, "churned", normalize.EnumOr("", "CHURNED", "active"))
}

func TestUpperEnum_RoundTrip(t *testing.T) {
	// lower-case form control value goes back to the backend format
	assert.Equal(t, "ACTIVE", normalize.UpperEnum(normalize.Enum("", "ACTIVE")))
}

func TestNewID(t *testing.T) {
	withFormatted := normalize.NewID(42, "CLT-0042")
	assert.Equal(t, "CLT-0042", withFormatted.Display)
	assert.Equal(t, int64(42), withFormatted.Key)

	plain := normalize.NewID(42, "")
	assert.Equal(t, "42", plain.Display)
	assert.Equal(t, int64(42), plain.Key)
}
