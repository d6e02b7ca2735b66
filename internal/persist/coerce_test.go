package persist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"0", true},
		{json.Number("0"), false},
		{json.Number("0.0"), false},
		{json.Number("-1"), true},
		{[]any{}, true},
		{map[string]any{}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truthy(tt.in), "truthy(%#v)", tt.in)
	}
}

func TestScalarString(t *testing.T) {
	tests := []struct {
		in     any
		want   string
		wantOK bool
	}{
		{"abc", "abc", true},
		{json.Number("5"), "5", true},
		{json.Number("5.0"), "5", true},
		{json.Number("2.5"), "2.5", true},
		{true, "true", true},
		{false, "", false},
		{nil, "", false},
		{map[string]any{"a": 1}, "", false},
	}
	for _, tt := range tests {
		got, ok := scalarString(tt.in)
		assert.Equal(t, tt.wantOK, ok, "scalarString(%#v) ok", tt.in)
		assert.Equal(t, tt.want, got, "scalarString(%#v)", tt.in)
	}
}

func TestMillis(t *testing.T) {
	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{json.Number("1704067200000"), 1704067200000, true},
		{json.Number("99.9"), 99, true},
		{json.Number("1e3"), 1000, true},
		{" 42 ", 42, true},
		{"later", 0, false},
		{json.Number("0"), 0, false},
		{nil, 0, false},
		{json.Number("1e300"), 0, false},
		{[]any{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := millis(tt.in)
		assert.Equal(t, tt.wantOK, ok, "millis(%#v) ok", tt.in)
		assert.Equal(t, tt.want, got, "millis(%#v)", tt.in)
	}
}
