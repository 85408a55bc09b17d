package formatter

import (
	"encoding/json"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestStringifyString(t *testing.T) {
	result := Stringify("hello")
	if result != "hello" {
		t.Fatalf("expected 'hello', got %q", result)
	}
}

func TestStringifyKeepsLineBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "crlf", in: "line1\r\nline2", want: "line1\nline2"},
		{name: "bare cr", in: "line1\rline2", want: "line1\nline2"},
		{name: "plain", in: "line1\nline2", want: "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestStringifyExpandsTabs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "leading tab", in: "\tx", want: "    x"},
		{name: "tab after text", in: "a\tb", want: "a   b"},
		{name: "tab on a stop", in: "abcd\te", want: "abcd    e"},
		{name: "column restarts per line", in: "abc\nab\tc", want: "abc\nab  c"},
		{name: "wide runes count two columns", in: "日\tx", want: "日  x"},
		{name: "runs of spaces untouched", in: "a    b", want: "a    b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestStringifyNil(t *testing.T) {
	if result := Stringify(nil); result != "" {
		t.Fatalf("expected empty string for nil, got %q", result)
	}
}

func TestStringifyScalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "bool", value: false, want: "false"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "integral float has no exponent", value: float64(1618000000), want: "1618000000"},
		{name: "fractional float", value: 0.97, want: "0.97"},
		{name: "float32", value: float32(0.5), want: "0.5"},
		{name: "json number", value: json.Number("12.50"), want: "12.50"},
		{name: "time in utc", value: time.Date(2021, 4, 9, 22, 13, 20, 0, time.FixedZone("x", 3600)), want: "2021-04-09 21:13:20"},
		{name: "map as compact json", value: map[string]any{"a": 1.0}, want: `{"a":1}`},
		{name: "slice as compact json", value: []any{"x", true}, want: `["x",true]`},
		{name: "typed slice", value: []string{"a", "b"}, want: `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.value))
		})
	}
}

func TestParseColor(t *testing.T) {
	assert.Nil(t, ParseColor("  "))
	assert.Equal(t, lipgloss.Color("14"), ParseColor("14"))
}

func TestSetTableThemeFallsBackToDefaults(t *testing.T) {
	t.Cleanup(func() { SetTableTheme(TableColors{}) })

	SetTableTheme(TableColors{KeyColor: lipgloss.Color("1")})
	assert.Equal(t, lipgloss.Color("1"), keyStyle.GetForeground())
	assert.Equal(t, defaultValueColor, valueStyle.GetForeground())
}
