// Package formatter turns selected record rows into terminal tables and
// structured documents.
package formatter

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// TimeLayout is used for time.Time values in table cells.
const TimeLayout = "2006-01-02 15:04:05"

var (
	defaultHeaderFG    = lipgloss.Color("12")
	defaultKeyColor    = lipgloss.Color("14")
	defaultValueColor  = lipgloss.Color("248")
	defaultBorderColor = lipgloss.Color("240")

	headerStyle lipgloss.Style
	keyStyle    lipgloss.Style
	valueStyle  lipgloss.Style
	borderStyle lipgloss.Style
)

// TableColors controls the rendered colors for tables.
// Nil fields fall back to the defaults (ANSI 256 codes).
type TableColors struct {
	HeaderFG    color.Color
	KeyColor    color.Color
	ValueColor  color.Color
	BorderColor color.Color
}

func applyTableTheme(tc TableColors) {
	hfg := tc.HeaderFG
	kc := tc.KeyColor
	vc := tc.ValueColor
	bc := tc.BorderColor
	if hfg == nil {
		hfg = defaultHeaderFG
	}
	if kc == nil {
		kc = defaultKeyColor
	}
	if vc == nil {
		vc = defaultValueColor
	}
	if bc == nil {
		bc = defaultBorderColor
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(hfg)
	keyStyle = lipgloss.NewStyle().Foreground(kc)
	valueStyle = lipgloss.NewStyle().Foreground(vc)
	borderStyle = lipgloss.NewStyle().Foreground(bc)
}

// SetTableTheme overrides the global table styles. Callers can pass
// zero-valued fields to fall back to formatter defaults. It is not safe to
// call while tables are being rendered.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

// ParseColor converts a config color string (ANSI code or #hex) into a
// color. Empty input yields nil so the default applies.
func ParseColor(s string) color.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// Stringify returns the table cell text for a record value. Strings keep
// their line breaks, so multi-line bodies render as multi-line cells.
func Stringify(v any) string {
	if s, ok := v.(string); ok {
		return normalizeScalarString(s)
	}
	return stringify(v)
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case json.Number:
		return t.String()
	case time.Time:
		return t.UTC().Format(TimeLayout)
	case map[string]any, []any:
		// compact JSON keeps nested values readable in a single cell
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() { //nolint:exhaustive // only complex types need JSON marshaling
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		}
		return fmt.Sprintf("%v", v)
	}
}

// formatFloat prints integral floats without an exponent, so a decoded
// created_utc of 1618000000 stays readable.
func formatFloat(f float64, bits int) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', 0, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// normalizeScalarString folds Windows and bare carriage returns into
// newlines and expands tabs.
func normalizeScalarString(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return expandTabs(s)
}

// TabWidth is the tab stop interval used when expanding tabs in cell text.
const TabWidth = 4

// expandTabs replaces each tab with spaces up to the next tab stop. Columns
// are counted in display width and restart after every newline.
func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + TabWidth)
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := TabWidth - col%TabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return sb.String()
}
