// Package display renders submission and comment records as sorted,
// left-aligned, width-capped terminal tables.
//
// A comment's table also carries selected fields of its parent submission,
// labeled with the "submission_" prefix:
//
//	f := display.New(display.WithNoColor(true))
//	if err := f.Display(rec); err != nil {
//		return err
//	}
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/streamview/internal/formatter"
	"github.com/oakwood-commons/streamview/internal/record"
)

// DefaultMaxWidth caps the rendered width of a table cell.
const DefaultMaxWidth = 120

// ValueHeader is the header of the value column.
const ValueHeader = "Data"

// Record is a submission or comment keyed by field name.
type Record = record.Record

// BorderStyle selects the table border characters.
type BorderStyle = formatter.BorderStyle

const (
	BorderASCII   = formatter.BorderASCII
	BorderRounded = formatter.BorderRounded
	BorderHeavy   = formatter.BorderHeavy
	BorderDouble  = formatter.BorderDouble
	BorderNone    = formatter.BorderNone
)

// Errors returned for records that cannot be displayed.
var (
	ErrMissingType = record.ErrMissingType
	ErrInvalidType = record.ErrInvalidType
	ErrUnknownType = record.ErrUnknownType
)

// StreamFormatter renders one record per call. It holds no state between
// calls; each Display performs a single write to the output writer.
type StreamFormatter struct {
	out               io.Writer
	maxWidth          int
	border            formatter.BorderStyle
	noColor           bool
	allowUnknownTypes bool
	log               logr.Logger
}

// Option configures a StreamFormatter.
type Option func(*StreamFormatter)

// WithWriter sets the output writer. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(f *StreamFormatter) {
		f.out = w
	}
}

// WithMaxWidth caps cell width; longer values wrap. Zero disables the cap.
func WithMaxWidth(n int) Option {
	return func(f *StreamFormatter) {
		f.maxWidth = n
	}
}

// WithBorder sets the table border style.
func WithBorder(b formatter.BorderStyle) Option {
	return func(f *StreamFormatter) {
		f.border = b
	}
}

// WithNoColor disables ANSI styling.
func WithNoColor(noColor bool) Option {
	return func(f *StreamFormatter) {
		f.noColor = noColor
	}
}

// WithAllowUnknownTypes renders records of an unrecognized type as a
// header-only table instead of failing with record.ErrUnknownType.
func WithAllowUnknownTypes(allow bool) Option {
	return func(f *StreamFormatter) {
		f.allowUnknownTypes = allow
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(lgr logr.Logger) Option {
	return func(f *StreamFormatter) {
		f.log = lgr
	}
}

// New creates a StreamFormatter with defaults: stdout, 120 column cells,
// ASCII borders, color on, unknown types rejected.
func New(opts ...Option) *StreamFormatter {
	f := &StreamFormatter{
		out:      os.Stdout,
		maxWidth: DefaultMaxWidth,
		border:   formatter.BorderASCII,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.out == nil {
		f.out = io.Discard
	}
	return f
}

// Header returns the column headers for a record type.
func Header(t record.Type) []string {
	return []string{t.Title() + " Attribute", ValueHeader}
}

// Table builds the table for rec without rendering it.
func (f *StreamFormatter) Table(rec record.Record) (*formatter.Table, error) {
	t, err := rec.Type()
	if err != nil {
		return nil, err
	}
	rows, err := record.Rows(rec, record.SelectOptions{AllowUnknownTypes: f.allowUnknownTypes})
	if err != nil {
		return nil, err
	}
	f.log.V(1).Info("selected record fields", "type", t.String(), "labels", record.Labels(rows))

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Label, formatter.Stringify(r.Value)}
	}
	return &formatter.Table{
		Header:   Header(t),
		Rows:     cells,
		SortBy:   0,
		Align:    []formatter.Alignment{formatter.AlignLeft, formatter.AlignLeft},
		MaxWidth: f.maxWidth,
		Border:   f.border,
		NoColor:  f.noColor,
	}, nil
}

// Render returns the rendered table for rec.
func (f *StreamFormatter) Render(rec record.Record) (string, error) {
	tbl, err := f.Table(rec)
	if err != nil {
		return "", err
	}
	return tbl.String(), nil
}

// Display renders rec and writes it to the output writer.
func (f *StreamFormatter) Display(rec record.Record) error {
	tbl, err := f.Table(rec)
	if err != nil {
		return err
	}
	if err := tbl.Render(f.out); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// Values returns the selected fields of rec keyed by label, for structured
// output formats.
func (f *StreamFormatter) Values(rec record.Record) (map[string]any, error) {
	rows, err := record.Rows(rec, record.SelectOptions{AllowUnknownTypes: f.allowUnknownTypes})
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Value
	}
	return out, nil
}

// Display renders rec to stdout with default settings.
func Display(rec record.Record) error {
	return New().Display(rec)
}
