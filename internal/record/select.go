package record

import (
	"fmt"
)

// Row is one labeled value selected for display.
type Row struct {
	Label string
	Value any
}

// SelectOptions tunes Rows.
type SelectOptions struct {
	// AllowUnknownTypes makes Rows return no rows for a type without an
	// allow-list instead of ErrUnknownType.
	AllowUnknownTypes bool
}

// SelectFields returns one row per allowed field present in rec, labeled
// prefix+field. Values are passed through untouched. Rows follow the order
// of allowed.
func SelectFields(allowed []string, rec map[string]any, prefix string) []Row {
	if len(rec) == 0 {
		return nil
	}
	rows := make([]Row, 0, len(allowed))
	for _, field := range allowed {
		v, ok := rec[field]
		if !ok {
			continue
		}
		rows = append(rows, Row{Label: prefix + field, Value: v})
	}
	return rows
}

// Rows selects the displayed rows of rec based on its type. Comments also
// carry the allow-listed fields of their parent submission, prefixed with
// SubmissionPrefix.
func Rows(rec Record, opts SelectOptions) ([]Row, error) {
	t, err := rec.Type()
	if err != nil {
		return nil, err
	}
	if !t.Known() {
		if opts.AllowUnknownTypes {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	rows := SelectFields(FieldsFor(t), rec, "")
	if t == Comment {
		rows = append(SelectFields(ParentSubmissionFields(), rec.Parent(), SubmissionPrefix), rows...)
	}
	return rows, nil
}

// Labels returns the labels of rows in order.
func Labels(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}
