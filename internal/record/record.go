// Package record models the submission and comment objects rendered by
// streamview and selects which of their fields are displayed.
package record

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMissingType = errors.New("record has no type field")
	ErrInvalidType = errors.New("record type is not a non-empty string")
	ErrUnknownType = errors.New("unknown record type")
)

const (
	// TypeKey is the discriminator field every record must carry.
	TypeKey = "type"
	// ParentKey holds the parent submission of a comment.
	ParentKey = "submission"
)

// Type is the record type discriminator.
type Type string

const (
	Submission Type = "submission"
	Comment    Type = "comment"
)

// String returns the raw type name.
func (t Type) String() string { return string(t) }

// Known reports whether t has a field allow-list.
func (t Type) Known() bool {
	return t == Submission || t == Comment
}

// Title returns the type name with its first rune upper-cased and the rest
// lower-cased, e.g. "Submission".
func (t Type) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Record is one stream object: field name to value.
type Record map[string]any

// Type returns the record's type discriminator.
func (r Record) Type() (Type, error) {
	raw, ok := r[TypeKey]
	if !ok {
		return "", ErrMissingType
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: got %T %v", ErrInvalidType, raw, raw)
	}
	return Type(s), nil
}

// Parent returns the nested parent submission of a comment, or nil when the
// record has none.
func (r Record) Parent() map[string]any {
	switch p := r[ParentKey].(type) {
	case map[string]any:
		return p
	case Record:
		return p
	default:
		return nil
	}
}

// FromMap converts a decoded document into a Record. YAML decoders may hand
// back map[any]any for nested values; those are normalized to string keys.
func FromMap(m map[string]any) Record {
	out := make(Record, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	default:
		return v
	}
}
