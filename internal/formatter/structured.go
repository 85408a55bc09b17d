package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format is an output format for displayed records.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

var formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatTOML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name. Empty input selects FormatTable.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Marshal encodes labeled values as a structured document with keys in
// sorted order. FormatTable is not structured and is rejected.
func Marshal(f Format, values map[string]any) ([]byte, error) {
	switch f {
	case FormatJSON:
		b, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatYAML:
		return marshalYAML(values)
	case FormatTOML:
		return marshalTOML(values)
	default:
		return nil, fmt.Errorf("%w: %q is not a structured format", ErrUnsupportedFormat, f)
	}
}

// marshalYAML emits multi-line strings (self text, comment bodies) as
// literal blocks so their line breaks survive.
func marshalYAML(values map[string]any) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(values); err != nil {
		return nil, err
	}
	applyLiteralStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}

// marshalTOML drops nil values; TOML has no null.
func marshalTOML(values map[string]any) ([]byte, error) {
	clean := make(map[string]any, len(values))
	for k, v := range values {
		if v != nil {
			clean[k] = v
		}
	}
	return toml.Marshal(clean)
}
