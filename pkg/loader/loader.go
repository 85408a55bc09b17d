// Package loader decodes submission and comment records from JSON, NDJSON,
// YAML and TOML input.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/streamview/internal/record"
)

// Sentinel errors for programmatic error handling.
var (
	ErrEmptyInput = errors.New("empty input")
	ErrNotObject  = errors.New("document is not an object")
)

var (
	// Pattern for TOML section headers: [section] or [[array]]
	// Supports bare keys, quoted keys, and dotted keys.
	// Excludes JSON arrays like [1, 2, 3] which have spaces/commas without quotes
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)

	// Pattern for TOML key = value (not key: value which is YAML)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// LoadData loads structured data from a string, auto-detecting format.
// Supports:
// - Newline-delimited JSON (NDJSON): one JSON object per line
// - Single JSON object/array
// - YAML: single document or multi-document (separated by ---)
// - TOML
//
// Each element of the result is one parsed document.
func LoadData(input string) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return loadMultiDocYAML(input)
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(lines)
	}

	// TOML [section] headers look like JSON arrays, so check TOML first
	if isLikelyTOML(lines) {
		return loadTOML(input)
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return loadJSON(input)
	}

	return loadYAML(input)
}

// LoadRecords parses input into records. Top-level arrays are flattened so
// a JSON array of objects yields one record per element.
func LoadRecords(input string) ([]record.Record, error) {
	docs, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	return toRecords(docs)
}

// LoadFile reads a file and parses it into records.
func LoadFile(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadRecords(string(data))
}

func toRecords(docs []any) ([]record.Record, error) {
	recs := make([]record.Record, 0, len(docs))
	for i, doc := range docs {
		switch v := doc.(type) {
		case map[string]any:
			recs = append(recs, record.FromMap(v))
		case []any:
			for j, item := range v {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: document %d item %d is %T", ErrNotObject, i+1, j+1, item)
				}
				recs = append(recs, record.FromMap(m))
			}
		default:
			return nil, fmt.Errorf("%w: document %d is %T", ErrNotObject, i+1, doc)
		}
	}
	return recs, nil
}

// loadJSON parses a single JSON object or array
func loadJSON(input string) ([]any, error) {
	var data any
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []any{data}, nil
}

// loadYAML parses a single YAML document
func loadYAML(input string) ([]any, error) {
	var data any
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []any{data}, nil
}

// loadMultiDocYAML parses YAML with multiple documents separated by ---
func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses newline-delimited JSON. Every non-empty line must be
// valid JSON.
func loadNDJSON(lines []string) ([]any, error) {
	results := make([]any, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", i+1, err)
		}
		results = append(results, obj)
	}

	if len(results) == 0 {
		return nil, ErrEmptyInput
	}
	return results, nil
}

// isLikelyNDJSON heuristic: a majority of non-empty lines must start with '{'
// or '['. This keeps pretty-printed JSON and YAML lists out.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML heuristic: section headers, or a majority of key = value lines.
func isLikelyTOML(lines []string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

// loadTOML parses a TOML document
func loadTOML(input string) ([]any, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}
