// Package limiter windows a record stream with --limit, --offset and --tail.
package limiter

import (
	"fmt"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Window applies a Config to items arriving one at a time. Offset and Limit
// are decided as each item is pushed; Tail items are held until Flush.
type Window[T any] struct {
	cfg     Config
	seen    int
	emitted int
	tail    []T
}

// NewWindow returns an empty window for c.
func NewWindow[T any](c Config) *Window[T] {
	return &Window[T]{cfg: c}
}

// Push offers the next item. emit reports whether the item should be shown
// now; done reports that no later item can be shown before Flush, so the
// caller may stop reading.
func (w *Window[T]) Push(item T) (emit bool, done bool) {
	if w.cfg.Tail > 0 {
		w.tail = append(w.tail, item)
		if len(w.tail) > w.cfg.Tail {
			w.tail = w.tail[1:]
		}
		return false, false
	}

	w.seen++
	if w.seen <= w.cfg.Offset {
		return false, false
	}
	if w.cfg.Limit > 0 && w.emitted >= w.cfg.Limit {
		return false, true
	}
	w.emitted++
	return true, w.cfg.Limit > 0 && w.emitted >= w.cfg.Limit
}

// Flush returns the held tail items, oldest first, and resets the buffer.
func (w *Window[T]) Flush() []T {
	out := w.tail
	w.tail = nil
	return out
}
