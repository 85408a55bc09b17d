package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/oakwood-commons/streamview/internal/record"
)

// Stream decodes records from r and calls fn for each one in input order.
//
// Input that starts with '{', or a JSON array whose first element is an
// object, is decoded incrementally, so a pipe carrying one JSON object per
// line is rendered as each object arrives. Anything else is read to EOF and
// parsed with LoadRecords. Stream returns ctx.Err() once ctx is done, even
// while blocked on a read.
func Stream(ctx context.Context, r io.Reader, fn func(record.Record) error) error {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return ErrEmptyInput
	}
	if err != nil {
		return err
	}

	switch {
	case first == '{':
		return streamJSON(ctx, br, false, fn)
	case first == '[' && arrayOfObjects(br):
		return streamJSON(ctx, br, true, fn)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return err
	}
	recs, err := LoadRecords(string(data))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b[0])) {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}

// arrayOfObjects reports whether the buffered input is a '[' followed by
// '{', which tells a JSON array of records from a TOML table header.
func arrayOfObjects(br *bufio.Reader) bool {
	for n := 2; n <= br.Size(); n++ {
		b, err := br.Peek(n)
		if err != nil {
			return false
		}
		if c := b[n-1]; !unicode.IsSpace(rune(c)) {
			return c == '{'
		}
	}
	return false
}

type decoded struct {
	rec record.Record
	err error
}

func streamJSON(ctx context.Context, r io.Reader, array bool, fn func(record.Record) error) error {
	results := make(chan decoded)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(results)
		send := func(d decoded) bool {
			select {
			case results <- d:
				return d.err == nil
			case <-stop:
				return false
			}
		}
		dec := json.NewDecoder(r)
		if array {
			// opening bracket, already checked by arrayOfObjects
			if _, err := dec.Token(); err != nil {
				send(decoded{err: fmt.Errorf("invalid JSON: %w", err)})
				return
			}
		}
		for n := 1; ; n++ {
			if array && !dec.More() {
				if _, err := dec.Token(); err != nil {
					send(decoded{err: fmt.Errorf("invalid JSON: %w", err)})
				} else if dec.More() {
					send(decoded{err: fmt.Errorf("invalid JSON: unexpected data after record %d", n-1)})
				}
				return
			}
			var v any
			err := dec.Decode(&v)
			if !array && errors.Is(err, io.EOF) {
				return
			}
			var d decoded
			m, isObject := v.(map[string]any)
			switch {
			case err != nil:
				d.err = fmt.Errorf("record %d: invalid JSON: %w", n, err)
			case v == nil:
				d.err = fmt.Errorf("%w: record %d is null", ErrNotObject, n)
			case !isObject:
				d.err = fmt.Errorf("%w: record %d is %T", ErrNotObject, n, v)
			default:
				d.rec = record.FromMap(m)
			}
			if !send(d) {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-results:
			if !ok {
				return nil
			}
			if d.err != nil {
				return d.err
			}
			if err := fn(d.rec); err != nil {
				return err
			}
		}
	}
}
