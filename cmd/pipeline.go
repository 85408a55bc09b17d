package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	celfilter "github.com/oakwood-commons/streamview/internal/cel"
	"github.com/oakwood-commons/streamview/internal/formatter"
	"github.com/oakwood-commons/streamview/internal/limiter"
	"github.com/oakwood-commons/streamview/pkg/display"
	"github.com/oakwood-commons/streamview/pkg/loader"
	"github.com/oakwood-commons/streamview/pkg/logger"
	"github.com/oakwood-commons/streamview/pkg/settings"
)

// errWindowFull stops the input stream once the limit has been reached.
var errWindowFull = errors.New("record window full")

// indexedRecord remembers a record's 1-based position in the input.
type indexedRecord struct {
	index int
	rec   display.Record
}

// pipeline moves records from the loader through the filter and the record
// window to the formatter.
type pipeline struct {
	formatter *display.StreamFormatter
	filter    *celfilter.Filter
	window    *limiter.Window[indexedRecord]
	format    formatter.Format
	out       io.Writer

	seen     int
	emitted  int
	failures int
}

func (p *pipeline) run(ctx context.Context, in io.Reader) error {
	run, ok := settings.FromContext(ctx)
	if !ok {
		run = settings.NewCliParams()
	}
	lgr := logger.FromContext(ctx)

	err := loader.Stream(ctx, in, func(rec display.Record) error {
		p.seen++
		rlog := logger.ForRecord(lgr, p.seen)

		match, err := p.filter.Match(rec)
		if err != nil {
			return p.fail(run, rlog, p.seen, err)
		}
		if !match {
			rlog.V(1).Info("record filtered out")
			return nil
		}

		item := indexedRecord{index: p.seen, rec: rec}
		emit, done := p.window.Push(item)
		if emit {
			if err := p.emit(item.rec); err != nil {
				return p.fail(run, rlog, item.index, err)
			}
		}
		if done {
			return errWindowFull
		}
		return nil
	})
	if err != nil && !errors.Is(err, errWindowFull) {
		return err
	}

	for _, item := range p.window.Flush() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.emit(item.rec); err != nil {
			if ferr := p.fail(run, logger.ForRecord(lgr, item.index), item.index, err); ferr != nil {
				return ferr
			}
		}
	}

	if p.failures > 0 {
		lgr.Info("skipped records that could not be displayed", "failures", p.failures, "displayed", p.emitted)
	}
	lgr.V(1).Info("stream finished", "seen", p.seen, "displayed", p.emitted, logger.OutputKey, p.format.String())
	return nil
}

// fail stops the stream unless --keep-going is set, in which case the error
// is logged at info level and the record skipped.
func (p *pipeline) fail(run *settings.Run, rlog *logr.Logger, index int, err error) error {
	if run.ExitOnError {
		return fmt.Errorf("record %d: %w", index, err)
	}
	p.failures++
	rlog.Info("skipping record", logger.ErrorKey, err.Error())
	return nil
}

// emit writes one record. Tables are separated by a blank line and YAML
// documents by a document marker.
func (p *pipeline) emit(rec display.Record) error {
	if p.format == formatter.FormatTable {
		table, err := p.formatter.Render(rec)
		if err != nil {
			return err
		}
		if p.emitted > 0 {
			table = "\n" + table
		}
		if _, err := io.WriteString(p.out, table); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
		p.emitted++
		return nil
	}

	values, err := p.formatter.Values(rec)
	if err != nil {
		return err
	}
	data, err := formatter.Marshal(p.format, values)
	if err != nil {
		return err
	}
	if p.emitted > 0 {
		switch p.format {
		case formatter.FormatYAML:
			data = append([]byte("---\n"), data...)
		case formatter.FormatTOML:
			data = append([]byte("\n"), data...)
		}
	}
	if _, err := p.out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", p.format, err)
	}
	p.emitted++
	return nil
}
