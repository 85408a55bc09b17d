package loader

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/streamview/internal/record"
)

func collect(t *testing.T, input string) ([]record.Record, error) {
	t.Helper()
	var got []record.Record
	err := Stream(context.Background(), strings.NewReader(input), func(rec record.Record) error {
		got = append(got, rec)
		return nil
	})
	return got, err
}

func TestStreamNDJSON(t *testing.T) {
	got, err := collect(t, "\n  {\"type\":\"submission\",\"id\":\"a\"}\n{\"type\":\"comment\",\"id\":\"b\"}{\"type\":\"comment\",\"id\":\"c\"}\n")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []any{"a", "b", "c"}, []any{got[0]["id"], got[1]["id"], got[2]["id"]})
}

func TestStreamFallsBackToLoadRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
	}{
		{name: "yaml", input: "type: submission\ntitle: Hello\n", wantLen: 1},
		{name: "toml section first", input: "[submission]\ntitle = \"Post\"\n", wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collect(t, tt.input)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestStreamJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantIDs []any
		wantErr error
		errText string
	}{
		{name: "records in order", input: " [\n {\"id\":\"a\"},\n {\"id\":\"b\"}\n]\n", wantIDs: []any{"a", "b"}},
		{name: "non-object element", input: `[{"id":"a"}, 2]`, wantIDs: []any{"a"}, wantErr: ErrNotObject},
		{name: "null element", input: `[{"id":"a"}, null]`, wantIDs: []any{"a"}, wantErr: ErrNotObject},
		{name: "unterminated", input: `[{"id":"a"}`, wantIDs: []any{"a"}, errText: "invalid JSON"},
		{name: "data after the array", input: `[{"id":"a"}] {"id":"b"}`, wantIDs: []any{"a"}, errText: "after record 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collect(t, tt.input)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
			}
			ids := make([]any, len(got))
			for i, rec := range got {
				ids[i] = rec["id"]
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStreamJSONArrayIsIncremental(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	received := make(chan record.Record, 1)
	done := make(chan error, 1)
	go func() {
		done <- Stream(context.Background(), pr, func(rec record.Record) error {
			received <- rec
			return nil
		})
	}()

	_, err := pw.Write([]byte("[{\"type\":\"comment\",\"id\":\"live\"},\n"))
	require.NoError(t, err)

	select {
	case rec := <-received:
		assert.Equal(t, "live", rec["id"])
	case <-time.After(5 * time.Second):
		t.Fatal("array element was not streamed before the array closed")
	}

	_, err = pw.Write([]byte("{\"id\":\"next\"}]\n"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	select {
	case rec := <-received:
		assert.Equal(t, "next", rec["id"])
	case <-time.After(5 * time.Second):
		t.Fatal("second element was not streamed")
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stream did not return at EOF")
	}
}

func TestStreamEmpty(t *testing.T) {
	_, err := collect(t, " \n\t")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestStreamInvalidJSONStopsAfterGoodRecords(t *testing.T) {
	got, err := collect(t, "{\"type\":\"submission\"}\n{\"type\": }\n{\"type\":\"comment\"}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
	assert.Len(t, got, 1)
}

func TestStreamNullRecord(t *testing.T) {
	_, err := collect(t, "{\"type\":\"submission\"}\nnull\n")
	require.ErrorIs(t, err, ErrNotObject)
}

func TestStreamCallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Stream(context.Background(), strings.NewReader(`{"id":1} {"id":2} {"id":3}`), func(record.Record) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestStreamCancelWhileBlocked(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan record.Record, 1)
	done := make(chan error, 1)
	go func() {
		done <- Stream(ctx, pr, func(rec record.Record) error {
			received <- rec
			return nil
		})
	}()

	_, err := pw.Write([]byte("{\"type\":\"comment\",\"id\":\"live\"}\n"))
	require.NoError(t, err)

	select {
	case rec := <-received:
		assert.Equal(t, "live", rec["id"])
	case <-time.After(5 * time.Second):
		t.Fatal("record was not streamed before EOF")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Stream did not return after cancel")
	}
}
