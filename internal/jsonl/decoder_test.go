package jsonl

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// chunkReader delivers exactly one scripted chunk per Read call, so tests
// control where the stream is split.
type chunkReader struct {
	chunks []string
	index  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.index >= len(c.chunks) {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[c.index])
	c.index++
	return n, nil
}

// drain reads every record until the stream ends.
func drain(t *testing.T, d *Decoder) []string {
	t.Helper()

	var records []string
	for {
		record, err := d.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		records = append(records, string(record))
	}
}

func TestDecoder_Next(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{
			name:   "record split across chunks",
			chunks: []string{"{\"a\":1}\n{\"a\":", "2}\n"},
			want:   []string{`{"a":1}`, `{"a":2}`},
		},
		{
			name:   "one record per chunk",
			chunks: []string{"{\"a\":1}\n", "{\"a\":2}\n"},
			want:   []string{`{"a":1}`, `{"a":2}`},
		},
		{
			name:   "several records in one chunk",
			chunks: []string{"{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n"},
			want:   []string{`{"a":1}`, `{"a":2}`, `{"a":3}`},
		},
		{
			name:   "record split across three chunks",
			chunks: []string{"{\"lo", "ng\":", "true}\n"},
			want:   []string{`{"long":true}`},
		},
		{
			name:   "malformed line between two well-formed lines",
			chunks: []string{"{\"a\":1}\nnot json\n{\"a\":2}\n"},
			want:   []string{`{"a":1}`, `{"a":2}`},
		},
		{
			name:   "empty and whitespace lines are skipped",
			chunks: []string{"\n  \n{\"a\":1}\n\n"},
			want:   []string{`{"a":1}`},
		},
		{
			name:   "non-empty trailing buffer yields a final record",
			chunks: []string{"{\"a\":1}\n{\"a\":2}"},
			want:   []string{`{"a":1}`, `{"a":2}`},
		},
		{
			name:   "malformed trailing buffer is skipped",
			chunks: []string{"{\"a\":1}\n{\"a\":"},
			want:   []string{`{"a":1}`},
		},
		{
			name:   "empty trailing buffer yields nothing extra",
			chunks: []string{"{\"a\":1}\n"},
			want:   []string{`{"a":1}`},
		},
		{
			name:   "empty stream",
			chunks: nil,
			want:   nil,
		},
		{
			name:   "non-object records",
			chunks: []string{"[1,2]\n\"text\"\n42\n"},
			want:   []string{`[1,2]`, `"text"`, `42`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&chunkReader{chunks: tt.chunks}, nil)
			assert.Equal(t, tt.want, drain(t, d))
		})
	}
}

func TestDecoder_LogsSkippedLines(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	d := New(strings.NewReader("{\"a\":1}\nnot json\n{\"a\":2}\n"), zap.New(core))
	records := drain(t, d)

	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, records)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "skipping malformed stream line", logs.All()[0].Message)
}

func TestDecoder_ExhaustedStreamStaysExhausted(t *testing.T) {
	d := New(strings.NewReader("{\"a\":1}\n"), nil)

	_, err := d.Next()
	require.NoError(t, err)

	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

// errReader fails after delivering its payload.
type errReader struct {
	payload string
	err     error
	read    bool
}

func (e *errReader) Read(p []byte) (int, error) {
	if e.read {
		return 0, e.err
	}
	e.read = true
	return copy(p, e.payload), nil
}

// failingReader delivers its payload and the error in the same Read call.
type failingReader struct {
	payload string
	err     error
	read    bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.read {
		return 0, f.err
	}
	f.read = true
	return copy(p, f.payload), f.err
}

func TestDecoder_RecordsArrivingWithReadErrorAreKept(t *testing.T) {
	readErr := errors.New("connection reset")
	d := New(&failingReader{payload: "{\"a\":1}\n{\"a\":2}\n", err: readErr}, nil)

	record, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(record))

	// The second record arrived in the same read as the error; it must be
	// handed out before the error surfaces.
	record, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(record))

	_, err = d.Next()
	assert.ErrorIs(t, err, readErr)
}

func TestDecoder_ReadErrorEndsSequence(t *testing.T) {
	readErr := errors.New("connection reset")
	d := New(&errReader{payload: "{\"a\":1}\n", err: readErr}, nil)

	record, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(record))

	_, err = d.Next()
	assert.ErrorIs(t, err, readErr)
}
