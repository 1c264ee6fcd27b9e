// Package jsonl decodes newline-delimited JSON records from a raw byte
// stream, tolerating record boundaries that do not line up with read
// boundaries.
package jsonl

import (
	"bytes"
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

const chunkSize = 4096

// Decoder turns a raw byte stream into an ordered sequence of JSON records,
// one per newline-terminated line. A line may arrive split across any number
// of reads; the partial tail of each read is carried into the next one. A
// malformed line is skipped and logged, never fatal. A Decoder is
// single-consumer and forward-only.
type Decoder struct {
	r       io.Reader
	log     *zap.Logger
	chunk   []byte
	buf     []byte   // accumulation buffer: partial line carried between reads
	pending [][]byte // complete lines not yet handed out
	done    bool
	err     error // deferred read error, surfaced once pending drains
}

// New creates a Decoder reading from r. A nil logger disables logging.
func New(r io.Reader, log *zap.Logger) *Decoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{
		r:     r,
		log:   log,
		chunk: make([]byte, chunkSize),
	}
}

// Next returns the next decoded record. It returns io.EOF once the stream is
// exhausted; any other read error ends the sequence with that error.
func (d *Decoder) Next() (json.RawMessage, error) {
	for {
		for len(d.pending) > 0 {
			line := bytes.TrimSpace(d.pending[0])
			d.pending = d.pending[1:]
			if len(line) == 0 {
				continue
			}
			if !json.Valid(line) {
				d.log.Warn("skipping malformed stream line", zap.ByteString("line", line))
				continue
			}
			return json.RawMessage(line), nil
		}

		if d.done {
			if d.err != nil {
				return nil, d.err
			}
			return nil, io.EOF
		}

		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.buf = append(d.buf, d.chunk[:n]...)
			parts := bytes.Split(d.buf, []byte{'\n'})
			// Everything but the last segment is a complete line. The
			// segments alias d.buf, so they are copied out before the
			// buffer is reused.
			for _, part := range parts[:len(parts)-1] {
				d.pending = append(d.pending, append([]byte(nil), part...))
			}
			d.buf = append([]byte(nil), parts[len(parts)-1]...)
		}
		if err != nil {
			d.done = true
			if err != io.EOF {
				// Lines that arrived in the same read as the error are
				// still handed out; the error waits until they drain.
				d.err = err
				continue
			}
			// The stream ended mid-line: flush the remainder as a final
			// record under the same decode policy.
			if len(bytes.TrimSpace(d.buf)) > 0 {
				d.pending = append(d.pending, d.buf)
				d.buf = nil
			}
		}
	}
}
