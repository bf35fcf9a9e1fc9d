// Package static implements an in-memory frame source.
package static

import (
	"io"
	"time"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

// Source yields a fixed slice of frames. Used by the decode command and in
// tests.
type Source struct {
	origin string
	frames [][]byte
	pos    int
}

// New creates a static source over the given frames.
func New(origin string, frames ...[]byte) *Source {
	return &Source{origin: origin, frames: frames}
}

// Next returns the next frame, or io.EOF when the slice is drained.
func (s *Source) Next() (core.RawFrame, error) {
	if s.pos >= len(s.frames) {
		return core.RawFrame{}, io.EOF
	}
	frame := core.RawFrame{
		Data:      s.frames[s.pos],
		Timestamp: time.Now(),
		Source:    s.origin,
	}
	s.pos++
	return frame, nil
}

// Close is a no-op.
func (s *Source) Close() error { return nil }
