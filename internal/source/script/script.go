// Package script implements a YAML frame-script source.
//
// A frame script is an ordered list of candidate frames given as hex strings,
// used to replay known-good and known-bad frame sequences against the
// gateway without a live PLC link:
//
//	frames:
//	  - name: valid read request
//	    hex: "00 01 00 00 00 06 01 03 00 00 00 0A"
//	  - name: truncated header
//	    hex: "00 01 00"
package script

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

// File is the on-disk shape of a frame script.
type File struct {
	Frames []Entry `yaml:"frames"`
}

// Entry is one scripted candidate frame.
type Entry struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// Source yields the frames of a parsed script in file order.
type Source struct {
	origin string
	frames [][]byte
	pos    int
}

// Open parses a frame script file into a source. All hex entries are decoded
// up front so a malformed script fails before the run starts.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame script %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse frame script %s: %w", path, err)
	}
	if len(file.Frames) == 0 {
		return nil, fmt.Errorf("frame script %s contains no frames", path)
	}

	frames := make([][]byte, 0, len(file.Frames))
	for i, entry := range file.Frames {
		raw, err := DecodeHex(entry.Hex)
		if err != nil {
			name := entry.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("frame script %s: frame %s: %w", path, name, err)
		}
		frames = append(frames, raw)
	}

	return &Source{
		origin: "script:" + path,
		frames: frames,
	}, nil
}

// Next returns the next scripted frame, or io.EOF when the script is done.
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

// Close is a no-op; the file is fully read at Open time.
func (s *Source) Close() error { return nil }

// DecodeHex decodes a whitespace-tolerant hex string. An empty string is a
// valid zero-length frame.
func DecodeHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return raw, nil
}
