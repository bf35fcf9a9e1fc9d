// Package jsonl implements a JSON-lines file reporter.
// Each record is appended as one JSON object per line, giving a run a
// durable, greppable report file.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/core/decoder"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter"
)

// Config represents jsonl reporter configuration.
type Config struct {
	Path string `mapstructure:"path"`
}

// entry is the serialized shape of one record.
type entry struct {
	Index     int         `json:"index"`
	Size      int         `json:"size"`
	Source    string      `json:"source,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Outcome   string      `json:"outcome"`
	Frame     *frameJSON  `json:"frame,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
	Error     string      `json:"error,omitempty"`
	Offset    *int        `json:"offset,omitempty"`
	Needed    *int        `json:"needed,omitempty"`
	Available *int        `json:"available,omitempty"`
	Labels    core.Labels `json:"labels,omitempty"`
	Payload   any         `json:"payload,omitempty"`
}

type frameJSON struct {
	TransactionID uint16 `json:"transaction_id"`
	ProtocolID    uint16 `json:"protocol_id"`
	Length        uint16 `json:"length"`
	UnitID        uint8  `json:"unit_id"`
	FunctionCode  uint8  `json:"function_code"`
	Function      string `json:"function"`
}

// Reporter appends records to a JSON-lines file.
type Reporter struct {
	name string
	path string

	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// New creates a jsonl reporter from a raw config map and opens its file.
func New(raw map[string]any) (reporter.Reporter, error) {
	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("jsonl reporter config: %w", err)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("jsonl reporter: path is required")
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("jsonl reporter: failed to open %s: %w", cfg.Path, err)
	}

	return &Reporter{
		name: "jsonl",
		path: cfg.Path,
		file: file,
		w:    bufio.NewWriter(file),
	}, nil
}

// Name returns the reporter name.
func (r *Reporter) Name() string {
	return r.name
}

// Report appends one record to the file.
func (r *Reporter) Report(ctx context.Context, rec *core.Record) error {
	if rec == nil {
		return fmt.Errorf("nil record")
	}

	e := entry{
		Index:   rec.Index,
		Size:    rec.Size,
		Source:  rec.Source,
		Labels:  rec.Labels,
		Payload: rec.Payload,
	}
	if !rec.Timestamp.IsZero() {
		e.Timestamp = rec.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	}

	if rec.Outcome.OK() {
		frame := rec.Outcome.Frame
		e.Outcome = "decoded"
		e.Frame = &frameJSON{
			TransactionID: frame.TransactionID,
			ProtocolID:    frame.ProtocolID,
			Length:        frame.Length,
			UnitID:        frame.UnitID,
			FunctionCode:  frame.FunctionCode,
			Function:      decoder.FunctionName(frame.FunctionCode),
		}
	} else {
		e.Outcome = "failed"
		e.Error = rec.Outcome.Err.Error()
		e.ErrorKind = errorKind(rec.Outcome.Err)

		var trunc *core.TruncatedError
		if errors.As(rec.Outcome.Err, &trunc) {
			e.Offset = &trunc.Offset
			e.Needed = &trunc.Needed
			e.Available = &trunc.Available
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("json marshal failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return fmt.Errorf("jsonl reporter: closed")
	}
	if _, err := r.w.Write(data); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Flush writes buffered lines through to the file.
func (r *Reporter) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	return r.w.Flush()
}

// Close flushes and closes the report file.
func (r *Reporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	flushErr := r.w.Flush()
	closeErr := r.file.Close()
	r.file = nil
	r.w = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, core.ErrFrameTooShort):
		return "truncated"
	case errors.Is(err, core.ErrProtocolMismatch):
		return "protocol_mismatch"
	case errors.Is(err, core.ErrSourceExhausted):
		return "source_exhausted"
	default:
		return "error"
	}
}
