// Package console implements the console reporter.
// Outputs one line per frame outcome to a writer, stdout by default, in
// human-readable text or JSON.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/core/decoder"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter"
)

// Config represents console reporter configuration.
type Config struct {
	Format string `mapstructure:"format"` // "json" or "text", default "text"
}

// Reporter writes frame outcomes to a writer.
type Reporter struct {
	name          string
	format        string
	out           io.Writer
	reportedCount atomic.Uint64
}

// New creates a console reporter from a raw config map.
func New(raw map[string]any) (reporter.Reporter, error) {
	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("console reporter config: %w", err)
	}

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Format != "json" && cfg.Format != "text" {
		return nil, fmt.Errorf("invalid format %q, must be json or text", cfg.Format)
	}

	return &Reporter{
		name:   "console",
		format: cfg.Format,
		out:    os.Stdout,
	}, nil
}

// NewWithWriter creates a console reporter writing to w. Used by tests and
// by the decode command, which targets stderr-free output.
func NewWithWriter(w io.Writer, format string) *Reporter {
	return &Reporter{name: "console", format: format, out: w}
}

// Name returns the reporter name.
func (r *Reporter) Name() string {
	return r.name
}

// Report outputs one record.
func (r *Reporter) Report(ctx context.Context, rec *core.Record) error {
	if rec == nil {
		return fmt.Errorf("nil record")
	}

	r.reportedCount.Add(1)

	if r.format == "json" {
		return r.reportJSON(rec)
	}
	return r.reportText(rec)
}

// reportJSON outputs a record in JSON format. Decoded frames carry the
// telemetry shape consumed by downstream historians: source, unit id,
// function name, registers when a read response was parsed.
func (r *Reporter) reportJSON(rec *core.Record) error {
	output := map[string]any{
		"index":     rec.Index,
		"size":      rec.Size,
		"source":    rec.Source,
		"timestamp": rec.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
	}

	if rec.Outcome.OK() {
		frame := rec.Outcome.Frame
		output["outcome"] = "decoded"
		output["transaction_id"] = frame.TransactionID
		output["protocol_id"] = frame.ProtocolID
		output["length"] = frame.Length
		output["unit_id"] = frame.UnitID
		output["function_code"] = frame.FunctionCode
		output["function"] = decoder.FunctionName(frame.FunctionCode)
	} else {
		output["outcome"] = "failed"
		output["error_kind"] = ErrorKind(rec.Outcome.Err)
		output["error"] = rec.Outcome.Err.Error()

		var trunc *core.TruncatedError
		if errors.As(rec.Outcome.Err, &trunc) {
			output["offset"] = trunc.Offset
			output["needed"] = trunc.Needed
			output["available"] = trunc.Available
		}
		var pm *core.ProtocolMismatchError
		if errors.As(rec.Outcome.Err, &pm) {
			output["found"] = pm.Found
		}
	}

	if len(rec.Labels) > 0 {
		output["labels"] = rec.Labels
	}
	if rec.Payload != nil {
		output["payload_type"] = rec.PayloadType
		output["payload"] = rec.Payload
	}

	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("json marshal failed: %w", err)
	}

	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

// reportText outputs a record in human-readable text format.
func (r *Reporter) reportText(rec *core.Record) error {
	if rec.Outcome.OK() {
		frame := rec.Outcome.Frame
		fmt.Fprintf(r.out, "#%d %dB decoded txn=%d proto=0x%04X len=%d unit=%d func=0x%02X(%s)",
			rec.Index, rec.Size,
			frame.TransactionID, frame.ProtocolID, frame.Length,
			frame.UnitID, frame.FunctionCode,
			decoder.FunctionName(frame.FunctionCode),
		)
	} else {
		fmt.Fprintf(r.out, "#%d %dB failed %s: %v",
			rec.Index, rec.Size, ErrorKind(rec.Outcome.Err), rec.Outcome.Err)
	}

	if len(rec.Labels) > 0 {
		fmt.Fprintf(r.out, " labels=%v", rec.Labels)
	}

	fmt.Fprintln(r.out)
	return nil
}

// Flush is a no-op for console reporter (stdout auto-flushes).
func (r *Reporter) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op; the writer is not owned by the reporter.
func (r *Reporter) Close() error {
	return nil
}

// Reported returns the number of records written.
func (r *Reporter) Reported() uint64 {
	return r.reportedCount.Load()
}

// ErrorKind classifies a decode error for rendering.
func ErrorKind(err error) string {
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
