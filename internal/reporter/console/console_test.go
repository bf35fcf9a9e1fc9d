package console

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

func TestNewValidatesFormat(t *testing.T) {
	if _, err := New(map[string]any{"format": "xml"}); err == nil {
		t.Error("expected error for invalid format")
	}

	r, err := New(nil)
	if err != nil {
		t.Fatalf("New with nil config failed: %v", err)
	}
	if r.(*Reporter).format != "text" {
		t.Errorf("expected default format text, got %s", r.(*Reporter).format)
	}
}

func TestReportTextDecoded(t *testing.T) {
	var buf bytes.Buffer
	r := NewWithWriter(&buf, "text")

	rec := &core.Record{
		Index: 0,
		Size:  12,
		Outcome: core.Outcome{Frame: core.Frame{
			TransactionID: 1, Length: 6, UnitID: 1, FunctionCode: 0x03,
		}},
	}
	if err := r.Report(context.Background(), rec); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	line := buf.String()
	for _, want := range []string{"#0", "12B", "decoded", "txn=1", "func=0x03", "read_holding_registers"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in output %q", want, line)
		}
	}
	if r.Reported() != 1 {
		t.Errorf("expected 1 reported, got %d", r.Reported())
	}
}

func TestReportTextFailed(t *testing.T) {
	var buf bytes.Buffer
	r := NewWithWriter(&buf, "text")

	rec := &core.Record{
		Index:   1,
		Size:    3,
		Outcome: core.Outcome{Err: &core.TruncatedError{Offset: 2, Needed: 2, Available: 1}},
	}
	if err := r.Report(context.Background(), rec); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "failed truncated") {
		t.Errorf("expected truncated failure in output %q", line)
	}
	if !strings.Contains(line, "offset 2") {
		t.Errorf("expected offset detail in output %q", line)
	}
}

func TestReportJSONDecoded(t *testing.T) {
	var buf bytes.Buffer
	r := NewWithWriter(&buf, "json")

	rec := &core.Record{
		Index:     0,
		Size:      12,
		Source:    "script:demo.yml",
		Timestamp: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Outcome: core.Outcome{Frame: core.Frame{
			TransactionID: 1, Length: 6, UnitID: 1, FunctionCode: 0x03,
		}},
		Labels:      core.Labels{core.LabelModbusPDU: "request"},
		PayloadType: "read_request",
		Payload:     map[string]any{"start_address": 0, "quantity": 10},
	}
	if err := r.Report(context.Background(), rec); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out["outcome"] != "decoded" {
		t.Errorf("expected outcome=decoded, got %v", out["outcome"])
	}
	if out["function"] != "read_holding_registers" {
		t.Errorf("expected function name, got %v", out["function"])
	}
	if out["source"] != "script:demo.yml" {
		t.Errorf("expected source annotation, got %v", out["source"])
	}
	if out["payload_type"] != "read_request" {
		t.Errorf("expected payload_type, got %v", out["payload_type"])
	}
	if _, ok := out["error"]; ok {
		t.Error("decoded record should not carry an error field")
	}
}

func TestReportJSONFailed(t *testing.T) {
	var buf bytes.Buffer
	r := NewWithWriter(&buf, "json")

	rec := &core.Record{
		Index:   2,
		Size:    8,
		Outcome: core.Outcome{Err: &core.ProtocolMismatchError{Found: 0xDEAD}},
	}
	if err := r.Report(context.Background(), rec); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out["outcome"] != "failed" {
		t.Errorf("expected outcome=failed, got %v", out["outcome"])
	}
	if out["error_kind"] != "protocol_mismatch" {
		t.Errorf("expected error_kind=protocol_mismatch, got %v", out["error_kind"])
	}
	if out["found"] != float64(0xDEAD) {
		t.Errorf("expected found=0xDEAD, got %v", out["found"])
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&core.TruncatedError{}, "truncated"},
		{&core.ProtocolMismatchError{}, "protocol_mismatch"},
		{&core.SourceError{}, "source_exhausted"},
		{context.Canceled, "error"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
