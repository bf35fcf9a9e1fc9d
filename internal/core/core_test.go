package core

import (
	"errors"
	"io"
	"testing"
)

// Test zero values of core structs
func TestStructZeroValues(t *testing.T) {
	t.Run("RawFrame", func(t *testing.T) {
		var raw RawFrame
		if raw.Data != nil {
			t.Errorf("expected Data=nil, got %v", raw.Data)
		}
		if !raw.Timestamp.IsZero() {
			t.Errorf("expected zero Timestamp, got %v", raw.Timestamp)
		}
	})

	t.Run("Frame", func(t *testing.T) {
		var f Frame
		if f.TransactionID != 0 || f.ProtocolID != 0 || f.Length != 0 {
			t.Errorf("expected zero header fields, got %+v", f)
		}
	})

	t.Run("Outcome", func(t *testing.T) {
		var o Outcome
		if !o.OK() {
			t.Error("zero Outcome should report OK")
		}
	})

	t.Run("Report", func(t *testing.T) {
		var r Report
		if r.Decoded() != 0 || r.Failed() != 0 || r.Exhausted() {
			t.Errorf("expected empty report counts, got decoded=%d failed=%d", r.Decoded(), r.Failed())
		}
	})
}

func TestTruncatedErrorMatching(t *testing.T) {
	err := error(&TruncatedError{Offset: 4, Needed: 2, Available: 1})

	if !errors.Is(err, ErrFrameTooShort) {
		t.Error("TruncatedError should match ErrFrameTooShort")
	}
	if errors.Is(err, ErrProtocolMismatch) {
		t.Error("TruncatedError should not match ErrProtocolMismatch")
	}

	var trunc *TruncatedError
	if !errors.As(err, &trunc) {
		t.Fatal("errors.As should extract *TruncatedError")
	}
	if trunc.Offset != 4 || trunc.Needed != 2 || trunc.Available != 1 {
		t.Errorf("unexpected fields: %+v", trunc)
	}
}

func TestProtocolMismatchErrorMatching(t *testing.T) {
	err := error(&ProtocolMismatchError{Found: 0xDEAD})

	if !errors.Is(err, ErrProtocolMismatch) {
		t.Error("ProtocolMismatchError should match ErrProtocolMismatch")
	}

	var pm *ProtocolMismatchError
	if !errors.As(err, &pm) {
		t.Fatal("errors.As should extract *ProtocolMismatchError")
	}
	if pm.Found != 0xDEAD {
		t.Errorf("expected Found=0xDEAD, got 0x%04X", pm.Found)
	}
}

func TestSourceErrorMatching(t *testing.T) {
	cause := errors.New("read failed")
	err := error(&SourceError{Cause: cause})

	if !errors.Is(err, ErrSourceExhausted) {
		t.Error("SourceError should match ErrSourceExhausted")
	}
	if !errors.Is(err, cause) {
		t.Error("SourceError should unwrap to its cause")
	}
	if !IsSourceExhausted(err) {
		t.Error("IsSourceExhausted should report true")
	}
	if IsSourceExhausted(io.EOF) {
		t.Error("IsSourceExhausted should not match io.EOF")
	}
	if IsSourceExhausted(nil) {
		t.Error("IsSourceExhausted should not match nil")
	}
}

func TestReportCounts(t *testing.T) {
	r := Report{Records: []Record{
		{Index: 0, Outcome: Outcome{Frame: Frame{TransactionID: 1}}},
		{Index: 1, Outcome: Outcome{Err: &TruncatedError{Offset: 0, Needed: 2}}},
		{Index: 2, Outcome: Outcome{Frame: Frame{TransactionID: 2}}},
		{Index: 3, Outcome: Outcome{Err: &SourceError{Cause: errors.New("transport gone")}}},
	}}

	if got := r.Decoded(); got != 2 {
		t.Errorf("expected 2 decoded, got %d", got)
	}
	if got := r.Failed(); got != 1 {
		t.Errorf("expected 1 failed (source failure excluded), got %d", got)
	}
	if !r.Exhausted() {
		t.Error("report ending in SourceError should be exhausted")
	}
}
