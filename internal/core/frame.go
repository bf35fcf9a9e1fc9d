// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawFrame is one candidate Modbus/TCP frame as handed over by a frame
// source. Data is owned by the caller for the duration of one decode call;
// decoded values never retain a reference to it.
type RawFrame struct {
	Data      []byte    // Raw frame bytes, any length including empty
	Timestamp time.Time // Acquisition timestamp (capture timestamp preferred)
	Source    string    // Origin annotation, e.g. "pcap:plant.pcap" or "script:demo.yml"
}

// Frame is the validated 8-byte MBAP prefix of a Modbus/TCP message.
// It exists only if the source bytes contained at least 8 bytes and is a
// fully owned, self-contained value.
type Frame struct {
	TransactionID uint16 // Echoed by the server for request/response matching
	ProtocolID    uint16 // 0x0000 for Modbus
	Length        uint16 // Declared bytes following the 6-byte MBAP header (unit id + PDU)
	UnitID        uint8  // Slave address
	FunctionCode  uint8
}

// Outcome is the tagged per-frame decode result: exactly one of a decoded
// Frame (Err == nil) or a decode error (Frame is the zero value).
type Outcome struct {
	Frame Frame
	Err   error
}

// OK reports whether the frame decoded successfully.
func (o Outcome) OK() bool { return o.Err == nil }

// Record is one entry of a Report: the outcome for the candidate frame at
// Index in submission order. Labels carry parser annotations for decoded
// frames (advisory length mismatch, PDU fields).
type Record struct {
	Index     int
	Size      int    // Candidate frame size in bytes
	Source    string // Origin annotation from the frame source
	Timestamp time.Time
	Outcome   Outcome
	Labels    Labels

	// Typed payload from PDU parsing, when the frame decoded and the PDU
	// body was parseable. Concrete type determined by PayloadType; reporters
	// do type assertion.
	PayloadType string // e.g. "read_request", "read_response"
	Payload     any
}

// Report is the ordered result of one supervisor run, one Record per
// submitted candidate frame. A run that ends because the source itself
// failed carries a final Record whose outcome error is a *SourceError.
// Reports are never mutated after the run completes.
type Report struct {
	Records []Record
}

// Decoded returns the number of successfully decoded frames.
func (r *Report) Decoded() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Outcome.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of frames that failed to decode, not counting a
// terminal source failure.
func (r *Report) Failed() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.Outcome.OK() && !IsSourceExhausted(rec.Outcome.Err) {
			n++
		}
	}
	return n
}

// Exhausted reports whether the run was terminated by a source failure.
func (r *Report) Exhausted() bool {
	if len(r.Records) == 0 {
		return false
	}
	return IsSourceExhausted(r.Records[len(r.Records)-1].Outcome.Err)
}
