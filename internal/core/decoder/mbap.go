// Package decoder implements Modbus/TCP frame decoding.
//
// Wire format of the fixed prefix this decoder validates:
//
//	offset 0: transaction id (2 bytes, big-endian)
//	offset 2: protocol id    (2 bytes, big-endian, 0x0000 for Modbus)
//	offset 4: length         (2 bytes, big-endian, bytes after the MBAP header)
//	offset 6: unit id        (1 byte)
//	offset 7: function code  (1 byte, first PDU byte)
//
// Every field read is preceded by an explicit length check covering that
// read, so arbitrary input can never index past the buffer. Decoding is pure
// and allocation-free; independent inputs may be decoded concurrently.
package decoder

import (
	"encoding/binary"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

const (
	// MBAP constants
	mbapHeaderLen  = 7 // transaction id + protocol id + length + unit id
	fixedPrefixLen = 8 // MBAP header + function code

	modbusProtocolID = 0x0000
)

// Options controls decode policy.
type Options struct {
	// EnforceProtocolID downgrades frames whose protocol id is not 0x0000
	// from decoded to failed. Off by default: protocol id enforcement is a
	// policy choice left to the caller.
	EnforceProtocolID bool
}

// DecodeMBAP decodes the 8-byte fixed prefix of a Modbus/TCP frame.
// Checks run strictly left-to-right; the first unsatisfiable field determines
// the returned *core.TruncatedError.
//
// The length field is advisory metadata describing the rest of the frame.
// This decoder does not consume the PDU body, so a length declaring more
// bytes than are present still yields a decoded frame; cross-checking length
// against the actual remainder is the caller's responsibility if it intends
// to read the PDU.
func DecodeMBAP(data []byte, opts Options) (core.Frame, error) {
	// Transaction ID (2 bytes at offset 0)
	if len(data) < 2 {
		return core.Frame{}, &core.TruncatedError{Offset: 0, Needed: 2, Available: len(data)}
	}

	// Protocol ID (2 bytes at offset 2)
	if len(data) < 4 {
		return core.Frame{}, &core.TruncatedError{Offset: 2, Needed: 2, Available: len(data) - 2}
	}

	// Length (2 bytes at offset 4)
	if len(data) < 6 {
		return core.Frame{}, &core.TruncatedError{Offset: 4, Needed: 2, Available: len(data) - 4}
	}

	// Unit ID (1 byte at offset 6)
	if len(data) < 7 {
		return core.Frame{}, &core.TruncatedError{Offset: 6, Needed: 1, Available: 0}
	}

	// Function code (1 byte at offset 7)
	if len(data) < fixedPrefixLen {
		return core.Frame{}, &core.TruncatedError{Offset: 7, Needed: 1, Available: 0}
	}

	frame := core.Frame{
		TransactionID: binary.BigEndian.Uint16(data[0:2]),
		ProtocolID:    binary.BigEndian.Uint16(data[2:4]),
		Length:        binary.BigEndian.Uint16(data[4:6]),
		UnitID:        data[6],
		FunctionCode:  data[7],
	}

	if opts.EnforceProtocolID && frame.ProtocolID != modbusProtocolID {
		return core.Frame{}, &core.ProtocolMismatchError{Found: frame.ProtocolID}
	}

	return frame, nil
}

// Decode wraps DecodeMBAP into a tagged outcome. The only observable results
// are the two Outcome variants; no input can make it fault.
func Decode(data []byte, opts Options) core.Outcome {
	frame, err := DecodeMBAP(data, opts)
	if err != nil {
		return core.Outcome{Err: err}
	}
	return core.Outcome{Frame: frame}
}

// PDU returns the PDU body following the fixed prefix: the bytes after the
// function code. Empty for a frame that carried only the 8-byte prefix.
func PDU(data []byte) []byte {
	if len(data) <= fixedPrefixLen {
		return nil
	}
	return data[fixedPrefixLen:]
}

// LengthMismatch reports whether the advisory MBAP length declares more
// bytes after the header than data actually carries. The declared length
// covers unit id + PDU, so the actual count is len(data) - mbapHeaderLen.
func LengthMismatch(frame core.Frame, data []byte) bool {
	if len(data) < mbapHeaderLen {
		return false
	}
	return int(frame.Length) > len(data)-mbapHeaderLen
}
