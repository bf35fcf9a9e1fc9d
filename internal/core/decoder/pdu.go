// Package decoder implements Modbus/TCP frame decoding.
package decoder

import (
	"encoding/binary"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

// Supported function codes. The gateway is a read-only data conduit: only
// the two register-read codes are classified, everything else is rejected.
const (
	FuncReadHoldingRegisters = 0x03
	FuncReadInputRegisters   = 0x04
)

const (
	readRequestLen     = 4 // start address + quantity
	readResponseMinLen = 1 // byte count
)

// SupportedFunction reports whether the function code is one the gateway
// decodes.
func SupportedFunction(code uint8) bool {
	return code == FuncReadHoldingRegisters || code == FuncReadInputRegisters
}

// FunctionName returns a stable name for a function code, or "unknown".
func FunctionName(code uint8) string {
	switch code {
	case FuncReadHoldingRegisters:
		return "read_holding_registers"
	case FuncReadInputRegisters:
		return "read_input_registers"
	default:
		return "unknown"
	}
}

// ReadRequest is a parsed register-read request body (function 0x03/0x04).
type ReadRequest struct {
	StartAddress uint16
	Quantity     uint16
}

// ReadResponse is a parsed register-read response body (function 0x03/0x04).
type ReadResponse struct {
	ByteCount uint8
	Registers []uint16
}

// DecodeReadRequest decodes the 4-byte body of a register-read request:
// [start_address:2][quantity:2], big-endian. pdu is the bytes after the
// function code.
func DecodeReadRequest(pdu []byte) (ReadRequest, error) {
	if len(pdu) < readRequestLen {
		return ReadRequest{}, core.ErrPDUTooShort
	}
	return ReadRequest{
		StartAddress: binary.BigEndian.Uint16(pdu[0:2]),
		Quantity:     binary.BigEndian.Uint16(pdu[2:4]),
	}, nil
}

// DecodeReadResponse decodes a register-read response body:
// [byte_count:1][registers:N*2], big-endian. The declared byte count is
// cross-checked against the bytes actually present before any register read.
func DecodeReadResponse(pdu []byte) (ReadResponse, error) {
	if len(pdu) < readResponseMinLen {
		return ReadResponse{}, core.ErrPDUTooShort
	}

	byteCount := pdu[0]
	body := pdu[1:]
	if byteCount%2 != 0 || len(body) < int(byteCount) {
		return ReadResponse{}, core.ErrRegisterCountMismatch
	}

	registers := make([]uint16, 0, byteCount/2)
	for i := 0; i < int(byteCount); i += 2 {
		registers = append(registers, binary.BigEndian.Uint16(body[i:i+2]))
	}

	return ReadResponse{
		ByteCount: byteCount,
		Registers: registers,
	}, nil
}
