// Package core defines sentinel and typed errors.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	// Frame decoding errors
	ErrFrameTooShort    = errors.New("gateway: frame too short")
	ErrProtocolMismatch = errors.New("gateway: protocol id mismatch")

	// PDU decoding errors
	ErrPDUTooShort           = errors.New("gateway: pdu too short")
	ErrUnsupportedFunction   = errors.New("gateway: unsupported function code")
	ErrRegisterCountMismatch = errors.New("gateway: register byte count mismatch")

	// Frame source errors
	ErrSourceExhausted = errors.New("gateway: frame source exhausted")

	// Configuration errors
	ErrConfigInvalid = errors.New("gateway: invalid configuration")
)

// TruncatedError reports a frame that ended before a required field boundary.
// Offset is the byte position of the field that could not be read, Needed the
// field width, Available how many bytes remained from Offset.
type TruncatedError struct {
	Offset    int
	Needed    int
	Available int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("gateway: frame too short: need %d byte(s) at offset %d, have %d",
		e.Needed, e.Offset, e.Available)
}

// Is lets errors.Is(err, ErrFrameTooShort) match any truncation.
func (e *TruncatedError) Is(target error) bool {
	return target == ErrFrameTooShort
}

// ProtocolMismatchError reports a non-zero MBAP protocol id when enforcement
// is enabled.
type ProtocolMismatchError struct {
	Found uint16
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("gateway: protocol id mismatch: expected 0x0000, found 0x%04X", e.Found)
}

func (e *ProtocolMismatchError) Is(target error) bool {
	return target == ErrProtocolMismatch
}

// SourceError reports that the frame source failed to yield the next
// candidate frame. It terminates a supervisor run after all prior results
// have been flushed.
type SourceError struct {
	Cause error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("gateway: frame source exhausted: %v", e.Cause)
}

func (e *SourceError) Unwrap() error { return e.Cause }

func (e *SourceError) Is(target error) bool {
	return target == ErrSourceExhausted
}

// IsSourceExhausted reports whether err marks a terminal source failure.
func IsSourceExhausted(err error) bool {
	return err != nil && errors.Is(err, ErrSourceExhausted)
}
