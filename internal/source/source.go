// Package source defines the candidate frame source contract.
package source

import "github.com/gammahazard/protocol-gateway-sandbox/internal/core"

// Source yields candidate Modbus/TCP frames one at a time, in order.
//
// Next returns io.EOF when the source is cleanly drained. Any other error
// means the source itself failed to produce the next frame; the supervisor
// records that as a terminal source failure and ends the run.
type Source interface {
	Next() (core.RawFrame, error)
	Close() error
}
