// Package reporter defines the report sink contract.
package reporter

import (
	"context"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

// Reporter receives per-frame records as the supervisor produces them.
// The supervisor never escalates a reporter error into a run failure;
// failures are logged and the run continues.
type Reporter interface {
	Name() string

	// Report renders one record. Called once per candidate frame, in
	// submission order, including the terminal source-failure record.
	Report(ctx context.Context, rec *core.Record) error

	// Flush is called once after the last record of a run.
	Flush(ctx context.Context) error

	Close() error
}
