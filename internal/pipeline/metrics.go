// Package pipeline implements run metrics.
package pipeline

import (
	"sync/atomic"
)

// Metrics contains per-run counters.
type Metrics struct {
	// Frame counters (using atomic for thread-safety)
	Received     atomic.Uint64
	Decoded      atomic.Uint64
	DecodeErrors atomic.Uint64
	PDUParsed    atomic.Uint64
	Reported     atomic.Uint64
	ReportErrors atomic.Uint64
	BytesIn      atomic.Uint64

	lastError atomic.Value // string
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordError stores the most recent decode or source error message.
func (m *Metrics) RecordError(msg string) {
	m.lastError.Store(msg)
}

// LastError returns the most recent error message, empty if none.
func (m *Metrics) LastError() string {
	if v := m.lastError.Load(); v != nil {
		return v.(string)
	}
	return ""
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Received.Store(0)
	m.Decoded.Store(0)
	m.DecodeErrors.Store(0)
	m.PDUParsed.Store(0)
	m.Reported.Store(0)
	m.ReportErrors.Store(0)
	m.BytesIn.Store(0)
	m.lastError.Store("")
}

// Stats represents a metrics snapshot.
type Stats struct {
	Received     uint64
	Decoded      uint64
	DecodeErrors uint64
	PDUParsed    uint64
	Reported     uint64
	ReportErrors uint64
	BytesIn      uint64
	LastError    string
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Received:     m.Received.Load(),
		Decoded:      m.Decoded.Load(),
		DecodeErrors: m.DecodeErrors.Load(),
		PDUParsed:    m.PDUParsed.Load(),
		Reported:     m.Reported.Load(),
		ReportErrors: m.ReportErrors.Load(),
		BytesIn:      m.BytesIn.Load(),
		LastError:    m.LastError(),
	}
}
