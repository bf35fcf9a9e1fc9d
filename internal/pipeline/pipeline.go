// Package pipeline implements the frame processing supervisor.
//
// The supervisor drives the decoder over a frame source and guarantees
// forward progress: a decode failure is captured as a report entry and the
// loop continues to the next frame unconditionally. The only early stop
// besides cancellation is the source itself failing to yield a frame, which
// is recorded as a terminal entry, not raised.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/core/decoder"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/log"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/source"
)

// Pipeline supervises one run over one frame source. Independent pipelines
// may run concurrently; a single pipeline processes its source sequentially
// so report indices match submission order.
type Pipeline struct {
	source    source.Source
	reporters []reporter.Reporter
	opts      decoder.Options
	metrics   *Metrics
}

// Config contains pipeline configuration.
type Config struct {
	Source    source.Source
	Reporters []reporter.Reporter
	Decoder   decoder.Options
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		source:    cfg.Source,
		reporters: cfg.Reporters,
		opts:      cfg.Decoder,
		metrics:   NewMetrics(),
	}
}

// Run processes the source to completion and returns the full report.
//
// Cancellation is honored between frames only: every frame already pulled
// from the source gets its report entry, and the partial report is returned
// intact together with ctx.Err(). Reporter failures are logged, never
// escalated.
func (p *Pipeline) Run(ctx context.Context) (core.Report, error) {
	logger := log.GetLogger()
	report := core.Report{}

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			p.flush(ctx)
			return report, ctx.Err()
		default:
		}

		raw, err := p.source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The source could not yield frame i. Record the failure at the
			// index the frame would have had and end the run.
			rec := core.Record{
				Index:   i,
				Source:  raw.Source,
				Outcome: core.Outcome{Err: &core.SourceError{Cause: err}},
			}
			p.metrics.RecordError(rec.Outcome.Err.Error())
			logger.WithError(err).Warn("frame source exhausted, ending run")
			p.report(ctx, &rec)
			report.Records = append(report.Records, rec)
			break
		}

		rec := p.processFrame(i, raw)
		p.report(ctx, &rec)
		report.Records = append(report.Records, rec)
	}

	p.flush(ctx)
	return report, nil
}

// processFrame decodes a single candidate frame into a report record.
func (p *Pipeline) processFrame(index int, raw core.RawFrame) core.Record {
	p.metrics.Received.Add(1)
	p.metrics.BytesIn.Add(uint64(len(raw.Data)))

	rec := core.Record{
		Index:     index,
		Size:      len(raw.Data),
		Source:    raw.Source,
		Timestamp: raw.Timestamp,
		Outcome:   decoder.Decode(raw.Data, p.opts),
	}

	if !rec.Outcome.OK() {
		p.metrics.DecodeErrors.Add(1)
		p.metrics.RecordError(rec.Outcome.Err.Error())
		log.GetLogger().
			WithField("index", strconv.Itoa(index)).
			WithError(rec.Outcome.Err).
			Debug("frame decode failed")
		return rec
	}

	p.metrics.Decoded.Add(1)
	p.annotate(&rec, raw.Data)
	return rec
}

// annotate enriches a decoded record with advisory-length and PDU metadata.
// Enrichment never downgrades the outcome: the MBAP prefix already decoded,
// and the PDU body is caller-side metadata by contract.
func (p *Pipeline) annotate(rec *core.Record, data []byte) {
	frame := rec.Outcome.Frame
	labels := core.Labels{
		core.LabelModbusFunction: decoder.FunctionName(frame.FunctionCode),
	}

	if decoder.LengthMismatch(frame, data) {
		labels[core.LabelModbusLengthMismatch] = "true"
	}

	if decoder.SupportedFunction(frame.FunctionCode) {
		p.parsePDU(rec, frame, decoder.PDU(data), labels)
	}

	rec.Labels = labels
}

// parsePDU attempts to parse the PDU body of a register-read frame.
// A 4-byte body is a read request; anything else is tried as a read
// response. Unparseable bodies are labeled, not failed.
func (p *Pipeline) parsePDU(rec *core.Record, frame core.Frame, pdu []byte, labels core.Labels) {
	if len(pdu) == 0 {
		return
	}

	if len(pdu) == 4 {
		req, err := decoder.DecodeReadRequest(pdu)
		if err == nil {
			p.metrics.PDUParsed.Add(1)
			labels[core.LabelModbusPDU] = "request"
			labels[core.LabelModbusStartAddress] = strconv.Itoa(int(req.StartAddress))
			labels[core.LabelModbusQuantity] = strconv.Itoa(int(req.Quantity))
			rec.PayloadType = "read_request"
			rec.Payload = req
			return
		}
	}

	resp, err := decoder.DecodeReadResponse(pdu)
	if err != nil {
		labels[core.LabelModbusPDU] = "unparsed"
		return
	}

	p.metrics.PDUParsed.Add(1)
	labels[core.LabelModbusPDU] = "response"
	labels[core.LabelModbusRegisterCount] = strconv.Itoa(len(resp.Registers))
	rec.PayloadType = "read_response"
	rec.Payload = resp
}

// report forwards one record to every reporter.
func (p *Pipeline) report(ctx context.Context, rec *core.Record) {
	for _, r := range p.reporters {
		if err := r.Report(ctx, rec); err != nil {
			p.metrics.ReportErrors.Add(1)
			log.GetLogger().
				WithField("reporter", r.Name()).
				WithError(err).
				Error("reporter failed")
			continue
		}
	}
	p.metrics.Reported.Add(1)
}

// flush flushes all reporters at the end of a run.
func (p *Pipeline) flush(ctx context.Context) {
	for _, r := range p.reporters {
		if err := r.Flush(ctx); err != nil {
			log.GetLogger().
				WithField("reporter", r.Name()).
				WithError(err).
				Error("reporter flush failed")
		}
	}
}

// Stats returns a snapshot of the run metrics.
func (p *Pipeline) Stats() Stats {
	return p.metrics.Snapshot()
}

// FormatStats renders a stats snapshot as a single summary line.
func FormatStats(s Stats) string {
	line := fmt.Sprintf("frames=%d decoded=%d invalid=%d pdu_parsed=%d bytes_in=%d",
		s.Received, s.Decoded, s.DecodeErrors, s.PDUParsed, s.BytesIn)
	if s.LastError != "" {
		line += " last_error=" + strconv.Quote(s.LastError)
	}
	return line
}
