package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "mcp-tmux"

// Metrics holds all metric instruments. Counters are cumulative and safe
// for concurrent use.
type Metrics struct {
	Runs          metric.Int64Counter
	RunFailures   metric.Int64Counter
	RunDuration   metric.Float64Histogram
	StreamChunks  metric.Int64Counter
	FanoutTargets metric.Int64Counter
}

// NewMetrics creates all instruments. With no MeterProvider registered the
// instruments are no-ops, so this is safe to call unconditionally.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Runs, err = meter.Int64Counter("tmux.runs",
		metric.WithDescription("Total tmux subprocess invocations"))
	if err != nil {
		return nil, err
	}

	m.RunFailures, err = meter.Int64Counter("tmux.run_failures",
		metric.WithDescription("tmux invocations that failed, timed out, or were canceled"))
	if err != nil {
		return nil, err
	}

	m.RunDuration, err = meter.Float64Histogram("tmux.run_duration",
		metric.WithDescription("Wall-clock duration of tmux invocations"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	m.StreamChunks, err = meter.Int64Counter("stream.chunks",
		metric.WithDescription("Pane chunks emitted across all streams"))
	if err != nil {
		return nil, err
	}

	m.FanoutTargets, err = meter.Int64Counter("fanout.targets",
		metric.WithDescription("Per-target fan-out dispatches"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRun observes one transport invocation.
func (m *Metrics) RecordRun(host string, d time.Duration, err error) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.Bool("remote", host != ""))
	m.Runs.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, float64(d.Milliseconds()), attrs)
	if err != nil {
		m.RunFailures.Add(ctx, 1, attrs)
	}
}
