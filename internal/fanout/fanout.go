// Package fanout runs one logical request against many targets
// concurrently, aggregating per-target results without failing the whole
// call on a single-target error.
package fanout

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/k8ika0s/mcp-tmux/internal/capture"
	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// Mode selects the per-target read performed after the keys are sent.
type Mode string

const (
	// ModeSendCapture sends keys then takes a one-shot capture.
	ModeSendCapture Mode = "send_capture"
	// ModeTail sends keys then runs a bounded tail.
	ModeTail Mode = "tail"
	// ModePattern sends keys then tests a capture against a regexp.
	ModePattern Mode = "pattern"
)

// TargetSpec addresses one fan-out target, with optional per-target keys
// overriding the request-level keys.
type TargetSpec struct {
	Target tmux.PaneRef `json:"target"`
	Keys   *string      `json:"keys,omitempty"`
}

// Request is a full fan-out invocation.
type Request struct {
	Targets []TargetSpec
	Mode    Mode

	Keys    string
	Enter   bool
	DelayMs int

	// ModeSendCapture / ModePattern
	CaptureLines int
	StripANSI    bool

	// ModeTail
	TailLines      int
	TailIterations int
	TailIntervalMs int

	// ModePattern
	Pattern      string
	PatternFlags string
}

// Result is one target's outcome. Exactly one of Output/Error is
// meaningful; Matched is set only in pattern mode.
type Result struct {
	Host    string `json:"host,omitempty"`
	Target  string `json:"target"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
	Matched *bool  `json:"matched,omitempty"`
}

// Response aggregates all target results in input order plus a summary.
type Response struct {
	Results []Result `json:"results"`
	Summary string   `json:"summary"`
}

// Coordinator dispatches fan-out requests.
type Coordinator struct {
	Ops    *tmux.Ops
	Engine *capture.Engine
}

// Run dispatches all targets concurrently and waits for every one of them.
// Cancellation propagates through ctx to the in-flight operations.
func (c *Coordinator) Run(ctx context.Context, req Request) (Response, error) {
	if req.Mode == "" {
		req.Mode = ModeSendCapture
	}
	var pattern *regexp.Regexp
	if req.Mode == ModePattern {
		expr := req.Pattern
		if req.PatternFlags != "" {
			expr = "(?" + req.PatternFlags + ")" + expr
		}
		var err error
		pattern, err = regexp.Compile(expr)
		if err != nil {
			return Response{}, fmt.Errorf("invalid pattern %q: %w", req.Pattern, err)
		}
	}

	results := make([]Result, len(req.Targets))
	var wg sync.WaitGroup
	for i, spec := range req.Targets {
		wg.Add(1)
		go func(i int, spec TargetSpec) {
			defer wg.Done()
			results[i] = c.runOne(ctx, req, spec, pattern)
		}(i, spec)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Error == "" {
			succeeded++
		}
	}
	failed := len(results) - succeeded
	return Response{
		Results: results,
		Summary: fmt.Sprintf("%d succeeded, %d failed", succeeded, failed),
	}, nil
}

func (c *Coordinator) runOne(ctx context.Context, req Request, spec TargetSpec, pattern *regexp.Regexp) Result {
	resolved, paneToken, err := c.Ops.Resolver.Resolve(spec.Target)
	res := Result{Host: spec.Target.Host, Target: targetLabel(spec.Target)}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Host = resolved.Host
	res.Target = paneToken

	keys := req.Keys
	if spec.Keys != nil {
		keys = *spec.Keys
	}
	if keys != "" || req.Enter {
		if _, err := c.Ops.SendKeys(ctx, resolved, keys, req.Enter); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	if req.DelayMs > 0 {
		select {
		case <-ctx.Done():
			res.Error = tmux.ErrCanceled.Error()
			return res
		case <-time.After(time.Duration(req.DelayMs) * time.Millisecond):
		}
	}

	switch req.Mode {
	case ModeTail:
		out, err := c.Engine.Tail(ctx, resolved, req.TailLines, req.TailIterations,
			time.Duration(req.TailIntervalMs)*time.Millisecond, req.StripANSI)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Output = out
	case ModePattern:
		cap, err := c.Engine.Capture(ctx, resolved, req.CaptureLines, req.StripANSI)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		matched := pattern.MatchString(cap.Text)
		res.Output = cap.Text
		res.Matched = &matched
	default:
		cap, err := c.Engine.Capture(ctx, resolved, req.CaptureLines, req.StripANSI)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Output = cap.Text
	}
	return res
}

// targetLabel renders an unresolved target for error rows.
func targetLabel(ref tmux.PaneRef) string {
	switch {
	case ref.Pane != "":
		return ref.Pane
	case ref.Session != "" && ref.Window != "":
		return ref.Session + ":" + ref.Window
	case ref.Session != "":
		return ref.Session
	default:
		return "(unresolved)"
	}
}
