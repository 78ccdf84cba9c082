// Package capture implements the four output-consumption modes over a pane:
// one-shot capture, adaptive paged capture, bounded-iteration tail, and live
// streaming with heartbeats and delta chunks.
package capture

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// promptRegex picks out text typed after a shell prompt character.
var promptRegex = regexp.MustCompile(`[$#>] ([^\s].*)$`)

// DefaultCaptureLines is the one-shot capture window when the caller does
// not size it.
const DefaultCaptureLines = 200

// defaultBudgets is the paged-capture ladder: small first, growing until the
// capture covers the pane's history.
var defaultBudgets = []int{20, 100, 400}

// Engine drives captures through the tmux operations layer.
type Engine struct {
	Ops *tmux.Ops

	// HeartbeatInterval separates keep-alive chunks on quiet streams.
	HeartbeatInterval time.Duration
	// PollInterval is the default polling cadence for streams and tails.
	PollInterval time.Duration

	// OnChunk, when set, observes every emitted stream chunk. Used for
	// telemetry.
	OnChunk func(c Chunk)

	// pipeReader opens the byte source for the pipe regime. Overridable in
	// tests; the default opens the FIFO locally or an ssh cat remotely.
	pipeReader pipeReaderFunc
}

// NewEngine returns an Engine with the standard intervals.
func NewEngine(ops *tmux.Ops) *Engine {
	return &Engine{
		Ops:               ops,
		HeartbeatInterval: 5 * time.Second,
		PollInterval:      time.Second,
	}
}

// Result is a one-shot or paged capture outcome.
type Result struct {
	Target         tmux.PaneRef `json:"target"`
	Text           string       `json:"text"`
	RequestedLines int          `json:"requested_lines"`
	Truncated      bool         `json:"truncated"`

	// Paged-capture fields.
	HistorySize   int  `json:"history_size,omitempty"`
	PagesTried    int  `json:"pages_tried,omitempty"`
	MoreAvailable bool `json:"more_available,omitempty"`
}

// Capture reads the last lines of scrollback from the resolved pane.
func (e *Engine) Capture(ctx context.Context, ref tmux.PaneRef, lines int, strip bool) (Result, error) {
	if lines <= 0 {
		lines = DefaultCaptureLines
	}
	resolved, out, err := e.Ops.CapturePane(ctx, ref, -lines, nil)
	if err != nil {
		return Result{}, err
	}
	if strip {
		out = StripANSI(out)
	}
	return Result{
		Target:         resolved,
		Text:           out,
		RequestedLines: lines,
		Truncated:      lineCount(out) >= lines,
	}, nil
}

// CaptureHistory pages through growing line budgets until the capture
// covers the pane's history or the ladder is exhausted. It is the "give me
// enough output" mode for callers that do not want to guess a size.
func (e *Engine) CaptureHistory(ctx context.Context, ref tmux.PaneRef, budgets []int, strip bool) (Result, error) {
	resolved, pane, err := e.Ops.Resolver.Resolve(ref)
	if err != nil {
		return Result{}, err
	}
	if len(budgets) == 0 {
		budgets = defaultBudgets
	}
	historySize := e.Ops.HistorySize(ctx, resolved.Host, pane)

	var out string
	var requested, tried int
	for _, budget := range budgets {
		requested = budget
		tried++
		_, out, err = e.Ops.CapturePane(ctx, resolved, -budget, nil)
		if err != nil {
			return Result{}, err
		}
		if strip {
			out = StripANSI(out)
		}
		covered := historySize
		if budget < covered {
			covered = budget
		}
		if lineCount(out) >= covered || budget >= historySize {
			break
		}
	}
	return Result{
		Target:         resolved,
		Text:           out,
		RequestedLines: requested,
		HistorySize:    historySize,
		PagesTried:     tried,
		MoreAvailable:  historySize > requested,
	}, nil
}

// Tail performs iterations spaced one-shot captures and concatenates them
// with labelled section headers. Cancellation returns the partial buffer.
func (e *Engine) Tail(ctx context.Context, ref tmux.PaneRef, lines, iterations int, interval time.Duration, strip bool) (string, error) {
	if lines <= 0 {
		lines = 20
	}
	if iterations <= 0 {
		iterations = 1
	}
	if interval <= 0 {
		interval = e.PollInterval
	}

	var buf strings.Builder
	for i := 1; i <= iterations; i++ {
		res, err := e.Capture(ctx, ref, lines, strip)
		if err != nil {
			if ctx.Err() != nil {
				return buf.String(), tmux.ErrCanceled
			}
			return buf.String(), err
		}
		fmt.Fprintf(&buf, "--- tail iteration %d/%d ---\n%s\n", i, iterations, res.Text)
		if i == iterations {
			break
		}
		select {
		case <-ctx.Done():
			return buf.String(), tmux.ErrCanceled
		case <-time.After(interval):
		}
	}
	return buf.String(), nil
}

// RecentCommands extracts what look like recently entered shell commands
// from captured text. Best-effort only: a prompt heuristic, not a contract.
func RecentCommands(text string) []string {
	const keep = 15
	var cmds []string
	for _, line := range strings.Split(text, "\n") {
		if m := promptRegex.FindStringSubmatch(line); m != nil {
			cmds = append(cmds, m[1])
		}
	}
	if len(cmds) > keep {
		cmds = cmds[len(cmds)-keep:]
	}
	return cmds
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
