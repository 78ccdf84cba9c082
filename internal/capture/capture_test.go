package capture

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// scriptedRunner dispatches on the verb, with a per-call hook for tests
// that need call-by-call behavior.
type scriptedRunner struct {
	calls  [][]string
	handle func(args []string) (string, error)
}

func (s *scriptedRunner) run(_ context.Context, host, bin string, pathAdd, args []string) (string, error) {
	s.calls = append(s.calls, args)
	return s.handle(args)
}

func newTestEngine(r *scriptedRunner) *Engine {
	c := tmux.NewClient("tmux", nil, time.Second)
	c.Runner = r.run
	e := NewEngine(&tmux.Ops{Client: c, Resolver: &tmux.Resolver{}})
	e.HeartbeatInterval = time.Hour // keep heartbeats out of deterministic tests
	return e
}

func TestCaptureDefaults(t *testing.T) {
	r := &scriptedRunner{handle: func(args []string) (string, error) {
		return "hello", nil
	}}
	e := newTestEngine(r)
	res, err := e.Capture(context.Background(), tmux.PaneRef{Session: "s"}, 0, false)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.RequestedLines != DefaultCaptureLines {
		t.Errorf("requested = %d, want %d", res.RequestedLines, DefaultCaptureLines)
	}
	if got := r.calls[0]; got[4] != "-S" || got[5] != "-200" {
		t.Errorf("argv = %v, want -S -200", got)
	}
	if res.Truncated {
		t.Error("one-line capture reported truncated")
	}
}

func TestCaptureHistoryPages(t *testing.T) {
	// History of 250 lines; each capture comes back a few lines short of
	// its budget, so the ladder climbs until the budget exceeds history.
	r := &scriptedRunner{}
	r.handle = func(args []string) (string, error) {
		switch args[0] {
		case "display-message":
			return "250", nil
		case "capture-pane":
			var lines int
			fmt.Sscanf(args[5], "-%d", &lines)
			if lines > 250 {
				lines = 250
			}
			lines -= 5
			return strings.Repeat("x\n", lines-1) + "x", nil
		}
		return "", nil
	}
	e := newTestEngine(r)
	res, err := e.CaptureHistory(context.Background(), tmux.PaneRef{Session: "s"}, nil, false)
	if err != nil {
		t.Fatalf("CaptureHistory: %v", err)
	}
	if res.HistorySize != 250 {
		t.Errorf("history = %d, want 250", res.HistorySize)
	}
	if res.RequestedLines != 400 {
		t.Errorf("requested = %d, want 400", res.RequestedLines)
	}
	if res.PagesTried != 3 {
		t.Errorf("pages tried = %d, want 3", res.PagesTried)
	}
	if res.MoreAvailable {
		t.Error("more available = true, want false (400 >= 250)")
	}
}

func TestCaptureHistoryStopsEarlyWhenCovered(t *testing.T) {
	// Tiny history: the first budget already covers it.
	r := &scriptedRunner{}
	r.handle = func(args []string) (string, error) {
		switch args[0] {
		case "display-message":
			return "5", nil
		case "capture-pane":
			return "a\nb\nc\nd\ne", nil
		}
		return "", nil
	}
	e := newTestEngine(r)
	res, err := e.CaptureHistory(context.Background(), tmux.PaneRef{Session: "s"}, nil, false)
	if err != nil {
		t.Fatalf("CaptureHistory: %v", err)
	}
	if res.PagesTried != 1 {
		t.Errorf("pages tried = %d, want 1", res.PagesTried)
	}
	if res.RequestedLines != 20 {
		t.Errorf("requested = %d, want 20", res.RequestedLines)
	}
}

func TestCaptureHistoryZeroHistory(t *testing.T) {
	r := &scriptedRunner{}
	r.handle = func(args []string) (string, error) {
		switch args[0] {
		case "display-message":
			return "", fmt.Errorf("no such pane")
		case "capture-pane":
			return "prompt $", nil
		}
		return "", nil
	}
	e := newTestEngine(r)
	res, err := e.CaptureHistory(context.Background(), tmux.PaneRef{Session: "s"}, nil, false)
	if err != nil {
		t.Fatalf("CaptureHistory: %v", err)
	}
	if res.HistorySize != 0 || res.PagesTried != 1 || res.MoreAvailable {
		t.Errorf("result = %+v, want single page over empty history", res)
	}
}

func TestTailSections(t *testing.T) {
	call := 0
	r := &scriptedRunner{}
	r.handle = func(args []string) (string, error) {
		call++
		return fmt.Sprintf("capture-%d", call), nil
	}
	e := newTestEngine(r)
	out, err := e.Tail(context.Background(), tmux.PaneRef{Session: "s"}, 10, 3, time.Millisecond, false)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	for i := 1; i <= 3; i++ {
		label := fmt.Sprintf("--- tail iteration %d/3 ---", i)
		if !strings.Contains(out, label) {
			t.Errorf("output missing %q", label)
		}
	}
	if !strings.Contains(out, "capture-3") {
		t.Errorf("output missing last capture: %q", out)
	}
}

func TestTailCancellationReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	call := 0
	r := &scriptedRunner{}
	r.handle = func(args []string) (string, error) {
		call++
		if call == 2 {
			cancel()
		}
		return "data", nil
	}
	e := newTestEngine(r)
	out, err := e.Tail(ctx, tmux.PaneRef{Session: "s"}, 10, 5, time.Millisecond, false)
	if err != tmux.ErrCanceled {
		t.Fatalf("err = %v, want ErrCanceled", err)
	}
	if !strings.Contains(out, "--- tail iteration 1/5 ---") {
		t.Errorf("partial output missing first section: %q", out)
	}
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m plain \x1b]0;title\x07tail"
	got := StripANSI(in)
	if strings.Contains(got, "\x1b[") {
		t.Errorf("CSI sequences survived: %q", got)
	}
	if !strings.Contains(got, "red") || !strings.Contains(got, "plain") {
		t.Errorf("text content lost: %q", got)
	}
}

func TestRecentCommands(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "user@box:~ $ command-%d\noutput %d\n", i, i)
	}
	cmds := RecentCommands(b.String())
	if len(cmds) != 15 {
		t.Fatalf("len = %d, want 15", len(cmds))
	}
	if cmds[0] != "command-5" || cmds[14] != "command-19" {
		t.Errorf("window = [%s .. %s], want [command-5 .. command-19]", cmds[0], cmds[14])
	}
}
