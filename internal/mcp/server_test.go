package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/k8ika0s/mcp-tmux/internal/config"
	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// recordingRunner captures every argv and serves canned responses or errors
// keyed by verb.
type recordingRunner struct {
	calls     [][]string
	hosts     []string
	responses map[string]string
	errs      map[string]error
}

func (r *recordingRunner) run(_ context.Context, host, bin string, pathAdd, args []string) (string, error) {
	r.calls = append(r.calls, args)
	r.hosts = append(r.hosts, host)
	if err, ok := r.errs[args[0]]; ok {
		return "", err
	}
	return r.responses[args[0]], nil
}

func (r *recordingRunner) verbs() []string {
	var verbs []string
	for _, c := range r.calls {
		verbs = append(verbs, c[0])
	}
	return verbs
}

func newTestServer(t *testing.T, r *recordingRunner) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.HostsFile = ""
	cfg.DefaultsFile = filepath.Join(dir, "defaults.json")
	cfg.LayoutsFile = filepath.Join(dir, "layouts.yaml")
	cfg.LogDir = filepath.Join(dir, "logs")

	s, err := NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	s.client.Runner = r.run
	return s
}

func TestOpenSessionCreates(t *testing.T) {
	r := &recordingRunner{errs: map[string]error{
		"has-session": &tmux.TransportError{ExitCode: 1, Err: fmt.Errorf("exit 1")},
	}}
	s := newTestServer(t, r)

	_, out, err := s.handleOpenSession(context.Background(), nil, OpenSessionInput{Host: "h1", Session: "s"})
	if err != nil {
		t.Fatalf("handleOpenSession: %v", err)
	}

	verbs := r.verbs()
	if len(verbs) != 2 || verbs[0] != "has-session" || verbs[1] != "new-session" {
		t.Fatalf("verbs = %v, want [has-session new-session]", verbs)
	}
	if got := r.calls[0]; got[1] != "-t" || got[2] != "s" {
		t.Errorf("has-session argv = %v", got)
	}
	if got := r.calls[1]; got[1] != "-d" || got[2] != "-s" || got[3] != "s" {
		t.Errorf("new-session argv = %v", got)
	}
	if r.hosts[1] != "h1" {
		t.Errorf("new-session host = %q, want h1", r.hosts[1])
	}

	if !strings.Contains(out.Text, "Created remote session s on h1") {
		t.Errorf("reply = %q", out.Text)
	}

	def := s.registry.Get()
	if def.Host != "h1" || def.Session != "s" {
		t.Errorf("defaults = %+v, want host h1 session s", def)
	}
}

func TestOpenSessionExisting(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)

	_, out, err := s.handleOpenSession(context.Background(), nil, OpenSessionInput{Session: "s"})
	if err != nil {
		t.Fatalf("handleOpenSession: %v", err)
	}
	if verbs := r.verbs(); len(verbs) != 1 || verbs[0] != "has-session" {
		t.Fatalf("verbs = %v, want only has-session", verbs)
	}
	if !strings.Contains(out.Text, "already exists") {
		t.Errorf("reply = %q", out.Text)
	}
}

func TestKillWindowRequiresConfirm(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)

	_, _, err := s.handleKillWindow(context.Background(), nil, KillInput{Target: "s:1"})
	if !errors.Is(err, tmux.ErrConfirmRequired) {
		t.Fatalf("err = %v, want ErrConfirmRequired", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("transport called %d times for an unconfirmed kill, want 0", len(r.calls))
	}

	_, out, err := s.handleKillWindow(context.Background(), nil, KillInput{Target: "s:1", Confirm: true})
	if err != nil {
		t.Fatalf("confirmed kill: %v", err)
	}
	if len(r.calls) != 1 || r.calls[0][0] != "kill-window" {
		t.Fatalf("calls = %v, want exactly one kill-window", r.verbs())
	}
	if !strings.Contains(out.Text, "kill-window") {
		t.Errorf("reply = %q", out.Text)
	}
}

func TestRunGateOnRawArgv(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)

	_, _, err := s.handleRun(context.Background(), nil, RunInput{Args: []string{"kill-server"}})
	if !errors.Is(err, tmux.ErrConfirmRequired) {
		t.Fatalf("err = %v, want ErrConfirmRequired", err)
	}
	if len(r.calls) != 0 {
		t.Fatal("transport called for unconfirmed destructive raw argv")
	}

	_, _, err = s.handleRun(context.Background(), nil, RunInput{Args: []string{"attach-session", "-t", "s", "-k"}})
	if !errors.Is(err, tmux.ErrConfirmRequired) {
		t.Fatalf("attach -k err = %v, want ErrConfirmRequired", err)
	}

	if _, _, err := s.handleRun(context.Background(), nil, RunInput{Args: []string{"display-message", "-p", "ok"}}); err != nil {
		t.Fatalf("benign raw argv: %v", err)
	}
}

func TestSendKeysToolArgv(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)

	_, _, err := s.handleSendKeys(context.Background(), nil, SendKeysInput{
		TargetArgs: TargetArgs{Session: "s", Window: "0"},
		Keys:       "ls -lah",
		Enter:      true,
	})
	if err != nil {
		t.Fatalf("handleSendKeys: %v", err)
	}
	want := []string{"send-keys", "-t", "s:0.0", "--", "ls -lah", "Enter"}
	if len(r.calls) != 1 {
		t.Fatalf("calls = %d", len(r.calls))
	}
	for i, a := range want {
		if r.calls[0][i] != a {
			t.Fatalf("argv = %v, want %v", r.calls[0], want)
		}
	}
}

func TestSendKeysToolRejectsEmpty(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)
	_, _, err := s.handleSendKeys(context.Background(), nil, SendKeysInput{
		TargetArgs: TargetArgs{Session: "s"},
	})
	if !errors.Is(err, tmux.ErrInvalidKeys) {
		t.Fatalf("err = %v, want ErrInvalidKeys", err)
	}
}

func TestSetDefaultAbsentVsEmpty(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)

	host, session := "h", "work"
	_, out, err := s.handleSetDefault(context.Background(), nil, SetDefaultInput{Host: &host, Session: &session})
	if err != nil {
		t.Fatalf("handleSetDefault: %v", err)
	}
	if out.Target.Host != "h" || out.Target.Session != "work" {
		t.Errorf("target = %+v", out.Target)
	}

	// Absent host keeps it; empty session clears it.
	empty := ""
	_, out, err = s.handleSetDefault(context.Background(), nil, SetDefaultInput{Session: &empty})
	if err != nil {
		t.Fatalf("handleSetDefault: %v", err)
	}
	if out.Target.Host != "h" {
		t.Errorf("host = %q, want kept", out.Target.Host)
	}
	if out.Target.Session != "" {
		t.Errorf("session = %q, want cleared", out.Target.Session)
	}
}

func TestSelectPaneUpdatesDefault(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)
	if _, _, err := s.handleSelectPane(context.Background(), nil, SelectInput{Target: "work:1.2"}); err != nil {
		t.Fatalf("handleSelectPane: %v", err)
	}
	if got := s.registry.Get().Pane; got != "work:1.2" {
		t.Errorf("default pane = %q, want work:1.2", got)
	}
}

func TestStreamPaneToolCollectsChunks(t *testing.T) {
	captures := []string{"", "foo", "foobar"}
	idx := 0
	r := &recordingRunner{}
	s := newTestServer(t, r)
	s.client.Runner = func(_ context.Context, host, bin string, pathAdd, args []string) (string, error) {
		if args[0] != "capture-pane" {
			return "", nil
		}
		out := captures[idx]
		if idx < len(captures)-1 {
			idx++
		}
		return out, nil
	}

	_, out, err := s.handleStreamPane(context.Background(), nil, StreamPaneInput{
		TargetArgs: TargetArgs{Session: "s"},
		DurationMs: 400,
		PollMs:     60,
	})
	if err != nil {
		t.Fatalf("handleStreamPane: %v", err)
	}
	var data []string
	for _, c := range out.Chunks {
		if len(c.Data) > 0 {
			data = append(data, string(c.Data))
		}
	}
	if len(data) < 2 || data[0] != "foo" || data[1] != "bar" {
		t.Errorf("deltas = %v, want [foo bar]", data)
	}
	if out.NextSeq == 0 {
		t.Error("next_seq not advanced")
	}
}

func TestRunBatchJoinsSteps(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)
	_, out, err := s.handleRunBatch(context.Background(), nil, RunBatchInput{
		TargetArgs: TargetArgs{Session: "s"},
		Steps:      []string{"cd /tmp", "ls"},
	})
	if err != nil {
		t.Fatalf("handleRunBatch: %v", err)
	}
	if out.Text != "batch sent" {
		t.Errorf("text = %q", out.Text)
	}
	if len(r.calls) != 1 {
		t.Fatalf("calls = %v", r.verbs())
	}
	argv := r.calls[0]
	if argv[0] != "send-keys" || argv[4] != "cd /tmp && ls" || argv[5] != "Enter" {
		t.Errorf("argv = %v", argv)
	}
}

func TestFanoutToolMixed(t *testing.T) {
	r := &recordingRunner{}
	s := newTestServer(t, r)
	s.client.Runner = func(_ context.Context, host, bin string, pathAdd, args []string) (string, error) {
		if host == "b" {
			return "", &tmux.TransportError{ExitCode: 1, Err: fmt.Errorf("exit 1")}
		}
		if args[0] == "capture-pane" {
			return "done", nil
		}
		return "", nil
	}

	_, out, err := s.handleFanout(context.Background(), nil, FanoutInput{
		Targets: []FanoutTarget{
			{Host: "a", Session: "s", Window: "0"},
			{Host: "b", Session: "s", Window: "0"},
		},
		Keys:  "true",
		Enter: true,
	})
	if err != nil {
		t.Fatalf("handleFanout: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("results = %d", len(out.Results))
	}
	if out.Results[0].Error != "" || out.Results[1].Error == "" {
		t.Errorf("results = %+v", out.Results)
	}
	if out.Summary != "1 succeeded, 1 failed" {
		t.Errorf("summary = %q", out.Summary)
	}
}

func TestSessionOfTarget(t *testing.T) {
	tests := []struct{ in, want string }{
		{"work:1", "work"},
		{"work:1.2", "work"},
		{"work.0", "work"},
		{"work", "work"},
		{"%5", ""},
		{"@3", ""},
		{"$2", ""},
	}
	for _, tt := range tests {
		if got := sessionOfTarget(tt.in); got != tt.want {
			t.Errorf("sessionOfTarget(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCaptureLayout(t *testing.T) {
	r := &recordingRunner{responses: map[string]string{
		"list-windows": "@1\tlayoutstring-one",
	}}
	s := newTestServer(t, r)

	_, out, err := s.handleCaptureLayout(context.Background(), nil, CaptureLayoutInput{Session: "work"})
	if err != nil {
		t.Fatalf("handleCaptureLayout: %v", err)
	}
	if out.Layouts["@1"] != "layoutstring-one" {
		t.Errorf("layouts = %v", out.Layouts)
	}
}

func TestLoadLayoutUnknown(t *testing.T) {
	s := newTestServer(t, &recordingRunner{})
	if _, _, err := s.handleLoadLayout(context.Background(), nil, LoadLayoutInput{Name: "nope"}); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
