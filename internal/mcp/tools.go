package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/k8ika0s/mcp-tmux/internal/capture"
	"github.com/k8ika0s/mcp-tmux/internal/config"
	"github.com/k8ika0s/mcp-tmux/internal/defaults"
	"github.com/k8ika0s/mcp-tmux/internal/fanout"
	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

func (s *Server) handleState(ctx context.Context, _ *mcpsdk.CallToolRequest, args StateInput) (*mcpsdk.CallToolResult, SnapshotOutput, error) {
	snap, err := s.assembler.Snapshot(ctx, args.ref(), args.CaptureLines, args.StripANSI)
	if err != nil {
		return nil, SnapshotOutput{}, err
	}
	return nil, snap, nil
}

func (s *Server) handleListSessions(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListInput) (*mcpsdk.CallToolResult, ListSessionsOutput, error) {
	host, err := s.listHost(args)
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}
	sessions, err := s.ops.ListSessions(ctx, host)
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}
	return nil, ListSessionsOutput{Sessions: sessions}, nil
}

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	host, session := s.listScope(args)
	if err := tmux.ValidateHost(host); err != nil {
		return nil, ListWindowsOutput{}, err
	}
	windows, err := s.ops.ListWindows(ctx, host, session)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleListPanes(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListInput) (*mcpsdk.CallToolResult, ListPanesOutput, error) {
	host, session := s.listScope(args)
	if err := tmux.ValidateHost(host); err != nil {
		return nil, ListPanesOutput{}, err
	}
	panes, err := s.ops.ListPanes(ctx, host, session)
	if err != nil {
		return nil, ListPanesOutput{}, err
	}
	return nil, ListPanesOutput{Panes: panes}, nil
}

// listHost resolves the host for server-wide listings.
func (s *Server) listHost(args ListInput) (string, error) {
	host := args.Host
	if host == "" {
		host = s.registry.Get().Host
	}
	return host, tmux.ValidateHost(host)
}

// listScope resolves host and session for session-scoped listings.
func (s *Server) listScope(args ListInput) (host, session string) {
	host, session = args.Host, args.Session
	def := s.registry.Get()
	if host == "" {
		host = def.Host
	}
	if session == "" {
		session = def.Session
	}
	return host, session
}

func (s *Server) handleCapturePane(ctx context.Context, _ *mcpsdk.CallToolRequest, args CapturePaneInput) (*mcpsdk.CallToolResult, capture.Result, error) {
	if args.History {
		res, err := s.engine.CaptureHistory(ctx, args.ref(), args.Budgets, args.StripANSI)
		if err != nil {
			return nil, capture.Result{}, err
		}
		return nil, res, nil
	}
	if args.Start != nil {
		resolved, out, err := s.ops.CapturePane(ctx, args.ref(), *args.Start, args.End)
		if err != nil {
			return nil, capture.Result{}, err
		}
		if args.StripANSI {
			out = capture.StripANSI(out)
		}
		return nil, capture.Result{Target: resolved, Text: out}, nil
	}
	res, err := s.engine.Capture(ctx, args.ref(), args.Lines, args.StripANSI)
	if err != nil {
		return nil, capture.Result{}, err
	}
	return nil, res, nil
}

func (s *Server) handleTailPane(ctx context.Context, _ *mcpsdk.CallToolRequest, args TailPaneInput) (*mcpsdk.CallToolResult, TailPaneOutput, error) {
	out, err := s.engine.Tail(ctx, args.ref(), args.Lines, args.Iterations,
		time.Duration(args.IntervalMs)*time.Millisecond, args.StripANSI)
	if err != nil {
		// Cancellation still yields whatever iterations completed.
		if errors.Is(err, tmux.ErrCanceled) {
			return nil, TailPaneOutput{Output: out}, nil
		}
		return nil, TailPaneOutput{}, err
	}
	return nil, TailPaneOutput{Output: out}, nil
}

func (s *Server) handleStreamPane(ctx context.Context, _ *mcpsdk.CallToolRequest, args StreamPaneInput) (*mcpsdk.CallToolResult, StreamPaneOutput, error) {
	duration := time.Duration(args.DurationMs) * time.Millisecond
	if duration <= 0 {
		duration = 5 * time.Second
	}
	if duration > time.Minute {
		duration = time.Minute
	}
	streamCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	opts := capture.StreamOptions{
		FromSeq:       args.FromSeq,
		PollInterval:  time.Duration(args.PollMs) * time.Millisecond,
		MaxChunkBytes: args.MaxChunkBytes,
		StripANSI:     args.StripANSI,
	}

	var chunks []capture.Chunk
	nextSeq := args.FromSeq
	err := s.engine.Stream(streamCtx, args.ref(), opts, func(c capture.Chunk) error {
		chunks = append(chunks, c)
		nextSeq = c.Seq
		if s.metrics != nil {
			s.metrics.StreamChunks.Add(ctx, 1)
		}
		return nil
	})
	// The collection window elapsing is the normal way out.
	if err != nil && streamCtx.Err() == nil {
		return nil, StreamPaneOutput{}, err
	}
	return nil, StreamPaneOutput{Chunks: chunks, NextSeq: nextSeq}, nil
}

func (s *Server) handleSendKeys(ctx context.Context, _ *mcpsdk.CallToolRequest, args SendKeysInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	resolved, err := s.ops.SendKeys(ctx, args.ref(), args.Keys, args.Enter)
	if err != nil {
		return nil, AckOutput{}, err
	}
	s.logSideEffect(resolved.Host, resolved.Session, "send-keys",
		fmt.Sprintf("keys_len=%d enter=%v", len(args.Keys), args.Enter))
	return nil, AckOutput{Text: "keys sent"}, nil
}

func (s *Server) handleOpenSession(ctx context.Context, _ *mcpsdk.CallToolRequest, args OpenSessionInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if args.Session == "" {
		return nil, AckOutput{}, tmux.ErrInvalidName
	}

	exists, err := s.ops.HasSession(ctx, args.Host, args.Session)
	if err != nil {
		return nil, AckOutput{}, err
	}
	created := false
	if !exists {
		if err := s.ops.NewSession(ctx, args.Host, args.Session, args.Command); err != nil {
			return nil, AckOutput{}, err
		}
		created = true
	}

	host, session := args.Host, args.Session
	s.registry.Set(defaults.Update{Host: &host, Session: &session})

	var text string
	switch {
	case created && args.Host != "":
		text = fmt.Sprintf("Created remote session %s on %s", args.Session, args.Host)
	case created:
		text = fmt.Sprintf("Created session %s", args.Session)
	case args.Host != "":
		text = fmt.Sprintf("Session %s already exists on %s", args.Session, args.Host)
	default:
		text = fmt.Sprintf("Session %s already exists", args.Session)
	}
	if created {
		s.logSideEffect(args.Host, args.Session, "new-session", "")
	}
	return nil, AckOutput{Text: text}, nil
}

func (s *Server) handleNewWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args NewWindowInput) (*mcpsdk.CallToolResult, NewWindowOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, NewWindowOutput{}, err
	}
	ref, err := s.ops.Resolver.RequireSession(args.ref())
	if err != nil {
		return nil, NewWindowOutput{}, err
	}
	name, err := s.ops.NewWindow(ctx, ref.Host, ref.Session, args.Name, args.Command)
	if err != nil {
		return nil, NewWindowOutput{}, err
	}
	s.logSideEffect(ref.Host, ref.Session, "new-window", "name="+name)
	return nil, NewWindowOutput{WindowName: name}, nil
}

func (s *Server) handleSplitPane(ctx context.Context, _ *mcpsdk.CallToolRequest, args SplitPaneInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	resolved, err := s.ops.SplitPane(ctx, args.ref(), args.Horizontal, args.Command)
	if err != nil {
		return nil, AckOutput{}, err
	}
	s.logSideEffect(resolved.Host, resolved.Session, "split-window",
		fmt.Sprintf("horizontal=%v", args.Horizontal))
	return nil, AckOutput{Text: "pane split"}, nil
}

func (s *Server) killCommon(ctx context.Context, verb string, args KillInput, run func(context.Context, string, string) error) (AckOutput, error) {
	if err := s.gate.Check(args.Host, []string{verb, "-t", args.Target}, args.Confirm); err != nil {
		return AckOutput{}, err
	}
	if args.Target == "" {
		return AckOutput{}, tmux.ErrInvalidTarget
	}
	if err := run(ctx, args.Host, args.Target); err != nil {
		return AckOutput{}, err
	}
	s.logSideEffect(args.Host, sessionOfTarget(args.Target), verb, "target="+args.Target)
	return AckOutput{Text: fmt.Sprintf("%s %s done", verb, args.Target)}, nil
}

func (s *Server) handleKillSession(ctx context.Context, _ *mcpsdk.CallToolRequest, args KillInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	out, err := s.killCommon(ctx, "kill-session", args, s.ops.KillSession)
	return nil, out, err
}

func (s *Server) handleKillWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args KillInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	out, err := s.killCommon(ctx, "kill-window", args, s.ops.KillWindow)
	return nil, out, err
}

func (s *Server) handleKillPane(ctx context.Context, _ *mcpsdk.CallToolRequest, args KillInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	out, err := s.killCommon(ctx, "kill-pane", args, s.ops.KillPane)
	return nil, out, err
}

func (s *Server) handleRenameSession(ctx context.Context, _ *mcpsdk.CallToolRequest, args RenameInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.ops.RenameSession(ctx, args.Host, args.Target, args.Name); err != nil {
		return nil, AckOutput{}, err
	}
	s.logSideEffect(args.Host, args.Target, "rename-session", "name="+args.Name)
	return nil, AckOutput{Text: fmt.Sprintf("renamed %s to %s", args.Target, args.Name)}, nil
}

func (s *Server) handleRenameWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args RenameInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.ops.RenameWindow(ctx, args.Host, args.Target, args.Name); err != nil {
		return nil, AckOutput{}, err
	}
	s.logSideEffect(args.Host, sessionOfTarget(args.Target), "rename-window", "name="+args.Name)
	return nil, AckOutput{Text: fmt.Sprintf("renamed %s to %s", args.Target, args.Name)}, nil
}

func (s *Server) handleSelectWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args SelectInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.ops.SelectWindow(ctx, args.Host, args.Target); err != nil {
		return nil, AckOutput{}, err
	}
	// Re-point the default pane at the newly selected window so later
	// unqualified calls land where the agent is looking.
	s.registry.SetPane(args.Target + ".0")
	s.logSideEffect(args.Host, sessionOfTarget(args.Target), "select-window", "target="+args.Target)
	return nil, AckOutput{Text: "window selected"}, nil
}

func (s *Server) handleSelectPane(ctx context.Context, _ *mcpsdk.CallToolRequest, args SelectInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.ops.SelectPane(ctx, args.Host, args.Target); err != nil {
		return nil, AckOutput{}, err
	}
	s.registry.SetPane(args.Target)
	s.logSideEffect(args.Host, sessionOfTarget(args.Target), "select-pane", "target="+args.Target)
	return nil, AckOutput{Text: "pane selected"}, nil
}

func (s *Server) handleSetSyncPanes(ctx context.Context, _ *mcpsdk.CallToolRequest, args SyncPanesInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if err := s.ops.SetSyncPanes(ctx, args.Host, args.Target, args.On); err != nil {
		return nil, AckOutput{}, err
	}
	s.logSideEffect(args.Host, sessionOfTarget(args.Target), "set-window-option",
		fmt.Sprintf("synchronize-panes=%v", args.On))
	return nil, AckOutput{Text: fmt.Sprintf("synchronize-panes %v", args.On)}, nil
}

func (s *Server) handleRun(ctx context.Context, _ *mcpsdk.CallToolRequest, args RunInput) (*mcpsdk.CallToolResult, RunOutput, error) {
	if len(args.Args) == 0 {
		return nil, RunOutput{}, fmt.Errorf("args are required")
	}
	if err := s.gate.Check(args.Host, args.Args, args.Confirm); err != nil {
		return nil, RunOutput{}, err
	}
	out, err := s.ops.Raw(ctx, args.Host, args.Args)
	if err != nil {
		return nil, RunOutput{}, err
	}
	if args.StripANSI {
		out = capture.StripANSI(out)
	}
	s.logSideEffect(args.Host, s.registry.Get().Session, args.Args[0],
		fmt.Sprintf("argc=%d", len(args.Args)))
	return nil, RunOutput{Text: out}, nil
}

func (s *Server) handleRunBatch(ctx context.Context, _ *mcpsdk.CallToolRequest, args RunBatchInput) (*mcpsdk.CallToolResult, RunBatchOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, RunBatchOutput{}, err
	}
	if len(args.Steps) == 0 {
		return nil, RunBatchOutput{}, fmt.Errorf("steps are required")
	}
	joiner := args.JoinWith
	if joiner == "" {
		joiner = "&&"
	}
	cmd := strings.Join(args.Steps, fmt.Sprintf(" %s ", joiner))

	resolved, paneToken, err := s.ops.Resolver.Resolve(args.ref())
	if err != nil {
		return nil, RunBatchOutput{}, err
	}
	if args.CleanPrompt {
		_, _ = s.client.Run(ctx, resolved.Host, []string{"send-keys", "-t", paneToken, "C-c", "C-u"})
	}
	if _, err := s.client.Run(ctx, resolved.Host, []string{"send-keys", "-t", paneToken, "--", cmd, "Enter"}); err != nil {
		return nil, RunBatchOutput{}, err
	}
	s.logSideEffect(resolved.Host, resolved.Session, "run-batch",
		fmt.Sprintf("steps=%d", len(args.Steps)))

	out := RunBatchOutput{Text: "batch sent"}
	if args.CaptureLines > 0 {
		if res, capErr := s.engine.Capture(ctx, resolved, args.CaptureLines, args.StripANSI); capErr == nil {
			out.Capture = res.Text
			out.Truncated = res.Truncated
		}
	}
	return nil, out, nil
}

func (s *Server) handleFanout(ctx context.Context, _ *mcpsdk.CallToolRequest, args FanoutInput) (*mcpsdk.CallToolResult, FanoutOutput, error) {
	if len(args.Targets) == 0 {
		return nil, FanoutOutput{}, fmt.Errorf("targets are required")
	}
	req := fanout.Request{
		Mode:           fanout.Mode(args.Mode),
		Keys:           args.Keys,
		Enter:          args.Enter,
		DelayMs:        args.DelayMs,
		CaptureLines:   args.CaptureLines,
		StripANSI:      args.StripANSI,
		TailLines:      args.TailLines,
		TailIterations: args.TailIterations,
		TailIntervalMs: args.TailIntervalMs,
		Pattern:        args.Pattern,
		PatternFlags:   args.PatternFlags,
	}
	for _, t := range args.Targets {
		req.Targets = append(req.Targets, fanout.TargetSpec{
			Target: tmux.PaneRef{Host: t.Host, Session: t.Session, Window: t.Window, Pane: t.Pane},
			Keys:   t.Keys,
		})
	}
	resp, err := s.coordinator.Run(ctx, req)
	if err != nil {
		return nil, FanoutOutput{}, err
	}
	if s.metrics != nil {
		s.metrics.FanoutTargets.Add(ctx, int64(len(args.Targets)))
	}
	if args.Keys != "" || args.Enter {
		s.logSideEffect(s.registry.Get().Host, s.registry.Get().Session, "fanout",
			fmt.Sprintf("targets=%d mode=%s", len(args.Targets), req.Mode))
	}
	return nil, FanoutOutput{Results: resp.Results, Summary: resp.Summary}, nil
}

func (s *Server) handleSetDefault(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDefaultInput) (*mcpsdk.CallToolResult, GetDefaultOutput, error) {
	if args.Host != nil {
		if err := tmux.ValidateHost(*args.Host); err != nil {
			return nil, GetDefaultOutput{}, err
		}
	}
	cur := s.registry.Set(defaults.Update{
		Host:    args.Host,
		Session: args.Session,
		Window:  args.Window,
		Pane:    args.Pane,
	})
	return nil, GetDefaultOutput{Target: cur}, nil
}

func (s *Server) handleGetDefault(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetDefaultInput) (*mcpsdk.CallToolResult, GetDefaultOutput, error) {
	return nil, GetDefaultOutput{Target: s.registry.Get()}, nil
}

func (s *Server) handleSetAudit(_ context.Context, _ *mcpsdk.CallToolRequest, args SetAuditInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if args.Session == "" {
		return nil, AckOutput{}, tmux.ErrNoSession
	}
	s.gate.SetAudit(args.Host, args.Session, args.Enabled)
	return nil, AckOutput{Text: fmt.Sprintf("audit %v for %s:%s", args.Enabled, args.Host, args.Session)}, nil
}

func (s *Server) handleServerInfo(_ context.Context, _ *mcpsdk.CallToolRequest, _ ServerInfoInput) (*mcpsdk.CallToolResult, ServerInfoOutput, error) {
	return nil, ServerInfoOutput{PackageName: "github.com/k8ika0s/mcp-tmux", Version: ServerVersion}, nil
}

// sessionOfTarget extracts the session component of a target token for log
// routing. Raw ids have no session; those records land under "unknown".
func sessionOfTarget(target string) string {
	if strings.HasPrefix(target, "%") || strings.HasPrefix(target, "@") || strings.HasPrefix(target, "$") {
		return ""
	}
	if idx := strings.IndexByte(target, ':'); idx >= 0 {
		return target[:idx]
	}
	if idx := strings.IndexByte(target, '.'); idx >= 0 {
		return target[:idx]
	}
	return target
}

// layoutSessionScope resolves host/session for the layout tools.
func (s *Server) layoutSessionScope(host, session string) (string, string, error) {
	def := s.registry.Get()
	if host == "" {
		host = def.Host
	}
	if session == "" {
		session = def.Session
	}
	if err := tmux.ValidateHost(host); err != nil {
		return "", "", err
	}
	if session == "" {
		return "", "", tmux.ErrNoSession
	}
	return host, session, nil
}

func (s *Server) handleCaptureLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args CaptureLayoutInput) (*mcpsdk.CallToolResult, CaptureLayoutOutput, error) {
	host, session, err := s.layoutSessionScope(args.Host, args.Session)
	if err != nil {
		return nil, CaptureLayoutOutput{}, err
	}
	layouts, err := s.ops.WindowLayouts(ctx, host, session)
	if err != nil {
		return nil, CaptureLayoutOutput{}, err
	}
	return nil, CaptureLayoutOutput{Layouts: layouts}, nil
}

func (s *Server) handleApplyLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := tmux.ValidateHost(args.Host); err != nil {
		return nil, AckOutput{}, err
	}
	if len(args.Layouts) == 0 {
		return nil, AckOutput{}, fmt.Errorf("layouts are required")
	}
	applied := 0
	for window, layout := range args.Layouts {
		if window == "" || layout == "" {
			continue
		}
		if err := s.ops.SelectLayout(ctx, args.Host, window, layout); err != nil {
			// Best-effort per window, like restoring onto a topology that
			// has drifted since capture.
			continue
		}
		applied++
	}
	s.logSideEffect(args.Host, s.registry.Get().Session, "select-layout",
		fmt.Sprintf("windows=%d", applied))
	return nil, AckOutput{Text: fmt.Sprintf("applied %d of %d layouts", applied, len(args.Layouts))}, nil
}

func (s *Server) handleSaveLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args SaveLayoutInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	host, session, err := s.layoutSessionScope(args.Host, args.Session)
	if err != nil {
		return nil, AckOutput{}, err
	}
	if args.Name == "" {
		return nil, AckOutput{}, fmt.Errorf("layout profile name required")
	}
	windows, err := s.ops.ListWindows(ctx, host, session)
	if err != nil {
		return nil, AckOutput{}, err
	}
	layouts, err := s.ops.WindowLayouts(ctx, host, session)
	if err != nil {
		return nil, AckOutput{}, err
	}
	profile := config.LayoutProfile{Name: args.Name, Host: host, Session: session}
	for _, w := range windows {
		profile.Windows = append(profile.Windows, config.WindowLayout{
			Index:  w.Index,
			Name:   w.Name,
			Layout: layouts[w.ID],
		})
	}
	sort.Slice(profile.Windows, func(i, j int) bool { return profile.Windows[i].Index < profile.Windows[j].Index })
	if err := s.layouts.Save(profile); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Text: fmt.Sprintf("saved layout %s (%d windows)", args.Name, len(profile.Windows))}, nil
}

func (s *Server) handleLoadLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args LoadLayoutInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	profile, ok := s.layouts.Get(args.Name)
	if !ok {
		return nil, AckOutput{}, fmt.Errorf("unknown layout profile %q", args.Name)
	}
	applied := 0
	for _, w := range profile.Windows {
		if w.Layout == "" {
			continue
		}
		target := fmt.Sprintf("%s:%d", profile.Session, w.Index)
		if err := s.ops.SelectLayout(ctx, profile.Host, target, w.Layout); err != nil {
			continue
		}
		applied++
	}
	s.logSideEffect(profile.Host, profile.Session, "select-layout",
		fmt.Sprintf("profile=%s windows=%d", profile.Name, applied))
	return nil, AckOutput{Text: fmt.Sprintf("applied layout %s to %d windows", profile.Name, applied)}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	return nil, ListLayoutsOutput{Names: s.layouts.Names()}, nil
}
