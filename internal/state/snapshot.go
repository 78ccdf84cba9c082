// Package state composes point-in-time snapshots of a tmux server: the
// session/window/pane inventory plus a bounded capture of one pane.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/k8ika0s/mcp-tmux/internal/capture"
	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// NoCaptureTarget is the placeholder capture when a session has no panes.
const NoCaptureTarget = "(no capture target)"

// Snapshot is the grounded state handed back to the agent. Listing sections
// are raw tmux text; the capture is a fresh read of the chosen pane.
type Snapshot struct {
	Host                  string   `json:"host,omitempty"`
	Session               string   `json:"session"`
	SessionsText          string   `json:"sessions_text"`
	WindowsText           string   `json:"windows_text"`
	PanesText             string   `json:"panes_text"`
	CaptureTarget         string   `json:"capture_target,omitempty"`
	Capture               string   `json:"capture"`
	CaptureRequestedLines int      `json:"capture_requested_lines"`
	CaptureTruncated      bool     `json:"capture_truncated"`
	RecentCommands        []string `json:"recent_commands,omitempty"`
}

// Assembler builds snapshots from the primitives and the capture engine.
type Assembler struct {
	Ops    *tmux.Ops
	Engine *capture.Engine
}

// Snapshot resolves the host and session, lists inventory concurrently,
// picks a capture target, and captures it. Listing failures degrade to
// empty sections; only session resolution and an explicitly targeted
// capture can fail the call.
func (a *Assembler) Snapshot(ctx context.Context, ref tmux.PaneRef, captureLines int, strip bool) (Snapshot, error) {
	resolved, err := a.Ops.Resolver.RequireSession(ref)
	if err != nil {
		return Snapshot{}, err
	}
	if captureLines <= 0 {
		captureLines = capture.DefaultCaptureLines
	}

	var sessionsText, windowsText, panesText string
	var windows []tmux.Window
	var panes []tmux.Pane
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		sessionsText, _ = a.Ops.Client.Run(ctx, resolved.Host, []string{"list-sessions"})
	}()
	go func() {
		defer wg.Done()
		windowsText, _ = a.Ops.Client.Run(ctx, resolved.Host, []string{"list-windows", "-t", resolved.Session})
		windows, _ = a.Ops.ListWindows(ctx, resolved.Host, resolved.Session)
	}()
	go func() {
		defer wg.Done()
		panesText, _ = a.Ops.Client.Run(ctx, resolved.Host, []string{"list-panes", "-t", resolved.Session})
		panes, _ = a.Ops.ListPanes(ctx, resolved.Host, resolved.Session)
	}()
	wg.Wait()

	snap := Snapshot{
		Host:                  resolved.Host,
		Session:               resolved.Session,
		SessionsText:          sessionsText,
		WindowsText:           windowsText,
		PanesText:             panesText,
		CaptureRequestedLines: captureLines,
	}

	target, explicit := a.captureTarget(resolved, windows, panes)
	if target == "" {
		snap.Capture = NoCaptureTarget
		return snap, nil
	}
	snap.CaptureTarget = target

	res, err := a.Engine.Capture(ctx, tmux.PaneRef{Host: resolved.Host, Pane: target}, captureLines, strip)
	if err != nil {
		if explicit {
			return Snapshot{}, err
		}
		snap.Capture = fmt.Sprintf("(capture failed: %v)", err)
		return snap, nil
	}
	snap.Capture = res.Text
	snap.CaptureTruncated = res.Truncated
	snap.RecentCommands = capture.RecentCommands(res.Text)
	return snap, nil
}

// captureTarget picks the pane to capture: the default pane when set, else
// the active pane of the session's active window.
func (a *Assembler) captureTarget(resolved tmux.PaneRef, windows []tmux.Window, panes []tmux.Pane) (target string, explicit bool) {
	if resolved.Pane != "" {
		return resolved.Pane, true
	}
	activeWindow := -1
	for _, w := range windows {
		if w.Active {
			activeWindow = w.Index
			break
		}
	}
	for _, p := range panes {
		if p.Active && (activeWindow < 0 || p.Window == activeWindow) {
			return p.ID, false
		}
	}
	if len(panes) > 0 {
		return panes[0].ID, false
	}
	return "", false
}
