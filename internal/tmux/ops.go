package tmux

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Ops exposes the semantic tmux operations. Each one is a fixed argv
// template over the client; resolution happens up front so a bad target
// never reaches the transport.
type Ops struct {
	Client   *Client
	Resolver *Resolver
}

// specialKeys maps agent-friendly tokens onto tmux key names. The map is
// applied to the whole keys value (or its trimmed form), not per word.
var specialKeys = map[string]string{
	"<SPACE>": "Space",
	"<TAB>":   "Tab",
	"<ESC>":   "Escape",
	"<ENTER>": "Enter",
}

// mapKeys translates a keys value through specialKeys.
func mapKeys(keys string) string {
	if mapped, ok := specialKeys[keys]; ok {
		return mapped
	}
	if mapped, ok := specialKeys[strings.TrimSpace(keys)]; ok {
		return mapped
	}
	return keys
}

// ListSessions lists all sessions on host as parsed records.
func (o *Ops) ListSessions(ctx context.Context, host string) ([]Session, error) {
	out, err := o.Client.Run(ctx, host, []string{"list-sessions", "-F", sessionFormat})
	if err != nil {
		return nil, err
	}
	return parseSessions(out), nil
}

// ListWindows lists windows, scoped to a session when one is given.
func (o *Ops) ListWindows(ctx context.Context, host, session string) ([]Window, error) {
	args := []string{"list-windows"}
	if session != "" {
		args = append(args, "-t", session)
	}
	args = append(args, "-F", windowFormat)
	out, err := o.Client.Run(ctx, host, args)
	if err != nil {
		return nil, err
	}
	return parseWindows(out), nil
}

// ListPanes lists panes, scoped to a session when one is given.
func (o *Ops) ListPanes(ctx context.Context, host, session string) ([]Pane, error) {
	args := []string{"list-panes"}
	if session != "" {
		args = append(args, "-t", session)
	}
	args = append(args, "-F", paneFormat)
	out, err := o.Client.Run(ctx, host, args)
	if err != nil {
		return nil, err
	}
	return parsePanes(out), nil
}

// CapturePane captures scrollback from start (negative = lines back) to the
// optional end line.
func (o *Ops) CapturePane(ctx context.Context, ref PaneRef, start int, end *int) (PaneRef, string, error) {
	resolved, pane, err := o.Resolver.Resolve(ref)
	if err != nil {
		return PaneRef{}, "", err
	}
	args := []string{"capture-pane", "-p", "-t", pane, "-S", fmt.Sprintf("%d", start)}
	if end != nil {
		args = append(args, "-E", fmt.Sprintf("%d", *end))
	}
	out, err := o.Client.Run(ctx, resolved.Host, args)
	if err != nil {
		return resolved, "", err
	}
	return resolved, out, nil
}

// SendKeys sends keys to the resolved pane. Empty keys are allowed only when
// enter is set; enter appends the Enter key unless the mapped keys already
// are Enter.
func (o *Ops) SendKeys(ctx context.Context, ref PaneRef, keys string, enter bool) (PaneRef, error) {
	resolved, pane, err := o.Resolver.Resolve(ref)
	if err != nil {
		return PaneRef{}, err
	}
	if keys == "" && !enter {
		return PaneRef{}, ErrInvalidKeys
	}
	args := []string{"send-keys", "-t", pane, "--"}
	mapped := mapKeys(keys)
	if mapped != "" {
		args = append(args, mapped)
	}
	if enter && mapped != "Enter" {
		args = append(args, "Enter")
	}
	if _, err := o.Client.Run(ctx, resolved.Host, args); err != nil {
		return resolved, err
	}
	return resolved, nil
}

// HasSession reports whether the named session exists. tmux exits 1 when the
// session is missing; that is an answer, not a failure.
func (o *Ops) HasSession(ctx context.Context, host, name string) (bool, error) {
	if name == "" {
		return false, ErrInvalidName
	}
	_, err := o.Client.Run(ctx, host, []string{"has-session", "-t", name})
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) && te.ExitCode == 1 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSession creates a detached session, optionally running a command.
func (o *Ops) NewSession(ctx context.Context, host, name, command string) error {
	if name == "" {
		return ErrInvalidName
	}
	args := []string{"new-session", "-d", "-s", name}
	if command != "" {
		args = append(args, command)
	}
	_, err := o.Client.Run(ctx, host, args)
	return err
}

// NewWindow creates a window in session and returns the final window name.
func (o *Ops) NewWindow(ctx context.Context, host, session, name, command string) (string, error) {
	if session == "" {
		return "", ErrNoSession
	}
	args := []string{"new-window", "-t", session, "-P", "-F", "#{window_name}"}
	if name != "" {
		args = append(args, "-n", name)
	}
	if command != "" {
		args = append(args, command)
	}
	out, err := o.Client.Run(ctx, host, args)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SplitPane splits the resolved pane horizontally or vertically.
func (o *Ops) SplitPane(ctx context.Context, ref PaneRef, horizontal bool, command string) (PaneRef, error) {
	resolved, pane, err := o.Resolver.Resolve(ref)
	if err != nil {
		return PaneRef{}, err
	}
	dir := "-v"
	if horizontal {
		dir = "-h"
	}
	args := []string{"split-window", "-t", pane, dir}
	if command != "" {
		args = append(args, command)
	}
	if _, err := o.Client.Run(ctx, resolved.Host, args); err != nil {
		return resolved, err
	}
	return resolved, nil
}

// KillSession removes a session.
func (o *Ops) KillSession(ctx context.Context, host, target string) error {
	_, err := o.Client.Run(ctx, host, []string{"kill-session", "-t", target})
	return err
}

// KillWindow removes a window.
func (o *Ops) KillWindow(ctx context.Context, host, target string) error {
	_, err := o.Client.Run(ctx, host, []string{"kill-window", "-t", target})
	return err
}

// KillPane removes a pane.
func (o *Ops) KillPane(ctx context.Context, host, target string) error {
	_, err := o.Client.Run(ctx, host, []string{"kill-pane", "-t", target})
	return err
}

// RenameSession renames a session.
func (o *Ops) RenameSession(ctx context.Context, host, target, name string) error {
	_, err := o.Client.Run(ctx, host, []string{"rename-session", "-t", target, name})
	return err
}

// RenameWindow renames a window.
func (o *Ops) RenameWindow(ctx context.Context, host, target, name string) error {
	_, err := o.Client.Run(ctx, host, []string{"rename-window", "-t", target, name})
	return err
}

// SelectWindow makes a window current.
func (o *Ops) SelectWindow(ctx context.Context, host, target string) error {
	_, err := o.Client.Run(ctx, host, []string{"select-window", "-t", target})
	return err
}

// SelectPane makes a pane current.
func (o *Ops) SelectPane(ctx context.Context, host, target string) error {
	_, err := o.Client.Run(ctx, host, []string{"select-pane", "-t", target})
	return err
}

// SetSyncPanes toggles synchronize-panes on a window.
func (o *Ops) SetSyncPanes(ctx context.Context, host, target string, on bool) error {
	val := "off"
	if on {
		val = "on"
	}
	_, err := o.Client.Run(ctx, host, []string{"set-window-option", "-t", target, "synchronize-panes", val})
	return err
}

// PipePane duplicates pane output into shellCmd.
func (o *Ops) PipePane(ctx context.Context, host, pane, shellCmd string) error {
	_, err := o.Client.Run(ctx, host, []string{"pipe-pane", "-t", pane, shellCmd})
	return err
}

// PipePaneOff turns pipe-pane off for a pane.
func (o *Ops) PipePaneOff(ctx context.Context, host, pane string) error {
	_, err := o.Client.Run(ctx, host, []string{"pipe-pane", "-t", pane})
	return err
}

// SelectLayout applies a layout string to a window. Layout strings are
// opaque; they are produced and consumed only by tmux.
func (o *Ops) SelectLayout(ctx context.Context, host, target, layout string) error {
	_, err := o.Client.Run(ctx, host, []string{"select-layout", "-t", target, layout})
	return err
}

// WindowLayouts reads the per-window layout strings of a session.
func (o *Ops) WindowLayouts(ctx context.Context, host, session string) (map[string]string, error) {
	args := []string{"list-windows", "-F", "#{window_id}\t#{window_layout}"}
	if session != "" {
		args = append(args, "-t", session)
	}
	out, err := o.Client.Run(ctx, host, args)
	if err != nil {
		return nil, err
	}
	layouts := map[string]string{}
	for _, line := range splitLines(out) {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		layouts[parts[0]] = parts[1]
	}
	return layouts, nil
}

// HistorySize queries #{history_size} for a pane, defaulting to 0 when the
// value cannot be read.
func (o *Ops) HistorySize(ctx context.Context, host, pane string) int {
	out, err := o.Client.Run(ctx, host, []string{"display-message", "-p", "-t", pane, "#{history_size}"})
	if err != nil {
		return 0
	}
	return atoi(out)
}

// RunShell executes a shell command on the tmux server host via run-shell.
func (o *Ops) RunShell(ctx context.Context, host, shellCmd string) error {
	_, err := o.Client.Run(ctx, host, []string{"run-shell", shellCmd})
	return err
}

// Raw passes an arbitrary argv to tmux. Destructive classification is the
// safety gate's job; Raw itself only rejects an empty argv.
func (o *Ops) Raw(ctx context.Context, host string, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("args are required")
	}
	return o.Client.Run(ctx, host, args)
}
