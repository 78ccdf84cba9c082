package tmux

import (
	"strconv"
	"strings"
)

// Fixed -F formats for the list primitives. Fields are tab-separated so the
// records survive names containing spaces.
const (
	sessionFormat = "#{session_id}\t#{session_name}\t#{session_windows}\t#{session_attached}\t#{session_created}"
	windowFormat  = "#{session_name}\t#{window_id}\t#{window_index}\t#{window_name}\t#{window_active}\t#{window_panes}\t#{window_flags}"
	paneFormat    = "#{session_name}\t#{window_index}\t#{pane_id}\t#{pane_index}\t#{pane_active}\t#{pane_tty}\t#{pane_current_command}\t#{pane_title}"
)

// Session is one record from list-sessions.
type Session struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Windows  int    `json:"windows"`
	Attached bool   `json:"attached"`
	Created  int64  `json:"created"`
}

// Window is one record from list-windows.
type Window struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Panes   int    `json:"panes"`
	Flags   string `json:"flags"`
}

// Pane is one record from list-panes.
type Pane struct {
	Session string `json:"session"`
	Window  int    `json:"window"`
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Active  bool   `json:"active"`
	TTY     string `json:"tty"`
	Command string `json:"command"`
	Title   string `json:"title"`
}

func parseSessions(out string) []Session {
	var sessions []Session
	for _, line := range splitLines(out) {
		f := strings.Split(line, "\t")
		if len(f) != 5 {
			continue
		}
		sessions = append(sessions, Session{
			ID:       f[0],
			Name:     f[1],
			Windows:  atoi(f[2]),
			Attached: f[3] == "1",
			Created:  int64(atoi(f[4])),
		})
	}
	return sessions
}

func parseWindows(out string) []Window {
	var windows []Window
	for _, line := range splitLines(out) {
		f := strings.Split(line, "\t")
		if len(f) != 7 {
			continue
		}
		windows = append(windows, Window{
			Session: f[0],
			ID:      f[1],
			Index:   atoi(f[2]),
			Name:    f[3],
			Active:  f[4] == "1",
			Panes:   atoi(f[5]),
			Flags:   f[6],
		})
	}
	return windows
}

func parsePanes(out string) []Pane {
	var panes []Pane
	for _, line := range splitLines(out) {
		f := strings.Split(line, "\t")
		if len(f) != 8 {
			continue
		}
		panes = append(panes, Pane{
			Session: f[0],
			Window:  atoi(f[1]),
			ID:      f[2],
			Index:   atoi(f[3]),
			Active:  f[4] == "1",
			TTY:     f[5],
			Command: f[6],
			Title:   f[7],
		})
	}
	return panes
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
