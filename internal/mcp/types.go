package mcp

import (
	"github.com/k8ika0s/mcp-tmux/internal/capture"
	"github.com/k8ika0s/mcp-tmux/internal/fanout"
	"github.com/k8ika0s/mcp-tmux/internal/state"
	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// TargetArgs is the partial target address shared by most tools. Accepted
// pane notations: "session", "session:window", "session:window.pane", and
// raw ids ("%pane", "@window", "$session").
type TargetArgs struct {
	Host    string `json:"host,omitempty" jsonschema:"Remote host alias (ssh). Empty means local."`
	Session string `json:"session,omitempty" jsonschema:"Session name. Falls back to the default target."`
	Window  string `json:"window,omitempty" jsonschema:"Window index or name within the session."`
	Pane    string `json:"pane,omitempty" jsonschema:"Full pane target; overrides session/window when set."`
}

func (t TargetArgs) ref() tmux.PaneRef {
	return tmux.PaneRef{Host: t.Host, Session: t.Session, Window: t.Window, Pane: t.Pane}
}

// StateInput is the input for the tmux_state tool.
type StateInput struct {
	TargetArgs
	CaptureLines int  `json:"capture_lines,omitempty" jsonschema:"Lines to capture from the chosen pane (default: 200)"`
	StripANSI    bool `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences from the capture"`
}

// ListInput is the input for the list tools.
type ListInput struct {
	TargetArgs
}

// ListSessionsOutput is the output for tmux_list_sessions.
type ListSessionsOutput struct {
	Sessions []tmux.Session `json:"sessions"`
}

// ListWindowsOutput is the output for tmux_list_windows.
type ListWindowsOutput struct {
	Windows []tmux.Window `json:"windows"`
}

// ListPanesOutput is the output for tmux_list_panes.
type ListPanesOutput struct {
	Panes []tmux.Pane `json:"panes"`
}

// CapturePaneInput is the input for tmux_capture_pane.
type CapturePaneInput struct {
	TargetArgs
	Lines     int   `json:"lines,omitempty" jsonschema:"Lines of scrollback to capture (default: 200)"`
	Start     *int  `json:"start,omitempty" jsonschema:"Explicit capture start line (negative = lines back from the bottom)"`
	End       *int  `json:"end,omitempty" jsonschema:"Explicit capture end line"`
	History   bool  `json:"history,omitempty" jsonschema:"Adaptive paged capture: grow the window until the pane's history is covered"`
	Budgets   []int `json:"budgets,omitempty" jsonschema:"Page sizes for history mode (default: 20,100,400)"`
	StripANSI bool  `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences"`
}

// TailPaneInput is the input for tmux_tail_pane.
type TailPaneInput struct {
	TargetArgs
	Lines      int  `json:"lines,omitempty" jsonschema:"Lines per capture (default: 20)"`
	Iterations int  `json:"iterations,omitempty" jsonschema:"Number of spaced captures (default: 1)"`
	IntervalMs int  `json:"interval_ms,omitempty" jsonschema:"Delay between captures in milliseconds (default: 1000)"`
	StripANSI  bool `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences"`
}

// TailPaneOutput is the output for tmux_tail_pane.
type TailPaneOutput struct {
	Output string `json:"output"`
}

// StreamPaneInput is the input for tmux_stream_pane.
type StreamPaneInput struct {
	TargetArgs
	DurationMs    int    `json:"duration_ms,omitempty" jsonschema:"How long to stream before returning the collected chunks (default: 5000, max: 60000)"`
	PollMs        int    `json:"poll_ms,omitempty" jsonschema:"Force the polling regime with this interval (min 50ms). Default: pipe regime with polling fallback."`
	MaxChunkBytes int    `json:"max_chunk_bytes,omitempty" jsonschema:"Chunk payload cap in bytes (default: 8192)"`
	FromSeq       uint64 `json:"from_seq,omitempty" jsonschema:"Seed for the chunk sequence counter"`
	StripANSI     bool   `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences from deltas"`
}

// StreamPaneOutput is the output for tmux_stream_pane.
type StreamPaneOutput struct {
	Chunks  []capture.Chunk `json:"chunks"`
	NextSeq uint64          `json:"next_seq"`
}

// SendKeysInput is the input for tmux_send_keys.
type SendKeysInput struct {
	TargetArgs
	Keys  string `json:"keys,omitempty" jsonschema:"Keys to send. Tokens <SPACE> <TAB> <ESC> <ENTER> map to tmux key names; anything else is sent verbatim."`
	Enter bool   `json:"enter,omitempty" jsonschema:"Append the Enter key. Required when keys is empty."`
}

// AckOutput is the output for side-effecting tools that only acknowledge.
type AckOutput struct {
	Text string `json:"text"`
}

// OpenSessionInput is the input for tmux_open_session.
type OpenSessionInput struct {
	Host    string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Session string `json:"session" jsonschema:"required,Session name to open or create"`
	Command string `json:"command,omitempty" jsonschema:"Command to run in the new session's first pane"`
}

// NewWindowInput is the input for tmux_new_window.
type NewWindowInput struct {
	TargetArgs
	Name    string `json:"name,omitempty" jsonschema:"Window name"`
	Command string `json:"command,omitempty" jsonschema:"Command to run in the window"`
}

// NewWindowOutput is the output for tmux_new_window.
type NewWindowOutput struct {
	WindowName string `json:"window_name"`
}

// SplitPaneInput is the input for tmux_split_pane.
type SplitPaneInput struct {
	TargetArgs
	Horizontal bool   `json:"horizontal,omitempty" jsonschema:"Split left/right instead of top/bottom"`
	Command    string `json:"command,omitempty" jsonschema:"Command to run in the new pane"`
}

// KillInput is the input for the tmux_kill_* tools.
type KillInput struct {
	Host    string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Target  string `json:"target" jsonschema:"required,Target to kill (session name, session:window, or pane)"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"Must be true; destructive verbs are rejected without it"`
}

// RenameInput is the input for the tmux_rename_* tools.
type RenameInput struct {
	Host   string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Target string `json:"target" jsonschema:"required,Target to rename"`
	Name   string `json:"name" jsonschema:"required,New name"`
}

// SelectInput is the input for the tmux_select_* tools.
type SelectInput struct {
	Host   string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Target string `json:"target" jsonschema:"required,Target to select"`
}

// SyncPanesInput is the input for tmux_set_sync_panes.
type SyncPanesInput struct {
	Host   string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Target string `json:"target" jsonschema:"required,Window whose panes to synchronize"`
	On     bool   `json:"on,omitempty" jsonschema:"Enable (true) or disable (false) synchronize-panes"`
}

// CaptureLayoutInput is the input for tmux_capture_layout.
type CaptureLayoutInput struct {
	Host    string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Session string `json:"session,omitempty" jsonschema:"Session whose window layouts to read (default: the default session)"`
}

// CaptureLayoutOutput is the output for tmux_capture_layout.
type CaptureLayoutOutput struct {
	Layouts map[string]string `json:"layouts"`
}

// ApplyLayoutInput is the input for tmux_apply_layout.
type ApplyLayoutInput struct {
	Host    string            `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Layouts map[string]string `json:"layouts" jsonschema:"required,Window target to layout-string mapping"`
}

// SaveLayoutInput is the input for tmux_save_layout.
type SaveLayoutInput struct {
	Name    string `json:"name" jsonschema:"required,Profile name to save under"`
	Host    string `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Session string `json:"session,omitempty" jsonschema:"Session to snapshot (default: the default session)"`
}

// LoadLayoutInput is the input for tmux_load_layout.
type LoadLayoutInput struct {
	Name string `json:"name" jsonschema:"required,Profile name to apply"`
}

// ListLayoutsOutput is the output for tmux_list_layouts.
type ListLayoutsOutput struct {
	Names []string `json:"names"`
}

// RunInput is the input for the raw tmux_run tool.
type RunInput struct {
	Host      string   `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Args      []string `json:"args" jsonschema:"required,Raw tmux argument vector"`
	Confirm   bool     `json:"confirm,omitempty" jsonschema:"Required when the argv is destructive (kill-*, unlink-*, attach-session -k)"`
	StripANSI bool     `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences from the output"`
}

// RunOutput is the output for tmux_run.
type RunOutput struct {
	Text string `json:"text"`
}

// RunBatchInput is the input for tmux_run_batch.
type RunBatchInput struct {
	TargetArgs
	Steps        []string `json:"steps" jsonschema:"required,Shell commands joined and sent as one line"`
	JoinWith     string   `json:"join_with,omitempty" jsonschema:"Joiner between steps (default: &&)"`
	CleanPrompt  bool     `json:"clean_prompt,omitempty" jsonschema:"Send C-c C-u first to clear a partially typed line"`
	CaptureLines int      `json:"capture_lines,omitempty" jsonschema:"Capture this many lines after sending (0 = no capture)"`
	StripANSI    bool     `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences from the capture"`
}

// RunBatchOutput is the output for tmux_run_batch.
type RunBatchOutput struct {
	Text      string `json:"text"`
	Capture   string `json:"capture,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// FanoutTarget is one target row of tmux_fanout.
type FanoutTarget struct {
	Host    string  `json:"host,omitempty" jsonschema:"Remote host alias. Empty means local."`
	Session string  `json:"session,omitempty" jsonschema:"Session name"`
	Window  string  `json:"window,omitempty" jsonschema:"Window index or name"`
	Pane    string  `json:"pane,omitempty" jsonschema:"Full pane target"`
	Keys    *string `json:"keys,omitempty" jsonschema:"Per-target keys override"`
}

// FanoutInput is the input for tmux_fanout.
type FanoutInput struct {
	Targets        []FanoutTarget `json:"targets" jsonschema:"required,Targets to fan out to"`
	Mode           string         `json:"mode,omitempty" jsonschema:"send_capture (default) | tail | pattern"`
	Keys           string         `json:"keys,omitempty" jsonschema:"Keys sent to every target (unless overridden per target)"`
	Enter          bool           `json:"enter,omitempty" jsonschema:"Append Enter after the keys"`
	DelayMs        int            `json:"delay_ms,omitempty" jsonschema:"Best-effort sleep between write and read"`
	CaptureLines   int            `json:"capture_lines,omitempty" jsonschema:"Capture size for send_capture and pattern modes"`
	TailLines      int            `json:"tail_lines,omitempty" jsonschema:"Lines per tail capture"`
	TailIterations int            `json:"tail_iterations,omitempty" jsonschema:"Tail iterations"`
	TailIntervalMs int            `json:"tail_interval_ms,omitempty" jsonschema:"Tail capture spacing in milliseconds"`
	Pattern        string         `json:"pattern,omitempty" jsonschema:"Regular expression tested against the capture in pattern mode"`
	PatternFlags   string         `json:"pattern_flags,omitempty" jsonschema:"Regexp flags, e.g. i, s, m"`
	StripANSI      bool           `json:"strip_ansi,omitempty" jsonschema:"Remove ANSI escape sequences from outputs"`
}

// FanoutOutput is the output for tmux_fanout.
type FanoutOutput struct {
	Results []fanout.Result `json:"results"`
	Summary string          `json:"summary"`
}

// SetDefaultInput is the input for tmux_set_default. Absent fields keep the
// previous value; explicit empty strings clear.
type SetDefaultInput struct {
	Host    *string `json:"host,omitempty" jsonschema:"Default host. Empty string clears; absent keeps."`
	Session *string `json:"session,omitempty" jsonschema:"Default session. Empty string clears; absent keeps."`
	Window  *string `json:"window,omitempty" jsonschema:"Default window. Empty string clears; absent keeps."`
	Pane    *string `json:"pane,omitempty" jsonschema:"Default pane. Empty string clears; absent keeps."`
}

// GetDefaultInput is the (empty) input for tmux_get_default.
type GetDefaultInput struct{}

// GetDefaultOutput is the output for tmux_get_default.
type GetDefaultOutput struct {
	Target tmux.PaneRef `json:"target"`
}

// ListLayoutsInput is the (empty) input for tmux_list_layouts.
type ListLayoutsInput struct{}

// ServerInfoInput is the (empty) input for tmux_server_info.
type ServerInfoInput struct{}

// SetAuditInput is the input for tmux_set_audit.
type SetAuditInput struct {
	Host    string `json:"host,omitempty" jsonschema:"Host alias. Empty means local."`
	Session string `json:"session" jsonschema:"required,Session to audit"`
	Enabled bool   `json:"enabled" jsonschema:"required,Turn auditing on or off for this host/session"`
}

// ServerInfoOutput is the output for tmux_server_info.
type ServerInfoOutput struct {
	PackageName string `json:"package_name"`
	Version     string `json:"version"`
}

// SnapshotOutput aliases the assembled snapshot for tool replies.
type SnapshotOutput = state.Snapshot
