// Package mcp mounts the execution and streaming core as MCP tools over
// stdio. Every verb resolves its target fresh; the destructive verbs and the
// raw argv verb pass the safety gate; side effects are recorded through the
// session and audit sinks.
package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/k8ika0s/mcp-tmux/internal/capture"
	"github.com/k8ika0s/mcp-tmux/internal/config"
	"github.com/k8ika0s/mcp-tmux/internal/defaults"
	"github.com/k8ika0s/mcp-tmux/internal/fanout"
	"github.com/k8ika0s/mcp-tmux/internal/logging"
	"github.com/k8ika0s/mcp-tmux/internal/safety"
	"github.com/k8ika0s/mcp-tmux/internal/state"
	"github.com/k8ika0s/mcp-tmux/internal/telemetry"
	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

const (
	ServerName    = "mcp-tmux"
	ServerVersion = "0.1.0"
)

// Server wires the core components behind the tool surface.
type Server struct {
	mcpServer *mcpsdk.Server
	cfg       *config.Config

	client      *tmux.Client
	ops         *tmux.Ops
	engine      *capture.Engine
	assembler   *state.Assembler
	coordinator *fanout.Coordinator
	gate        *safety.Gate
	registry    *defaults.Registry
	layouts     *config.LayoutStore
	sink        *logging.Sink
	metrics     *telemetry.Metrics
}

// NewServer builds a Server from configuration. Host profiles and the
// default-target registry are loaded once here; both recover from broken
// files rather than failing startup.
func NewServer(cfg *config.Config, metrics *telemetry.Metrics) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	profiles := config.LoadHostProfiles(cfg.HostsFile)
	registry := defaults.Load(cfg.DefaultsFile)
	if cfg.Host != "" || cfg.Session != "" {
		seedRegistry(registry, cfg)
	}

	client := tmux.NewClient(cfg.TmuxBin, cfg.PathAdd, time.Duration(cfg.TimeoutMS)*time.Millisecond)
	client.Profiles = profiles
	if metrics != nil {
		client.OnRun = func(host string, args []string, d time.Duration, err error) {
			metrics.RecordRun(host, d, err)
		}
	}

	resolver := &tmux.Resolver{Fallback: registry.Get, Profiles: profiles}
	ops := &tmux.Ops{Client: client, Resolver: resolver}
	engine := capture.NewEngine(ops)

	s := &Server{
		cfg:         cfg,
		client:      client,
		ops:         ops,
		engine:      engine,
		assembler:   &state.Assembler{Ops: ops, Engine: engine},
		coordinator: &fanout.Coordinator{Ops: ops, Engine: engine},
		gate:        safety.NewGate(),
		registry:    registry,
		layouts:     config.OpenLayoutStore(cfg.LayoutsFile),
		sink:        logging.NewSink(cfg.LogDir),
		metrics:     metrics,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run serves MCP on stdio, blocking until ctx is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// seedRegistry applies config-level default host/session without clearing
// anything already persisted.
func seedRegistry(registry *defaults.Registry, cfg *config.Config) {
	cur := registry.Get()
	var u defaults.Update
	if cfg.Host != "" && cur.Host == "" {
		h := cfg.Host
		u.Host = &h
	}
	if cfg.Session != "" && cur.Session == "" {
		sess := cfg.Session
		u.Session = &sess
	}
	if u.Host != nil || u.Session != nil {
		registry.Set(u)
	}
}

// logSideEffect records a side-effecting verb. Session logs are always on
// when a log dir is configured; audit records additionally require the
// host/session pair to be enabled.
func (s *Server) logSideEffect(host, session, event, meta string) {
	s.sink.Session(host, session, event)
	if s.gate.AuditEnabled(host, session) {
		s.sink.Audit(host, session, event, meta)
	}
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_state",
		Description: "Grounded snapshot of a tmux server: session/window/pane inventory plus a fresh capture of the chosen pane. Nothing is cached; every call re-queries tmux.",
	}, s.handleState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_list_sessions",
		Description: "List sessions as parsed records (id, name, windows, attached, created).",
	}, s.handleListSessions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_list_windows",
		Description: "List windows, scoped to a session when one is given.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_list_panes",
		Description: "List panes, scoped to a session when one is given.",
	}, s.handleListPanes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_capture_pane",
		Description: "Capture pane scrollback. With history=true, page through growing line budgets until the pane's history is covered instead of guessing a size.",
	}, s.handleCapturePane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_tail_pane",
		Description: "Take several spaced captures of a pane and return them as labelled sections. Bounded: at most iterations captures.",
	}, s.handleTailPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_stream_pane",
		Description: "Stream live pane output for a bounded duration and return the collected chunks. Prefers pipe-pane into a FIFO; falls back to polling with suffix-delta extraction. Chunks carry strictly increasing sequence numbers; pass next_seq back as from_seq to continue.",
	}, s.handleStreamPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_send_keys",
		Description: "Send keys to a pane. Tokens <SPACE> <TAB> <ESC> <ENTER> map to tmux key names; enter=true appends Enter. Returns a synchronous acknowledgment.",
	}, s.handleSendKeys)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_open_session",
		Description: "Open a session: create it detached if it does not exist, then make it the default target.",
	}, s.handleOpenSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_new_window",
		Description: "Create a window in a session and return its final name.",
	}, s.handleNewWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_split_pane",
		Description: "Split a pane horizontally or vertically, optionally running a command in the new pane.",
	}, s.handleSplitPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_kill_session",
		Description: "Kill a session. Destructive: requires confirm=true.",
	}, s.handleKillSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_kill_window",
		Description: "Kill a window. Destructive: requires confirm=true.",
	}, s.handleKillWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_kill_pane",
		Description: "Kill a pane. Destructive: requires confirm=true.",
	}, s.handleKillPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_rename_session",
		Description: "Rename a session.",
	}, s.handleRenameSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_rename_window",
		Description: "Rename a window.",
	}, s.handleRenameWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_select_window",
		Description: "Select a window and remember it as the default target.",
	}, s.handleSelectWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_select_pane",
		Description: "Select a pane and remember it as the default target.",
	}, s.handleSelectPane)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_set_sync_panes",
		Description: "Toggle synchronize-panes on a window so keys go to all panes at once.",
	}, s.handleSetSyncPanes)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_capture_layout",
		Description: "Read the opaque layout strings of a session's windows.",
	}, s.handleCaptureLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_apply_layout",
		Description: "Apply layout strings to windows via select-layout.",
	}, s.handleApplyLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_save_layout",
		Description: "Snapshot a session's window layouts into a named profile.",
	}, s.handleSaveLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_load_layout",
		Description: "Apply a named layout profile.",
	}, s.handleLoadLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_list_layouts",
		Description: "List saved layout profile names.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_run",
		Description: "Run a raw tmux argument vector. Destructive argvs (kill-*, unlink-*, attach-session -k) require confirm=true.",
	}, s.handleRun)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_run_batch",
		Description: "Join shell steps with a joiner (default &&), send them to a pane as one line, optionally capturing output afterward.",
	}, s.handleRunBatch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_fanout",
		Description: "Run one request against many targets concurrently. Per-target failures are embedded in the result rows; the call itself only fails on malformed input.",
	}, s.handleFanout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_set_default",
		Description: "Update the process-wide default target. Absent fields keep their value; explicit empty strings clear.",
	}, s.handleSetDefault)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_get_default",
		Description: "Read the process-wide default target.",
	}, s.handleGetDefault)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_set_audit",
		Description: "Enable or disable audit logging for a host/session pair.",
	}, s.handleSetAudit)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tmux_server_info",
		Description: "Report the server's package name and version.",
	}, s.handleServerInfo)
}
