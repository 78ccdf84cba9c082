package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/k8ika0s/mcp-tmux/internal/config"
	"github.com/k8ika0s/mcp-tmux/internal/mcp"
	"github.com/k8ika0s/mcp-tmux/internal/telemetry"
)

var flagLogColor bool

func init() {
	serveCmd.Flags().BoolVar(&flagLogColor, "log-color", true, "colorize stderr logs when stderr is a terminal")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Start the MCP server on stdio. Designed to be invoked by MCP clients
such as Claude Code or Claude Desktop:

  claude mcp add tmux -- mcp-tmux serve

stdout carries the MCP protocol; all operational logging goes to stderr.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// stdout is the protocol channel; keep the stdlib logger off it.
		log.SetOutput(os.Stderr)
		if flagLogColor && !term.IsTerminal(int(os.Stderr.Fd())) {
			flagLogColor = false
		}
		log.SetPrefix(logPrefix(flagLogColor))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		telemetry.Version = Version
		tel, err := telemetry.Init(ctx, telemetry.Config{
			Endpoint: cfg.OTELEndpoint,
			Headers:  cfg.OTELHeaders,
		})
		if err != nil {
			return err
		}
		defer tel.Shutdown(context.Background())

		server, err := mcp.NewServer(cfg, tel.Metrics)
		if err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		return server.Run(ctx)
	},
}

func logPrefix(color bool) string {
	if color {
		return "\033[36mmcp-tmux\033[0m "
	}
	return "mcp-tmux "
}
