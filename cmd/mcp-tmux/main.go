package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mcp-tmux",
	Short: "MCP server that lets an agent observe and drive tmux sessions",
	Long: `mcp-tmux mediates between a tool-calling agent and tmux sessions on
local and remote hosts. It exposes list/capture/send-keys/split/kill/layout
verbs as MCP tools, with grounded state (every query pulled fresh from
tmux), a destructive-verb confirmation gate, and optional audit logging.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mcp-tmux version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mcp-tmux %s\n", Version)
	},
}
