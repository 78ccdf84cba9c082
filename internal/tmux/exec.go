package tmux

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every subprocess invocation unless overridden.
const DefaultTimeout = 15 * time.Second

// BuildPath merges PATH additions into a colon-separated string without
// duplicates, preserving the order of the current entries and of the
// additions.
func BuildPath(current string, additions []string) string {
	seen := map[string]bool{}
	parts := []string{}
	if current != "" {
		for _, p := range strings.Split(current, ":") {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			parts = append(parts, p)
		}
	}
	for _, a := range additions {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		parts = append(parts, a)
	}
	return strings.Join(parts, ":")
}

// Quote returns s as a single POSIX shell word using single-quote rules.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RemoteCommand builds the single line handed to the remote login shell.
// The real command is base64-wrapped so the remote shell never interprets
// tmux format tokens like #{session_name}.
func RemoteCommand(path, bin string, args []string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, Quote(bin))
	for _, a := range args {
		quoted = append(quoted, Quote(a))
	}
	commandStr := fmt.Sprintf("PATH=%s exec %s", path, strings.Join(quoted, " "))
	b64 := base64.StdEncoding.EncodeToString([]byte(commandStr))
	return fmt.Sprintf("printf '%%s' %s | base64 -d | sh", Quote(b64))
}

// Runner executes an argv locally (host == "") or on a remote host, and
// returns stdout with the trailing newline stripped. Tests substitute fakes.
type Runner func(ctx context.Context, host, bin string, pathAdd, args []string) (string, error)

// Exec is the production Runner. Local invocations run the binary directly
// (no shell) with the composed PATH in the child environment; remote
// invocations go through "ssh -T" with the base64-wrapped command line.
func Exec(ctx context.Context, host, bin string, pathAdd, args []string) (string, error) {
	if err := ValidateHost(host); err != nil {
		return "", err
	}
	basePath := BuildPath(os.Getenv("PATH"), pathAdd)

	var cmd *exec.Cmd
	if host != "" {
		cmd = exec.CommandContext(ctx, "ssh", "-T", host, RemoteCommand(basePath, bin, args))
	} else {
		cmd = exec.CommandContext(ctx, bin, args...)
		cmd.Env = append(os.Environ(), "PATH="+basePath)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return stdout.String(), ErrTimeout
			}
			return stdout.String(), ErrCanceled
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return stdout.String(), &TransportError{
			Stderr:   stderr.String(),
			Stdout:   stdout.String(),
			ExitCode: exitCode,
			Err:      err,
		}
	}
	return strings.TrimSuffix(stdout.String(), "\n"), nil
}

// HostProfile carries per-host overrides from the hosts file.
type HostProfile struct {
	PathAdd        []string `yaml:"path_add"`
	TmuxBin        string   `yaml:"tmux_bin"`
	DefaultSession string   `yaml:"default_session"`
	DefaultPane    string   `yaml:"default_pane"`
}

// Client runs tmux commands through a Runner with a bounded deadline and
// per-host profile overrides applied.
type Client struct {
	Bin      string
	PathAdd  []string
	Timeout  time.Duration
	Profiles map[string]HostProfile
	Runner   Runner

	// OnRun, when set, observes every invocation. Used for telemetry.
	OnRun func(host string, args []string, d time.Duration, err error)
}

// NewClient returns a Client using the production Runner.
func NewClient(bin string, pathAdd []string, timeout time.Duration) *Client {
	if bin == "" {
		bin = "tmux"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Bin: bin, PathAdd: pathAdd, Timeout: timeout, Runner: Exec}
}

// Run executes a tmux argv on host, applying the host profile's binary and
// PATH additions when one exists.
func (c *Client) Run(ctx context.Context, host string, args []string) (string, error) {
	bin, pathAdd := c.Bin, c.PathAdd
	if hp, ok := c.Profiles[host]; ok {
		if hp.TmuxBin != "" {
			bin = hp.TmuxBin
		}
		if len(hp.PathAdd) > 0 {
			pathAdd = append(append([]string{}, pathAdd...), hp.PathAdd...)
		}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := c.Runner(runCtx, host, bin, pathAdd, args)
	if err != nil && runCtx.Err() != nil {
		// The Runner may surface the raw context error; normalize it.
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrCanceled) {
			err = ErrTimeout
		} else if ctx.Err() != nil {
			err = ErrCanceled
		}
	}
	if c.OnRun != nil {
		c.OnRun(host, args, time.Since(start), err)
	}
	return out, err
}
