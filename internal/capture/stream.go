package capture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

const (
	// DefaultMaxChunkBytes bounds the data payload of a single chunk.
	DefaultMaxChunkBytes = 8192
	// minPollInterval floors caller-supplied poll cadences.
	minPollInterval = 50 * time.Millisecond
)

// Chunk is the unit of streamed pane output. Within a stream, Seq is
// strictly increasing; heartbeats carry no data; the last chunk has EOF set.
type Chunk struct {
	Target    tmux.PaneRef `json:"target"`
	Seq       uint64       `json:"seq"`
	TS        int64        `json:"ts_unix_millis"`
	Data      []byte       `json:"data,omitempty"`
	Heartbeat bool         `json:"heartbeat,omitempty"`
	EOF       bool         `json:"eof,omitempty"`
	Reason    string       `json:"reason,omitempty"`
}

// StreamOptions tune a live stream.
type StreamOptions struct {
	// FromSeq seeds the sequence counter; the first chunk is FromSeq+1.
	FromSeq uint64
	// PollInterval forces the polling regime when set.
	PollInterval time.Duration
	// MaxChunkBytes caps chunk payloads; defaults to DefaultMaxChunkBytes.
	MaxChunkBytes int
	// CaptureLines sizes each polling capture; defaults to DefaultCaptureLines.
	CaptureLines int
	// StripANSI removes escape sequences from deltas before emission.
	StripANSI bool
}

// SendFunc receives chunks synchronously; a slow consumer throttles the
// producer.
type SendFunc func(Chunk) error

// pipeReaderFunc opens the byte source behind the pipe regime's FIFO.
type pipeReaderFunc func(ctx context.Context, host, fifoPath string) (io.ReadCloser, error)

// Stream emits pane output as chunks until the context is canceled or the
// byte source ends. The pipe regime is preferred; the polling regime is
// forced by opts.PollInterval and is also the fallback whenever pipe setup
// fails.
func (e *Engine) Stream(ctx context.Context, ref tmux.PaneRef, opts StreamOptions, send SendFunc) error {
	resolved, pane, err := e.Ops.Resolver.Resolve(ref)
	if err != nil {
		return err
	}

	maxBytes := opts.MaxChunkBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxChunkBytes
	}
	interval := e.PollInterval
	forcePoll := false
	if opts.PollInterval > 0 {
		forcePoll = true
		interval = opts.PollInterval
		if interval < minPollInterval {
			interval = minPollInterval
		}
	}

	st := &stream{
		engine:   e,
		target:   resolved,
		pane:     pane,
		seq:      opts.FromSeq,
		maxBytes: maxBytes,
		strip:    opts.StripANSI,
		send:     send,
	}

	if !forcePoll {
		if err := st.runPipe(ctx); err == nil {
			return nil
		}
		// Pipe setup failed; the polling regime is the deterministic fallback.
	}
	return st.runPoll(ctx, interval, opts.CaptureLines)
}

// stream holds per-stream emission state.
type stream struct {
	engine   *Engine
	target   tmux.PaneRef
	pane     string
	seq      uint64
	maxBytes int
	strip    bool
	send     SendFunc
}

// emit increments seq before every emission and stamps the chunk.
func (st *stream) emit(data []byte, heartbeat, eof bool, reason string) error {
	st.seq++
	c := Chunk{
		Target:    st.target,
		Seq:       st.seq,
		TS:        time.Now().UnixMilli(),
		Data:      data,
		Heartbeat: heartbeat,
		EOF:       eof,
		Reason:    reason,
	}
	if st.engine.OnChunk != nil {
		st.engine.OnChunk(c)
	}
	return st.send(c)
}

// emitData splits data at maxBytes and emits the pieces in order.
func (st *stream) emitData(data []byte) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > st.maxBytes {
			chunk = data[:st.maxBytes]
			data = data[st.maxBytes:]
		} else {
			data = nil
		}
		if err := st.emit(chunk, false, false, ""); err != nil {
			return err
		}
	}
	return nil
}

// runPoll captures on a ticker and emits suffix deltas. A heartbeat ticker
// keeps quiet streams alive.
func (st *stream) runPoll(ctx context.Context, interval time.Duration, captureLines int) error {
	if captureLines <= 0 {
		captureLines = DefaultCaptureLines
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	heartbeat := time.NewTicker(st.engine.HeartbeatInterval)
	defer heartbeat.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, out, err := st.engine.Ops.CapturePane(ctx, st.target, -captureLines, nil)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				_ = st.emit(nil, false, true, fmt.Sprintf("capture failed: %v", err))
				return err
			}
			if st.strip {
				out = StripANSI(out)
			}
			if out == last {
				if err := st.emit(nil, true, false, ""); err != nil {
					return err
				}
				continue
			}
			delta := out
			if strings.HasPrefix(out, last) {
				delta = out[len(last):]
			}
			truncated := len(delta) > st.maxBytes
			if err := st.emitData([]byte(delta)); err != nil {
				return err
			}
			if truncated {
				if err := st.emit(nil, false, false, "truncated"); err != nil {
					return err
				}
			}
			last = out
		case <-heartbeat.C:
			if err := st.emit(nil, true, false, ""); err != nil {
				return err
			}
		}
	}
}

// runPipe duplicates the pane's output into a FIFO via pipe-pane and
// forwards the bytes as chunks. Cleanup always turns pipe-pane off and
// removes the temporary directory.
func (st *stream) runPipe(ctx context.Context) error {
	ops := st.engine.Ops
	host := st.target.Host

	var fifoPath string
	var cleanup func()
	if host == "" {
		dir, err := os.MkdirTemp("", "mcp-tmux-pipe-")
		if err != nil {
			return err
		}
		fifoPath = filepath.Join(dir, "pipe")
		if err := unix.Mkfifo(fifoPath, 0o600); err != nil {
			_ = os.RemoveAll(dir)
			return err
		}
		cleanup = func() { _ = os.RemoveAll(dir) }
	} else {
		dir := fmt.Sprintf("/tmp/mcp-tmux-%d-%s", time.Now().UnixNano(), sanitizePathSegment(st.pane))
		fifoPath = dir + "/pipe"
		mk := fmt.Sprintf("mkdir -p %s && rm -f %s && mkfifo %s", dir, fifoPath, fifoPath)
		if err := ops.RunShell(ctx, host, mk); err != nil {
			return err
		}
		cleanup = func() {
			_ = ops.RunShell(context.Background(), host, fmt.Sprintf("rm -rf %s", dir))
		}
	}

	if err := ops.PipePane(ctx, host, st.pane, fmt.Sprintf("cat >> %s", fifoPath)); err != nil {
		cleanup()
		return err
	}

	open := st.engine.pipeReader
	if open == nil {
		open = defaultPipeReader
	}
	reader, err := open(ctx, host, fifoPath)
	if err != nil {
		_ = ops.PipePaneOff(context.Background(), host, st.pane)
		cleanup()
		return err
	}

	defer cleanup()
	defer func() { _ = ops.PipePaneOff(context.Background(), host, st.pane) }()
	defer reader.Close()

	return st.forward(ctx, reader)
}

// forward pumps bytes from the reader into chunks, with heartbeats while
// the pane is quiet. EOF ends the stream with a terminal chunk.
func (st *stream) forward(ctx context.Context, reader io.Reader) error {
	heartbeat := time.NewTicker(st.engine.HeartbeatInterval)
	defer heartbeat.Stop()

	buffered := bufio.NewReader(reader)
	done := make(chan error, 1)
	go func() {
		for {
			buf := make([]byte, 4096)
			n, readErr := buffered.Read(buf)
			if n > 0 {
				data := buf[:n]
				if st.strip {
					data = []byte(StripANSI(string(data)))
				}
				if err := st.emitData(data); err != nil {
					done <- err
					return
				}
			}
			if readErr != nil {
				if readErr == io.EOF {
					done <- nil
				} else {
					done <- readErr
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			if err != nil {
				return err
			}
			return st.emit(nil, false, true, "eof")
		case <-heartbeat.C:
			if err := st.emit(nil, true, false, ""); err != nil {
				return err
			}
		}
	}
}

// defaultPipeReader opens the FIFO locally, or consumes it through an ssh
// cat subprocess for remote hosts. The subprocess dies with the context.
func defaultPipeReader(ctx context.Context, host, fifoPath string) (io.ReadCloser, error) {
	if host == "" {
		return os.Open(fifoPath)
	}
	cmd := exec.CommandContext(ctx, "ssh", "-T", host, "cat", fifoPath)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		_ = cmd.Process.Kill()
	}()
	go func() { _ = cmd.Wait() }()
	return stdout, nil
}

// sanitizePathSegment keeps remote temp paths shell-safe: letters, digits,
// and / - _ . % are kept; anything else, including the : of session:window
// tokens, becomes _.
func sanitizePathSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '/' || r == '-' || r == '_' || r == '.' || r == '%':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
