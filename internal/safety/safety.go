// Package safety classifies destructive tmux verbs, enforces confirmation,
// and tracks per-target audit enablement.
package safety

import (
	"strings"
	"sync"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// destructiveVerbs are verbs that remove multiplexer state outright.
var destructiveVerbs = map[string]bool{
	"kill-session":  true,
	"kill-window":   true,
	"kill-pane":     true,
	"kill-server":   true,
	"unlink-window": true,
	"unlink-pane":   true,
}

// IsDestructiveVerb reports whether a single verb is destructive. Any verb
// beginning with "kill-" counts, known or not.
func IsDestructiveVerb(verb string) bool {
	return destructiveVerbs[verb] || strings.HasPrefix(verb, "kill-")
}

// IsDestructive classifies a raw argv: the first argument is the verb, and
// attach-session with -k forcibly steals an attachment.
func IsDestructive(args []string) bool {
	if len(args) == 0 {
		return false
	}
	if IsDestructiveVerb(args[0]) {
		return true
	}
	if args[0] == "attach-session" {
		for _, a := range args {
			if a == "-k" {
				return true
			}
		}
	}
	return false
}

// Gate enforces the confirmation requirement and holds the process-wide
// audit enablement map. Single writer, lock-free-ish reads via RWMutex.
type Gate struct {
	mu    sync.RWMutex
	audit map[string]bool
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{audit: map[string]bool{}}
}

// Check validates the host and rejects unconfirmed destructive argvs before
// any transport call is made.
func (g *Gate) Check(host string, args []string, confirm bool) error {
	if err := tmux.ValidateHost(host); err != nil {
		return err
	}
	if IsDestructive(args) && !confirm {
		return tmux.ErrConfirmRequired
	}
	return nil
}

// SetAudit enables or disables auditing for a host/session pair.
func (g *Gate) SetAudit(host, session string, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := host + ":" + session
	if on {
		g.audit[key] = true
	} else {
		delete(g.audit, key)
	}
}

// AuditEnabled reports whether auditing is on for a host/session pair.
func (g *Gate) AuditEnabled(host, session string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.audit[host+":"+session]
}
