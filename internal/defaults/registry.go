// Package defaults holds the process-wide default target: the PaneRef used
// when a caller omits components.
package defaults

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// Registry is the default-target record. Writes go through a single mutex;
// reads take a snapshot copy so no lock spans caller work.
type Registry struct {
	mu   sync.RWMutex
	cur  tmux.PaneRef
	path string
}

// Load reads a persisted registry from path. A missing or unparsable file
// yields an empty registry; path is remembered for later persistence. An
// empty path disables persistence.
func Load(path string) *Registry {
	r := &Registry{path: path}
	if path == "" {
		return r
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return r
	}
	var stored tmux.PaneRef
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Printf("defaults: ignoring unparsable %s: %v", path, err)
		return r
	}
	r.cur = stored
	return r
}

// Get returns a snapshot of the current default target.
func (r *Registry) Get() tmux.PaneRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// Update carries the fields of a write. A nil field leaves the previous
// value; a non-nil empty string clears it.
type Update struct {
	Host    *string
	Session *string
	Window  *string
	Pane    *string
}

// Set applies an update and returns the resulting record. Persistence is
// best-effort and never fails the call.
func (r *Registry) Set(u Update) tmux.PaneRef {
	r.mu.Lock()
	if u.Host != nil {
		r.cur.Host = *u.Host
	}
	if u.Session != nil {
		r.cur.Session = *u.Session
	}
	if u.Window != nil {
		r.cur.Window = *u.Window
	}
	if u.Pane != nil {
		r.cur.Pane = *u.Pane
	}
	cur := r.cur
	r.mu.Unlock()

	r.persist(cur)
	return cur
}

// SetPane updates only the default pane. select-window and select-pane use
// this so later unqualified calls hit the pane the agent just focused.
func (r *Registry) SetPane(pane string) tmux.PaneRef {
	p := pane
	return r.Set(Update{Pane: &p})
}

func (r *Registry) persist(cur tmux.PaneRef) {
	if r.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		log.Printf("defaults: persist failed: %v", err)
		return
	}
	data, err := json.MarshalIndent(cur, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		log.Printf("defaults: persist failed: %v", err)
	}
}
