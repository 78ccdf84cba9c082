package defaults

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

func strPtr(s string) *string { return &s }

func TestSetAbsentKeepsEmptyClears(t *testing.T) {
	r := Load("")
	r.Set(Update{Host: strPtr("h"), Session: strPtr("work"), Pane: strPtr("work:0.0")})

	// Absent fields keep their values.
	cur := r.Set(Update{Session: strPtr("other")})
	if cur.Host != "h" || cur.Session != "other" || cur.Pane != "work:0.0" {
		t.Errorf("after partial update: %+v", cur)
	}

	// Explicit empty string clears.
	cur = r.Set(Update{Pane: strPtr("")})
	if cur.Pane != "" {
		t.Errorf("pane = %q, want cleared", cur.Pane)
	}
	if cur.Host != "h" {
		t.Errorf("host = %q, want untouched", cur.Host)
	}
}

func TestSetPane(t *testing.T) {
	r := Load("")
	r.Set(Update{Session: strPtr("s")})
	cur := r.SetPane("%7")
	if cur.Pane != "%7" || cur.Session != "s" {
		t.Errorf("after SetPane: %+v", cur)
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "defaults.json")
	r := Load(path)
	r.Set(Update{Host: strPtr("box"), Session: strPtr("work")})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read persisted file: %v", err)
	}
	var stored tmux.PaneRef
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stored.Host != "box" || stored.Session != "work" {
		t.Errorf("stored = %+v", stored)
	}

	// A fresh registry picks the record back up.
	r2 := Load(path)
	if got := r2.Get(); got.Host != "box" || got.Session != "work" {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestLoadRecoversFromBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := Load(path)
	if !r.Get().IsZero() {
		t.Errorf("registry from broken file = %+v, want zero", r.Get())
	}
}

func TestReadsDoNotBlockOnPersistence(t *testing.T) {
	// Persistence into an unwritable directory must not fail the write or
	// poison later reads.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	if err := os.MkdirAll(blocked, 0o500); err != nil {
		t.Fatal(err)
	}
	r := Load(filepath.Join(blocked, "sub", "defaults.json"))
	cur := r.Set(Update{Session: strPtr("s")})
	if cur.Session != "s" {
		t.Errorf("Set returned %+v despite persistence failure", cur)
	}
	if got := r.Get(); got.Session != "s" {
		t.Errorf("Get = %+v", got)
	}
}
