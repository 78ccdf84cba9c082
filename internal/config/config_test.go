package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir moves into a scratch dir so a stray .mcp-tmux.yaml in the working
// tree cannot leak into the test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"MCP_TMUX_SESSION", "MCP_TMUX_HOST", "MCP_TMUX_BIN", "MCP_TMUX_TIMEOUT_MS",
		"MCP_TMUX_HOSTS_FILE", "MCP_TMUX_LOG_DIR", "MCP_TMUX_DEFAULTS_FILE",
		"MCP_TMUX_LAYOUTS_FILE", "MCP_TMUX_OTEL_ENDPOINT", "MCP_TMUX_OTEL_HEADERS",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.TmuxBin != "tmux" {
		t.Errorf("tmux bin = %q, want tmux", cfg.TmuxBin)
	}
	if cfg.TimeoutMS != 15000 {
		t.Errorf("timeout = %d, want 15000", cfg.TimeoutMS)
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	file := `
session: from-file
tmux_bin: /from/file/tmux
timeout_ms: 5000
log_dir: /var/log/from-file
`
	if err := os.WriteFile(".mcp-tmux.yaml", []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MCP_TMUX_SESSION", "from-env")
	t.Setenv("MCP_TMUX_TIMEOUT_MS", "2500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session != "from-env" {
		t.Errorf("session = %q, want env to win", cfg.Session)
	}
	if cfg.TimeoutMS != 2500 {
		t.Errorf("timeout = %d, want env to win", cfg.TimeoutMS)
	}
	if cfg.TmuxBin != "/from/file/tmux" {
		t.Errorf("tmux bin = %q, want file value", cfg.TmuxBin)
	}
	if cfg.LogDir != "/var/log/from-file" {
		t.Errorf("log dir = %q, want file value", cfg.LogDir)
	}
	if cfg.ConfigFile != ".mcp-tmux.yaml" {
		t.Errorf("config file = %q", cfg.ConfigFile)
	}
}

func TestLoadBadFileFails(t *testing.T) {
	chdir(t)
	clearEnv(t)
	if err := os.WriteFile(".mcp-tmux.yaml", []byte("{{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TmuxBin != "tmux" || cfg.TimeoutMS != 15000 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("config file = %q, want empty", cfg.ConfigFile)
	}
}

func TestLoadHostProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts.yaml")
	doc := `
build-box:
  path_add: [/opt/homebrew/bin, /usr/local/bin]
  tmux_bin: /usr/local/bin/tmux
  default_session: work
  default_pane: work:0.0
bare-box: {}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	profiles := LoadHostProfiles(path)
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}
	bb := profiles["build-box"]
	if bb.TmuxBin != "/usr/local/bin/tmux" || bb.DefaultSession != "work" {
		t.Errorf("build-box = %+v", bb)
	}
	if len(bb.PathAdd) != 2 || bb.PathAdd[0] != "/opt/homebrew/bin" {
		t.Errorf("path_add = %v", bb.PathAdd)
	}
}

func TestLoadHostProfilesRecovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts.yaml")
	if err := os.WriteFile(path, []byte("{unclosed: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	profiles := LoadHostProfiles(path)
	if len(profiles) != 0 {
		t.Errorf("profiles = %v, want empty map", profiles)
	}
	if profiles == nil {
		t.Error("profiles is nil, want empty map")
	}

	if got := LoadHostProfiles(filepath.Join(dir, "missing.yaml")); len(got) != 0 {
		t.Errorf("missing file profiles = %v", got)
	}
}

func TestLayoutStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	s := OpenLayoutStore(path)
	profile := LayoutProfile{
		Name:    "dev",
		Session: "work",
		Windows: []WindowLayout{
			{Index: 0, Name: "editor", Layout: "c3f1,204x50,0,0{102x50,0,0,1}"},
			{Index: 1, Name: "logs", Layout: "bb62,204x50,0,0,3"},
		},
	}
	if err := s.Save(profile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened := OpenLayoutStore(path)
	got, ok := reopened.Get("dev")
	if !ok {
		t.Fatal("profile not found after reopen")
	}
	if got.Session != "work" || len(got.Windows) != 2 || got.Windows[1].Layout != "bb62,204x50,0,0,3" {
		t.Errorf("profile = %+v", got)
	}
	if names := reopened.Names(); len(names) != 1 || names[0] != "dev" {
		t.Errorf("names = %v", names)
	}
}

func TestLayoutStoreRejectsUnnamed(t *testing.T) {
	s := OpenLayoutStore("")
	if err := s.Save(LayoutProfile{Session: "s"}); err == nil {
		t.Fatal("expected error for unnamed profile")
	}
}
