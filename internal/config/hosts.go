package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/k8ika0s/mcp-tmux/internal/tmux"
)

// LoadHostProfiles reads the host-profile document. The document is keyed
// by host alias:
//
//	build-box:
//	  path_add: [/opt/homebrew/bin, /usr/local/bin]
//	  tmux_bin: /usr/local/bin/tmux
//	  default_session: work
//	  default_pane: work:0.0
//
// Parse and read failures are recovered: the profiles are a convenience, so
// a broken file degrades to an empty map with a warning rather than
// refusing to start.
func LoadHostProfiles(path string) map[string]tmux.HostProfile {
	if path == "" {
		return map[string]tmux.HostProfile{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]tmux.HostProfile{}
	}
	var profiles map[string]tmux.HostProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		log.Printf("config: ignoring unparsable hosts file %s: %v", path, err)
		return map[string]tmux.HostProfile{}
	}
	if profiles == nil {
		profiles = map[string]tmux.HostProfile{}
	}
	return profiles
}
