package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// WindowLayout pairs a window with its opaque tmux layout string.
type WindowLayout struct {
	Index  int    `yaml:"index" json:"index"`
	Name   string `yaml:"name" json:"name"`
	Layout string `yaml:"layout" json:"layout"`
}

// LayoutProfile is a named, persistable arrangement of a session's windows.
type LayoutProfile struct {
	Name    string         `yaml:"name" json:"name"`
	Host    string         `yaml:"host,omitempty" json:"host,omitempty"`
	Session string         `yaml:"session" json:"session"`
	Windows []WindowLayout `yaml:"windows" json:"windows"`
}

// LayoutStore persists layout profiles as a name-keyed yaml mapping.
type LayoutStore struct {
	mu       sync.Mutex
	path     string
	profiles map[string]LayoutProfile
}

// OpenLayoutStore loads the store at path. A broken file is recovered to an
// empty store with a warning; the file is rewritten on the next save.
func OpenLayoutStore(path string) *LayoutStore {
	s := &LayoutStore{path: path, profiles: map[string]LayoutProfile{}}
	if path == "" {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, &s.profiles); err != nil {
		log.Printf("config: ignoring unparsable layouts file %s: %v", path, err)
		s.profiles = map[string]LayoutProfile{}
	}
	if s.profiles == nil {
		s.profiles = map[string]LayoutProfile{}
	}
	return s
}

// Save stores a profile under its name and writes the file.
func (s *LayoutStore) Save(p LayoutProfile) error {
	if p.Name == "" {
		return fmt.Errorf("layout profile name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = p
	return s.writeLocked()
}

// Get returns a profile by name.
func (s *LayoutStore) Get(name string) (LayoutProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	return p, ok
}

// Names returns all stored profile names, sorted.
func (s *LayoutStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *LayoutStore) writeLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.profiles)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
