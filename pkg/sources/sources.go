// Package sources loads the source groups the harvester searches. A group is a set
// of Infomedia source codes (newspapers) harvested together in one search.
package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is one harvested group of Infomedia source codes.
type Source struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Codes       []string `json:"codes" yaml:"codes"`
	WindowHours int      `json:"window_hours" yaml:"window_hours"`
	Enabled     *bool    `json:"enabled" yaml:"enabled"`
}

type registryFile struct {
	Sources []Source `json:"sources" yaml:"sources"`
}

// Registry holds source groups loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	sources []Source
	idx     map[string]Source
}

// LoadRegistry loads source groups from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Sources)
}

// NewRegistry validates and indexes the given source groups.
func NewRegistry(list []Source) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	reg := &Registry{
		sources: make([]Source, len(list)),
		idx:     make(map[string]Source, len(list)),
	}
	for i := range list {
		s := sanitizeSource(list[i])
		if err := validateSource(s); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate source id %q", s.ID)
		}
		reg.sources[i] = s
		reg.idx[s.ID] = s
	}
	return reg, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg registryFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

func sanitizeSource(s Source) Source {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = s.ID
	}

	seen := make(map[string]struct{}, len(s.Codes))
	codes := make([]string, 0, len(s.Codes))
	for _, c := range s.Codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		codes = append(codes, c)
	}
	sort.Strings(codes)
	s.Codes = codes

	if s.WindowHours < 0 {
		s.WindowHours = 0
	}
	if s.Enabled == nil {
		def := true
		s.Enabled = &def
	}
	return s
}

func validateSource(s Source) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if len(s.Codes) == 0 {
		return fmt.Errorf("at least one source code is required for source %q", s.ID)
	}
	return nil
}

// All returns every configured source group.
func (r *Registry) All() []Source {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Enabled returns the source groups that should be harvested.
func (r *Registry) Enabled() []Source {
	all := r.All()
	out := make([]Source, 0, len(all))
	for _, s := range all {
		if s.EnabledValue() {
			out = append(out, s)
		}
	}
	return out
}

// ByID returns the source group with the given id.
func (r *Registry) ByID(id string) (Source, bool) {
	if r == nil {
		return Source{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Source{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.idx[id]
	return s, ok
}

// EnabledValue returns the enabled flag defaulting to true.
func (s Source) EnabledValue() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Window returns the search window for the group, or fallback when unset.
func (s Source) Window(fallback time.Duration) time.Duration {
	if s.WindowHours <= 0 {
		return fallback
	}
	return time.Duration(s.WindowHours) * time.Hour
}
