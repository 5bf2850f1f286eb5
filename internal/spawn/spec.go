package spawn

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Spec describes a process to launch. A Spec is treated as immutable once a
// process has been started from it; callers wanting to vary it should Clone
// first.
type Spec struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
	Stdin   string            `yaml:"stdin"`
}

// Clone returns a deep copy of the spec.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	dup := &Spec{
		Command: s.Command,
		Dir:     s.Dir,
		Stdin:   s.Stdin,
	}
	if len(s.Args) > 0 {
		dup.Args = append([]string(nil), s.Args...)
	}
	if len(s.Env) > 0 {
		dup.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			dup.Env[k] = v
		}
	}
	return dup
}

// Load reads a spawn spec from a YAML file.
func Load(path string) (*Spec, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve spec path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open spec file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var spec Spec
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}
	if spec.Command == "" {
		return nil, fmt.Errorf("%s: spec has no command", absPath)
	}
	return &spec, nil
}
