package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ProjectConfigFile is the per-project override file name.
const ProjectConfigFile = ".corbat.json"

// ProjectConfig is the optional .corbat.json in a target project.
type ProjectConfig struct {
	Profile   string            `json:"profile,omitempty"`
	Rules     ProjectRules      `json:"rules"`
	Decisions map[string]string `json:"decisions,omitempty"`
}

// ProjectRules are free-text rules appended to the context bundle.
type ProjectRules struct {
	Always []string `json:"always,omitempty"`
	Never  []string `json:"never,omitempty"`
}

// IsEmpty reports whether the config carries nothing worth rendering.
func (p *ProjectConfig) IsEmpty() bool {
	return p == nil || (p.Profile == "" && len(p.Rules.Always) == 0 &&
		len(p.Rules.Never) == 0 && len(p.Decisions) == 0)
}

// LoadProjectConfig reads dir/.corbat.json. A file that is missing or
// cannot be read returns (nil, nil), as does a dir that is not a readable
// directory. Only malformed JSON is an error.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	if dir == "" {
		return nil, nil
	}

	path := filepath.Join(dir, ProjectConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if unreadable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ProjectConfigFile, err)
	}

	var pc ProjectConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ProjectConfigFile, err)
	}
	return &pc, nil
}

// unreadable reports whether err means there is no usable project config.
func unreadable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.EISDIR)
}
