package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vk/formgridgo/internal/model"
)

// profileFile is the YAML shape of an execution profile. Absent fields keep
// their defaults; the profile is swapped wholesale, never merged into a live
// options value.
type profileFile struct {
	TimeoutSeconds      float64 `yaml:"timeout_seconds"`
	MaxResults          int     `yaml:"max_results"`
	ProgressThresholdMs int     `yaml:"progress_threshold_ms"`
}

// loadProfile reads an execution profile from a YAML file, starting from the
// stock defaults.
func loadProfile(path string) (*model.Options, error) {
	opts := model.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read execution profile %q: %w", path, err)
	}

	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse execution profile %q: %w", path, err)
	}

	if pf.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(pf.TimeoutSeconds * float64(time.Second))
	}
	if pf.MaxResults > 0 {
		opts.MaxResults = pf.MaxResults
	}
	if pf.ProgressThresholdMs > 0 {
		opts.ProgressThreshold = time.Duration(pf.ProgressThresholdMs) * time.Millisecond
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid execution profile %q: %w", path, err)
	}
	return opts, nil
}
