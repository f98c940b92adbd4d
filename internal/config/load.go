package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// maxConfigSize guards against accidentally pointing Load at a video file.
const maxConfigSize = 1 * 1024 * 1024 // 1MB

// Load reads, parses, validates, and georeferences a station configuration
// in one pass. It is all-or-nothing: on any failure no partial Config is
// observable. Schema violations wrap ErrFormat; GCP failures carry the
// sentinel errors of the gcp package.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("%w: config file must have .json extension, got %q", ErrFormat, ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("%w: config file too large: %d bytes (max %d)", ErrFormat, fileInfo.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a validated Config from raw JSON. Exposed separately from
// Load so tests and embedded callers can bypass the filesystem.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	// Resolve the control points last: the schema must be sound before any
	// reconstruction is attempted.
	if err := cfg.Dataset.GCP.Resolve(); err != nil {
		return nil, fmt.Errorf("invalid gcp section: %w", err)
	}
	return cfg, nil
}
