// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// and environment variable support.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wudragonfly/mdview/pkg/engine"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool
}

// LoadResult contains the resolved settings and metadata.
type LoadResult struct {
	// Settings is the final merged configuration.
	Settings engine.Settings

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string
}

// Load resolves the final settings by merging all sources.
// Precedence (highest to lowest):
//  1. Environment variables (MDVIEW_*)
//  2. Explicit config file (opts.ExplicitPath)
//  3. Project config (.mdview.yml upward search)
//  4. User config ($XDG_CONFIG_HOME/mdview/config.yaml)
//  5. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{
		Settings: engine.DefaultSettings(),
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result.Paths = paths

	// Merge lower-precedence files first; later files override only the
	// keys they set.
	sources := []string{}
	if !opts.IgnoreUserConfig && paths.User != "" {
		sources = append(sources, paths.User)
	}
	if paths.Explicit != "" {
		// An explicit path replaces project discovery entirely.
		sources = append(sources, paths.Explicit)
	} else if paths.Project != "" {
		sources = append(sources, paths.Project)
	}

	for _, path := range sources {
		if err := loadFile(path, &result.Settings); err != nil {
			return nil, err
		}
		result.LoadedFrom = append(result.LoadedFrom, path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(&result.Settings); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// loadFile decodes one YAML config file over the given settings.
// Unknown keys are an error so that typos surface instead of being ignored.
func loadFile(path string, settings *engine.Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
