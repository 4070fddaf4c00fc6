// Package cli implements the parti command-line interface.
//
// This package provides commands for generating building geometry from
// design specifications, validating generated models, gating rendered
// panel batches, and serving the engine over HTTP. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - generate: Run the geometry pipeline for a specification file
//   - validate: Check a specification or stored model for consistency
//   - gate: Run consistency gates over a panel manifest
//   - diagram: Emit the room adjacency graph as DOT or SVG
//   - inspect: Browse a generated model interactively
//   - serve: Expose the pipeline and gates over HTTP
//   - cache: Manage the local design cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/parti-studio/parti/pkg/buildinfo"
	"github.com/parti-studio/parti/pkg/cache"
	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/pipeline"
	"github.com/parti-studio/parti/pkg/spec"
)

// appName is the application name used for directories and display.
const appName = "parti"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "parti",
		Short:        "Parti synthesizes building geometry from design programs",
		Long:         `Parti is a CLI tool for generating consistent building geometry (floor plans, stairs, facades) from a room program, and for gating rendered drawing sets against the generated ground truth.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.gateCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/parti/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// loadRawSpec reads a specification file in JSON or TOML form. The
// shape is the loose wire shape; callers adapt it before use.
func loadRawSpec(path string) (spec.RawSpecification, error) {
	var raw spec.RawSpecification
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, errors.Wrap(errors.ErrCodeFileNotFound, err, "read specification %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return raw, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse specification %s", path)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return raw, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse specification %s", path)
		}
	}
	return raw, nil
}

// loadModel reads a previously generated building model from JSON.
func loadModel(path string) (*model.BuildingModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read model %s", path)
	}
	var m model.BuildingModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse model %s", path)
	}
	return &m, nil
}

// writeFileReport writes data to path, creating parent directories.
func writeFileReport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
