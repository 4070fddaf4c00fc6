package spec

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/parti-studio/parti/pkg/errors"
)

// Config is the immutable engine configuration threaded explicitly
// through every pipeline and gate call. There is no process-wide
// mutable configuration; callers that need different behavior pass a
// different Config value.
type Config struct {
	// AreaTolerance is the allowed fractional drift between a room's
	// locked target area and its packed actual area before the program
	// compliance gate reports a violation.
	AreaTolerance float64 `toml:"area_tolerance"`

	// CirculationWidth is the minimum clear width in metres preserved
	// between packed room strips.
	CirculationWidth float64 `toml:"circulation_width"`

	// Occupancy selects the regulatory tier for stair minimums. Empty
	// means derive from the specification's building type.
	Occupancy OccupancyClass `toml:"occupancy"`

	// ExpansionCap is the maximum automatic footprint expansion factor.
	// Requested area beyond ExpansionCap × capacity is a hard failure.
	ExpansionCap float64 `toml:"expansion_cap"`

	// DenseRatio is the utilization fraction above which packing
	// attaches a "highly dense" warning.
	DenseRatio float64 `toml:"dense_ratio"`

	// PanelTimeout bounds each individual panel check in a gate batch.
	PanelTimeout Duration `toml:"panel_timeout"`

	// Sanity holds the render-sanity thresholds.
	Sanity SanityConfig `toml:"sanity"`
}

// Duration wraps time.Duration so TOML files can spell timeouts as
// strings like "10s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// SanityConfig holds the thresholds for the render-sanity validator.
type SanityConfig struct {
	// MinOccupancy is the minimum drawn-content fraction of the canvas.
	MinOccupancy float64 `toml:"min_occupancy"`

	// MinBBoxRatio is the minimum drawn bounding-box width and height
	// as a fraction of canvas width and height.
	MinBBoxRatio float64 `toml:"min_bbox_ratio"`

	// ThinStripFloor is the absolute floor for either bounding-box
	// dimension, catching degenerate axis-collapsed output.
	ThinStripFloor float64 `toml:"thin_strip_floor"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		AreaTolerance:    0.10,
		CirculationWidth: 1.0,
		ExpansionCap:     1.5,
		DenseRatio:       0.85,
		PanelTimeout:     Duration(10 * time.Second),
		Sanity: SanityConfig{
			MinOccupancy:   0.08,
			MinBBoxRatio:   0.20,
			ThinStripFloor: 0.05,
		},
	}
}

// LoadConfig reads a TOML configuration file and merges it over the
// defaults. Missing fields keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.AreaTolerance <= 0 || c.AreaTolerance >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "area_tolerance must be in (0,1), got %v", c.AreaTolerance)
	}
	if c.CirculationWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "circulation_width must be positive, got %v", c.CirculationWidth)
	}
	if c.ExpansionCap < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "expansion_cap must be at least 1, got %v", c.ExpansionCap)
	}
	if c.Occupancy != "" && c.Occupancy != OccupancyResidential && c.Occupancy != OccupancyPublic {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown occupancy class %q", c.Occupancy)
	}
	if c.Sanity.MinOccupancy < 0 || c.Sanity.MinOccupancy > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "sanity.min_occupancy must be in [0,1], got %v", c.Sanity.MinOccupancy)
	}
	return nil
}

// OccupancyFor resolves the effective occupancy class for a
// specification: an explicit Config value wins, otherwise the class is
// derived from the building type.
func (c Config) OccupancyFor(s *DesignSpecification) OccupancyClass {
	if c.Occupancy != "" {
		return c.Occupancy
	}
	return s.Occupancy()
}
