package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/parti-studio/parti/pkg/cache"
	"github.com/parti-studio/parti/pkg/fingerprint"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/observability"
	"github.com/parti-studio/parti/pkg/plan/facade"
	"github.com/parti-studio/parti/pkg/spec"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete distribute → pack → assemble → stairs →
// facade → validate pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	genStart := time.Now()
	m, els, modelHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Model = m
	result.Elevations = els
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Floors = len(m.Floors)
	for _, f := range m.Floors {
		result.Stats.Rooms += len(f.Rooms)
	}
	result.CacheInfo.ModelHit = modelHit
	result.CacheInfo.ElevationHit = modelHit

	// Compute model hash for cache keys and API responses
	if data, err := json.Marshal(m); err == nil {
		result.ModelHash = cache.Hash(data)
	}

	r.Logger.Info("generated model",
		"fingerprint", m.Fingerprint,
		"floors", result.Stats.Floors,
		"rooms", result.Stats.Rooms,
		"cached", modelHit,
		"duration", result.Stats.GenerateTime)

	valStart := time.Now()
	result.Validation = m.Validate()
	result.Stats.ValidateTime = time.Since(valStart)

	r.Logger.Info("validated model",
		"valid", result.Validation.Valid,
		"errors", len(result.Validation.Errors),
		"warnings", len(result.Validation.Warnings),
		"duration", result.Stats.ValidateTime)

	return result, nil
}

// cachedRun is the serialized form of one generation run.
type cachedRun struct {
	Model      *model.BuildingModel `json:"model"`
	Elevations []facade.Elevation   `json:"elevations"`
}

// GenerateWithCacheInfo generates the model and elevations with
// caching and returns cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*model.BuildingModel, []facade.Elevation, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	fp := fingerprint.Design(opts.Spec)
	cacheKey := r.Keyer.DesignKey(fp, cache.DesignKeyOpts{
		Seed:      opts.Seed,
		Floors:    opts.Spec.Program.FloorCount,
		Occupancy: string(opts.Config.OccupancyFor(opts.Spec)),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var run cachedRun
			if err := json.Unmarshal(data, &run); err == nil && run.Model != nil {
				observability.Cache().OnCacheHit(ctx, "design")
				return run.Model, run.Elevations, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "design")
	}

	// Generate
	m, els, err := Generate(ctx, opts.Spec, opts.Seed, opts.Config, opts.Logger)
	if err != nil {
		return nil, nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(cachedRun{Model: m, Elevations: els}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLModel)
		observability.Cache().OnCacheSet(ctx, "design", len(data))
	}

	return m, els, false, nil // Cache miss
}

// Elevations is a convenience wrapper that regenerates the four
// cardinal elevations for an existing model. The envelope is recovered
// from the ground floor's exterior shell.
func (r *Runner) Elevations(m *model.BuildingModel, roof spec.Roof) ([]facade.Elevation, error) {
	width, depth := envelopeOf(m)
	els, _, err := facade.Build(m.Floors, roof, width, depth)
	return els, err
}

// envelopeOf reads the footprint dimensions back from the south and
// east exterior walls.
func envelopeOf(m *model.BuildingModel) (float64, float64) {
	if len(m.Floors) == 0 || len(m.Floors[0].Walls) < 2 {
		return 0, 0
	}
	return m.Floors[0].Walls[0].Length(), m.Floors[0].Walls[1].Length()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
