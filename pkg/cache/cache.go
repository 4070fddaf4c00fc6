// Package cache provides content-addressed caching for generated
// building models, elevations, and rendered artifacts.
//
// Keys are derived from content hashes, so a cache entry is valid for
// as long as the specification and seed that produced it: identical
// input always maps to the same key, and any input change misses.
package cache

import (
	"context"
	"time"
)

// TTLs per cached payload kind. Models and elevations are cheap to
// regenerate; rendered artifacts are the expensive tail.
const (
	TTLModel     = 24 * time.Hour
	TTLElevation = 24 * time.Hour
	TTLArtifact  = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by the file, Redis, and null
// backends. Get returns (data, hit, error); a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DesignKeyOpts are the generation parameters folded into a design
// cache key. Two runs differing in any field must not share an entry.
type DesignKeyOpts struct {
	Seed      int64  `json:"seed"`
	Floors    int    `json:"floors"`
	Occupancy string `json:"occupancy"`
}

// ArtifactKeyOpts select one rendered artifact of a model.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // svg, dot, png
	Floor  int    `json:"floor"`  // -1 for whole-building artifacts
}

// Keyer generates cache keys for the pipeline's cacheable stages.
type Keyer interface {
	// DesignKey keys a generated building model by the specification
	// fingerprint and generation parameters.
	DesignKey(fingerprint string, opts DesignKeyOpts) string

	// ElevationKey keys the four projected elevations of a model.
	ElevationKey(modelHash string) string

	// ArtifactKey keys one rendered artifact of a model.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DesignKey generates a key for a generated building model.
func (k *DefaultKeyer) DesignKey(fingerprint string, opts DesignKeyOpts) string {
	return hashKey("design", fingerprint, opts)
}

// ElevationKey generates a key for a model's projected elevations.
func (k *DefaultKeyer) ElevationKey(modelHash string) string {
	return "elevation:" + modelHash
}

// ArtifactKey generates a key for one rendered artifact.
func (k *DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", modelHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
