// Package pipeline orchestrates building geometry synthesis: floor
// distribution, room packing, floor assembly, stair generation, and
// facade projection, from a single immutable specification and seed.
//
// Example usage:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{Spec: s, Seed: 42})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Model.Fingerprint)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/plan/facade"
	"github.com/parti-studio/parti/pkg/spec"
)

// Options configure one pipeline run.
type Options struct {
	// Spec is the immutable design specification. Required.
	Spec *spec.DesignSpecification `json:"spec"`

	// Seed drives the packing jitter. The same spec and seed always
	// reproduce the same model.
	Seed int64 `json:"seed"`

	// Config is the engine configuration. The zero value is replaced
	// by spec.DefaultConfig.
	Config spec.Config `json:"config"`

	// Refresh bypasses the cache and regenerates.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Spec == nil {
		return errors.New(errors.ErrCodeInvalidSpec, "options require a specification")
	}
	if o.Spec.Program.FloorCount < 1 {
		return errors.New(errors.ErrCodeInvalidProgram,
			"floor count must be at least 1, got %d", o.Spec.Program.FloorCount)
	}
	if o.Spec.Massing.FootprintWidth <= 0 || o.Spec.Massing.FootprintDepth <= 0 {
		return errors.New(errors.ErrCodeInvalidFootprint,
			"footprint must have positive dimensions, got %.2f x %.2f",
			o.Spec.Massing.FootprintWidth, o.Spec.Massing.FootprintDepth)
	}
	if o.Config.AreaTolerance == 0 {
		o.Config = spec.DefaultConfig()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the derived building geometry aggregate.
	Model *model.BuildingModel

	// ModelHash is the content hash of the serialized model.
	ModelHash string

	// Elevations are the four cardinal facade projections.
	Elevations []facade.Elevation

	// Validation is the model-level consistency report.
	Validation model.ValidationResult

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Floors       int
	Rooms        int
	GenerateTime time.Duration
	ValidateTime time.Duration
}

// CacheInfo tracks cache hits for each cacheable pipeline product.
type CacheInfo struct {
	ModelHit     bool // Whether the model came from cache
	ElevationHit bool // Whether the elevations came from cache
}
