package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/fingerprint"
	"github.com/parti-studio/parti/pkg/geom"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/observability"
	"github.com/parti-studio/parti/pkg/plan"
	"github.com/parti-studio/parti/pkg/plan/distribute"
	"github.com/parti-studio/parti/pkg/plan/facade"
	"github.com/parti-studio/parti/pkg/plan/pack"
	"github.com/parti-studio/parti/pkg/plan/stairs"
	"github.com/parti-studio/parti/pkg/spec"
)

// circulationAllowance mirrors the packer's gross-up factor; envelope
// planning must budget the same circulation overhead the packer will
// claim, or per-floor expansion would diverge across floors.
const circulationAllowance = 1.25

// Generate synthesizes a building model and its elevations from a
// specification and seed. Stages run strictly downward: distribute,
// pack, assemble, stairs, facade. Any stage failure aborts the run;
// there is never a partial model.
func Generate(ctx context.Context, s *spec.DesignSpecification, seed int64, cfg spec.Config, logger *log.Logger) (*model.BuildingModel, []facade.Elevation, error) {
	if logger == nil {
		logger = log.Default()
	}

	fp := fingerprint.Design(s)
	floors := s.Program.FloorCount
	observability.Pipeline().OnGenerateStart(ctx, fp, floors)
	start := time.Now()

	m, els, err := generate(ctx, s, seed, cfg, logger, fp)
	observability.Pipeline().OnGenerateComplete(ctx, fp, time.Since(start), err)
	return m, els, err
}

func generate(ctx context.Context, s *spec.DesignSpecification, seed int64, cfg spec.Config, logger *log.Logger, fp string) (*model.BuildingModel, []facade.Elevation, error) {
	floors := s.Program.FloorCount
	var warnings []model.ValidationWarning

	// Stage 1: distribute rooms across floors.
	dist, err := stage(ctx, "distribute", func() (*distribute.Result, error) {
		return distribute.Distribute(s.Program.Rooms, floors, s.SiteArea())
	})
	if err != nil {
		return nil, nil, err
	}
	for _, w := range dist.Warnings {
		warnings = append(warnings, model.ValidationWarning{Check: "distribute", Message: w})
	}
	if dist.Redistributed {
		logger.Debug("redistributed rooms", "floors", floors)
	}

	byFloor := make([][]spec.RoomSpec, floors)
	for _, ar := range dist.Rooms {
		byFloor[ar.Floor] = append(byFloor[ar.Floor], ar.RoomSpec)
	}

	// Plan the envelope once for all floors. Expansion is a building
	// decision, not a floor decision: every storey shares the shell.
	width, depth, envWarns, err := planEnvelope(byFloor, s.Massing.FootprintWidth, s.Massing.FootprintDepth, cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range envWarns {
		warnings = append(warnings, model.ValidationWarning{Check: "envelope", Message: w})
	}

	// Stage 2: pack each floor inside the shared envelope.
	packed, err := stage(ctx, "pack", func() ([]*pack.Result, error) {
		results := make([]*pack.Result, floors)
		for i := range byFloor {
			res, err := pack.Pack(byFloor[i], i, width, depth, cfg, seed)
			if err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "pack floor %d", i)
			}
			results[i] = res
		}
		return results, nil
	})
	if err != nil {
		return nil, nil, err
	}
	for i, res := range packed {
		for _, w := range res.Warnings {
			warnings = append(warnings, model.ValidationWarning{
				Check:   "pack",
				Message: fmt.Sprintf("floor %d: %s", i, w),
			})
		}
	}

	logger.Info("packed rooms",
		"floors", floors,
		"rooms", len(dist.Rooms),
		"envelope", fmt.Sprintf("%.1fx%.1f", width, depth))

	// Stage 3: stairs. Shafts are stacked, so one pass covers all
	// adjacent floor pairs.
	heights := make([]float64, floors)
	for i := range heights {
		heights[i] = s.Massing.FloorHeight
	}
	allStairs, err := stage(ctx, "stairs", func() ([]model.Stair, error) {
		return stairs.Generate(heights, width, depth, cfg.OccupancyFor(s))
	})
	if err != nil {
		return nil, nil, err
	}

	// Stage 4: assemble floors with walls and openings.
	modelFloors, err := stage(ctx, "assemble", func() ([]model.Floor, error) {
		fls := make([]model.Floor, floors)
		for i := range packed {
			fls[i] = plan.BuildFloor(plan.FloorInput{
				Index:        i,
				Height:       s.Massing.FloorHeight,
				Packed:       packed[i],
				Entrance:     s.Site.Entrance,
				WindowRatio:  s.Constraints.WindowWallRatio,
				EntranceDoor: i == 0,
				Stairs:       stairsFrom(allStairs, i),
			})
		}
		return fls, nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Stage 5: project facades.
	type facadeOut struct {
		els     []facade.Elevation
		summary map[geom.Orientation]model.FacadeCounts
	}
	fo, err := stage(ctx, "facade", func() (*facadeOut, error) {
		els, summary, err := facade.Build(modelFloors, s.Massing.Roof, width, depth)
		if err != nil {
			return nil, err
		}
		return &facadeOut{els: els, summary: summary}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	m := &model.BuildingModel{
		Fingerprint:   fp,
		Seed:          seed,
		Floors:        modelFloors,
		Stairs:        allStairs,
		FacadeSummary: fo.summary,
		Entrance:      s.Site.Entrance,
		Warnings:      warnings,
	}
	return m, fo.els, nil
}

// stage runs one named pipeline stage with cancellation and
// observability bracketing.
func stage[T any](ctx context.Context, name string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Wrap(errors.ErrCodeTimeout, err, "%s cancelled", name)
	}
	observability.Pipeline().OnStageStart(ctx, name)
	start := time.Now()
	out, err := fn()
	observability.Pipeline().OnStageComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return zero, err
	}
	return out, nil
}

// planEnvelope sizes the shared floor envelope. The most demanding
// floor sets the scale; beyond the configured cap the program does not
// fit and the run fails, within it the footprint auto-expands with a
// warning.
func planEnvelope(byFloor [][]spec.RoomSpec, width, depth float64, cfg spec.Config) (float64, float64, []string, error) {
	capacity := width * depth
	var maxScale float64
	for _, rooms := range byFloor {
		var total float64
		for _, r := range rooms {
			total += r.TargetArea
		}
		if scale := total * circulationAllowance / capacity; scale > maxScale {
			maxScale = scale
		}
	}

	if maxScale > cfg.ExpansionCap {
		return 0, 0, nil, errors.New(errors.ErrCodeEnvelopeExpansion,
			"room program needs %.2fx the %.1f m² footprint; envelope expansion beyond %.2fx cap required",
			maxScale, capacity, cfg.ExpansionCap)
	}
	if maxScale > 1+geom.Epsilon {
		f := math.Sqrt(maxScale)
		w, d := width*f, depth*f
		warn := fmt.Sprintf(
			"Auto-corrected footprint: expanded %.1fx%.1f m to %.1fx%.1f m to fit the room program",
			width, depth, w, d)
		return w, d, []string{warn}, nil
	}
	return width, depth, nil, nil
}

func stairsFrom(all []model.Stair, floor int) []model.Stair {
	var out []model.Stair
	for _, s := range all {
		if s.FromFloor == floor {
			out = append(out, s)
		}
	}
	return out
}
