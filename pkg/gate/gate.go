package gate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/observability"
	"github.com/parti-studio/parti/pkg/spec"
)

// Failure reasons reported per panel.
const (
	ReasonMissingGeometryHash = "Missing/mismatched geometryHash"
	ReasonMissingCDSHash      = "Missing/mismatched cdsHash"
	ReasonMissingControlRef   = "Missing control source reference"
	ReasonUndecodableImage    = "Undecodable panel image"
	ReasonCheckTimeout        = "Panel check timed out"
)

// Batch-scoped compliance violation for a required but absent model.
const ViolationNoModel = "Geometry fidelity check enabled but no model present"

// Reference is the frozen ground truth a batch is validated against.
// Fingerprint binds deterministic panels to the design; Lock and Model
// feed the program compliance gate. ControlHashes optionally pins the
// expected canonical control hash per panel ID.
type Reference struct {
	Fingerprint   string
	Model         *model.BuildingModel
	Lock          *model.ProgramLock
	ControlHashes map[string]string
}

// Gate runs the consistency checks over panel batches. It is stateless
// apart from configuration and logger, so one Gate may serve
// concurrent batches.
type Gate struct {
	cfg    spec.Config
	logger *log.Logger
}

// New creates a gate with the given configuration. A nil logger falls
// back to the default logger.
func New(cfg spec.Config, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.Default()
	}
	return &Gate{cfg: cfg, logger: logger}
}

// Run moves the batch from Pending to Pass or RetryFailed and returns
// the composition decision. Panel check failures are reported inside
// the result, never as a Go error; Run errors only on unusable input.
func (g *Gate) Run(ctx context.Context, batch Batch, ref Reference) (*Result, error) {
	if err := batch.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{BatchID: batch.ID, State: StatePending}
	observability.Gate().OnBatchStart(ctx, batch.ID, len(batch.Panels))

	// Program compliance is batch-scoped: it reads the frozen lock and
	// the model once, not per panel.
	res.Violations = g.checkCompliance(ref)

	for _, p := range batch.Panels {
		reasons := g.checkPanel(ctx, p, batch.Fingerprint, ref)
		res.Checked++
		if len(reasons) > 0 {
			res.FailedPanels = append(res.FailedPanels, PanelFailure{PanelID: p.ID, Reasons: reasons})
			observability.Gate().OnPanelFail(ctx, batch.ID, p.ID, reasons)
		}
	}

	if len(res.FailedPanels) == 0 && len(res.Violations) == 0 {
		res.State = StatePass
		res.CanCompose = true
		res.Action = ActionCompose
	} else {
		res.State = StateRetryFailed
		res.Action = ActionRetryFailed
	}

	g.logger.Info("gate batch decided",
		"batch", batch.ID,
		"panels", res.Checked,
		"failed", len(res.FailedPanels),
		"violations", len(res.Violations),
		"action", res.Action,
		"duration", time.Since(start))
	observability.Gate().OnBatchDone(ctx, batch.ID, string(res.Action), time.Since(start))

	return res, nil
}

// checkPanel runs the fingerprint and render-sanity checks for one
// panel under the configured per-panel timeout. A timed-out panel
// fails alone; the batch continues.
func (g *Gate) checkPanel(ctx context.Context, p Panel, fingerprint string, ref Reference) []string {
	pctx := ctx
	if t := g.cfg.PanelTimeout.Std(); t > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	var reasons []string
	reasons = append(reasons, checkFingerprint(p, fingerprint, ref)...)

	if p.Type.Rasterized() {
		sanity, err := checkSanity(pctx, p.Image, g.cfg.Sanity)
		if err != nil {
			if errors.Is(err, errors.ErrCodeTimeout) {
				return append(reasons, ReasonCheckTimeout)
			}
			reasons = append(reasons, ReasonUndecodableImage)
		} else {
			reasons = append(reasons, sanity...)
		}
	}

	if pctx.Err() != nil {
		reasons = append(reasons, ReasonCheckTimeout)
	}
	return reasons
}

// checkFingerprint enforces canonical control on deterministic panel
// types: the geometryHash must match the frozen design fingerprint,
// the cdsHash must be present (and match the pinned control hash when
// one is known), and the control pack reference must be set.
func checkFingerprint(p Panel, fingerprint string, ref Reference) []string {
	if !p.Type.Deterministic() {
		return nil
	}

	var reasons []string
	if p.Metadata.GeometryHash == "" || (fingerprint != "" && p.Metadata.GeometryHash != fingerprint) {
		reasons = append(reasons, ReasonMissingGeometryHash)
	}
	expected := ref.ControlHashes[p.ID]
	if p.Metadata.CDSHash == "" || (expected != "" && p.Metadata.CDSHash != expected) {
		reasons = append(reasons, ReasonMissingCDSHash)
	}
	if p.Metadata.ControlSource == "" {
		reasons = append(reasons, ReasonMissingControlRef)
	}
	return reasons
}

// checkCompliance compares each locked room's target area against the
// model's packed area for the same name. Drift beyond the configured
// tolerance is a violation, as is a missing room. A lock without a
// model is itself a hard violation.
func (g *Gate) checkCompliance(ref Reference) []string {
	if ref.Lock == nil {
		return nil
	}
	if ref.Model == nil {
		return []string{ViolationNoModel}
	}

	var violations []string
	for _, locked := range ref.Lock.Rooms {
		room, floor := ref.Model.RoomByName(locked.Name)
		if room == nil {
			violations = append(violations,
				fmt.Sprintf("room %q missing from model", locked.Name))
			continue
		}
		if floor != locked.Floor {
			violations = append(violations,
				fmt.Sprintf("room %q moved from floor %d to %d", locked.Name, locked.Floor, floor))
		}
		if locked.TargetArea <= 0 {
			continue
		}
		drift := math.Abs(room.Area()-locked.TargetArea) / locked.TargetArea
		if drift > g.cfg.AreaTolerance {
			violations = append(violations,
				fmt.Sprintf("room %q area drift %.1f%% exceeds %.0f%% tolerance",
					locked.Name, drift*100, g.cfg.AreaTolerance*100))
		}
	}
	return violations
}
