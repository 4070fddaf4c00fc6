// Package gate implements the consistency gates run over a batch of
// externally produced panel artifacts before final composition.
//
// A batch moves through a single-step state machine,
// Pending -> Pass | RetryFailed. Three independent checks compose the
// gate: fingerprint validation, program compliance, and render sanity.
// Composition is all-or-nothing: one failing panel fails the batch.
// Gates only read the building model and the supplied artifacts; they
// never mutate either.
package gate

import (
	"github.com/google/uuid"

	"github.com/parti-studio/parti/pkg/errors"
)

// PanelType identifies the kind of artifact a panel carries.
type PanelType string

// Panel types.
const (
	PanelFloorPlan PanelType = "floor_plan"
	PanelElevation PanelType = "elevation"
	PanelSection   PanelType = "section"
	PanelRender3D  PanelType = "render_3d"
	PanelDiagram   PanelType = "diagram"
)

// Valid reports whether the panel type is known.
func (t PanelType) Valid() bool {
	switch t {
	case PanelFloorPlan, PanelElevation, PanelSection, PanelRender3D, PanelDiagram:
		return true
	}
	return false
}

// Deterministic reports whether the panel type requires canonical
// geometry control. Deterministic panels must carry a geometryHash
// binding them to the frozen design.
func (t PanelType) Deterministic() bool {
	switch t {
	case PanelFloorPlan, PanelElevation, PanelSection:
		return true
	}
	return false
}

// Rasterized reports whether the render-sanity validator applies.
// 3D renders are explicitly excluded: their content distribution is
// scene-dependent and the occupancy heuristics do not transfer.
func (t PanelType) Rasterized() bool {
	switch t {
	case PanelFloorPlan, PanelElevation, PanelSection:
		return true
	}
	return false
}

// Metadata is the provenance block a panel producer attaches to each
// artifact. Deterministic panel types must populate all three fields.
type Metadata struct {
	GeometryHash  string `json:"geometry_hash,omitempty" bson:"geometry_hash,omitempty" toml:"geometry_hash"`
	CDSHash       string `json:"cds_hash,omitempty" bson:"cds_hash,omitempty" toml:"cds_hash"`
	ControlSource string `json:"control_source,omitempty" bson:"control_source,omitempty" toml:"control_source"`
}

// Panel is one externally produced artifact submitted for gating.
type Panel struct {
	ID       string    `json:"id" bson:"id"`
	Type     PanelType `json:"type" bson:"type"`
	Image    []byte    `json:"-" bson:"-"` // raster content, rasterized panels only
	Metadata Metadata  `json:"metadata" bson:"metadata"`
}

// Batch is one validation batch bound to a frozen design fingerprint.
type Batch struct {
	ID          string  `json:"id" bson:"id"`
	Fingerprint string  `json:"fingerprint" bson:"fingerprint"`
	Panels      []Panel `json:"panels" bson:"panels"`
}

// NewBatch assembles a batch with a fresh batch ID.
func NewBatch(fingerprint string, panels []Panel) Batch {
	return Batch{
		ID:          uuid.New().String(),
		Fingerprint: fingerprint,
		Panels:      panels,
	}
}

// validate rejects batches the gate cannot meaningfully process.
func (b Batch) validate() error {
	if len(b.Panels) == 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "gate batch has no panels")
	}
	seen := make(map[string]bool, len(b.Panels))
	for _, p := range b.Panels {
		if err := errors.ValidatePanelID(p.ID); err != nil {
			return err
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidSpec, "duplicate panel id %s", p.ID)
		}
		seen[p.ID] = true
		if !p.Type.Valid() {
			return errors.New(errors.ErrCodeUnsupported, "unknown panel type %s", string(p.Type))
		}
	}
	return nil
}

// State is the batch gating state.
type State string

// Batch states.
const (
	StatePending     State = "pending"
	StatePass        State = "pass"
	StateRetryFailed State = "retry_failed"
)

// Action is the composition decision returned to the caller.
type Action string

// Gate actions.
const (
	ActionCompose     Action = "compose"
	ActionRetryFailed Action = "retry_failed"
)

// PanelFailure lists the reasons a single panel failed its checks.
type PanelFailure struct {
	PanelID string   `json:"panel_id" bson:"panel_id"`
	Reasons []string `json:"reasons" bson:"reasons"`
}

// Result is the gate decision for one batch. Violations are
// batch-scoped program-compliance findings not attributable to a
// single panel; either a violation or a failed panel blocks
// composition.
type Result struct {
	BatchID      string         `json:"batch_id" bson:"batch_id"`
	State        State          `json:"state" bson:"state"`
	CanCompose   bool           `json:"can_compose" bson:"can_compose"`
	Action       Action         `json:"action" bson:"action"`
	FailedPanels []PanelFailure `json:"failed_panels,omitempty" bson:"failed_panels,omitempty"`
	Violations   []string       `json:"violations,omitempty" bson:"violations,omitempty"`
	Checked      int            `json:"checked" bson:"checked"`
}
