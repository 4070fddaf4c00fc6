package gate

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/parti-studio/parti/pkg/errors"
)

// manifestPanel is one panel entry as spelled in a TOML manifest.
type manifestPanel struct {
	ID       string   `toml:"id"`
	Type     string   `toml:"type"`
	File     string   `toml:"file"`
	Metadata Metadata `toml:"metadata"`
}

// manifest is the on-disk batch description consumed by the gate
// command and the API.
type manifest struct {
	Fingerprint string          `toml:"fingerprint"`
	Panels      []manifestPanel `toml:"panel"`
}

// LoadManifest reads a TOML panel manifest and assembles the batch.
// Panel file paths are resolved relative to the manifest location, and
// raster content is loaded eagerly so the batch is self-contained.
//
// Manifest shape:
//
//	fingerprint = "3f2a..."
//
//	[[panel]]
//	id   = "plan-0"
//	type = "floor_plan"
//	file = "plan-0.png"
//	  [panel.metadata]
//	  geometry_hash  = "3f2a..."
//	  cds_hash       = "canon_91c4..."
//	  control_source = "controlpack/3f2a"
func LoadManifest(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Batch{}, errors.New(errors.ErrCodeFileNotFound, "manifest not found: %s", path)
		}
		return Batch{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest %s", path)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Batch{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", path)
	}
	if len(m.Panels) == 0 {
		return Batch{}, errors.New(errors.ErrCodeInvalidManifest, "manifest %s declares no panels", path)
	}

	base := filepath.Dir(path)
	panels := make([]Panel, 0, len(m.Panels))
	for _, mp := range m.Panels {
		if err := errors.ValidatePanelID(mp.ID); err != nil {
			return Batch{}, err
		}
		p := Panel{ID: mp.ID, Type: PanelType(mp.Type), Metadata: mp.Metadata}
		if !p.Type.Valid() {
			return Batch{}, errors.New(errors.ErrCodeInvalidManifest,
				"panel %s has unknown type %q", mp.ID, mp.Type)
		}
		if mp.File != "" {
			img, err := os.ReadFile(filepath.Join(base, mp.File))
			if err != nil {
				return Batch{}, errors.Wrap(errors.ErrCodeFileNotFound, err,
					"panel %s image %s", mp.ID, mp.File)
			}
			p.Image = img
		}
		panels = append(panels, p)
	}

	return NewBatch(m.Fingerprint, panels), nil
}
