package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/gate"
	"github.com/parti-studio/parti/pkg/model"
	"github.com/parti-studio/parti/pkg/pipeline"
	"github.com/parti-studio/parti/pkg/plan/facade"
	"github.com/parti-studio/parti/pkg/spec"
	"github.com/parti-studio/parti/pkg/store"
)

// GenerateRequest is the wire input to POST /v1/generate. The raw
// specification is adapted to the canonical shape at this boundary;
// nothing past the handler branches on input shape.
type GenerateRequest struct {
	Spec    spec.RawSpecification `json:"spec"`
	Seed    int64                 `json:"seed"`
	Refresh bool                  `json:"refresh,omitempty"`
}

// GenerateResponse is the wire output of POST /v1/generate.
type GenerateResponse struct {
	Fingerprint string                 `json:"fingerprint"`
	RoomSource  spec.RoomSourceKind    `json:"room_source"`
	Model       *model.BuildingModel   `json:"model"`
	Elevations  []facade.Elevation     `json:"elevations"`
	Validation  model.ValidationResult `json:"validation"`
	Cached      bool                   `json:"cached"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode request"))
		return
	}

	ds, source, err := spec.Adapt(req.Spec)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Spec:    ds,
		Seed:    req.Seed,
		Config:  s.cfg,
		Refresh: req.Refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if res.Validation.Valid {
		if err := s.store.Put(r.Context(), store.NewRecord(ds, res.Model)); err != nil {
			s.logger.Error("store design", "fingerprint", res.Model.Fingerprint, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Fingerprint: res.Model.Fingerprint,
		RoomSource:  source,
		Model:       res.Model,
		Elevations:  res.Elevations,
		Validation:  res.Validation,
		Cached:      res.CacheInfo.ModelHit,
	})
}

// GatePanel is one panel in a gate request. Image carries raster
// content base64-encoded.
type GatePanel struct {
	ID       string         `json:"id"`
	Type     gate.PanelType `json:"type"`
	Image    string         `json:"image,omitempty"`
	Metadata gate.Metadata  `json:"metadata"`
}

// GateRequest is the wire input to POST /v1/gate.
type GateRequest struct {
	Fingerprint string      `json:"fingerprint"`
	Panels      []GatePanel `json:"panels"`
}

func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	var req GateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode request"))
		return
	}

	panels := make([]gate.Panel, 0, len(req.Panels))
	for _, p := range req.Panels {
		panel := gate.Panel{ID: p.ID, Type: p.Type, Metadata: p.Metadata}
		if p.Image != "" {
			img, err := base64.StdEncoding.DecodeString(p.Image)
			if err != nil {
				writeError(w, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode panel %s image", p.ID))
				return
			}
			panel.Image = img
		}
		panels = append(panels, panel)
	}

	// The stored design supplies the frozen ground truth when present;
	// an unknown fingerprint still gates panel metadata and sanity.
	ref := gate.Reference{Fingerprint: req.Fingerprint}
	if rec, err := s.store.Get(r.Context(), req.Fingerprint); err == nil {
		ref.Model = rec.Model
		lock := rec.Lock
		ref.Lock = &lock
	}

	res, err := s.gate.Run(r.Context(), gate.NewBatch(req.Fingerprint, panels), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	fp := chi.URLParam(r, "fingerprint")
	rec, err := s.store.Get(r.Context(), fp)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"designs": recs, "count": len(recs)})
}
