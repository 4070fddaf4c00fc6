// Package pkg provides the core libraries for Parti building geometry synthesis.
//
// # Overview
//
// Parti turns a room program into consistent building geometry and
// keeps downstream drawing sets honest against it. The pkg directory
// is organized into four main areas:
//
//  1. Geometry (geom, plan, model) - polygon kernel, floor planning, building model
//  2. Pipeline (pipeline, fingerprint, cache) - orchestration, identity, caching
//  3. Gates (gate) - fingerprint, compliance, and render-sanity checks
//  4. Serving (api, store, render) - HTTP surface, persistence, drawings
//
// # Architecture
//
// The typical data flow through Parti:
//
//	Design Specification
//	         ↓
//	spec.Adapt (normalize the wire shape)
//	         ↓
//	pipeline.Runner (distribute → pack → stairs → facade)
//	         ↓
//	model.BuildingModel + model.Validate
//	         ↓
//	render (SVG plans, adjacency graphs) / api (HTTP) / store (versions)
//	         ↓
//	gate.Run (panel batches checked against the frozen model)
//
// Each package carries its own documentation; start with
// [github.com/parti-studio/parti/pkg/pipeline] for the orchestration
// entry point and [github.com/parti-studio/parti/pkg/gate] for the
// consistency gates.
package pkg
