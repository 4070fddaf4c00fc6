// Package render provides artifact rendering for building models.
//
// # Overview
//
// This package groups the renderers that turn a generated building
// model into visual outputs:
//
//   - Floor plan SVGs (in [plan] subpackage)
//   - Room adjacency diagrams (in [adjacency] subpackage)
//
// # Floor Plans
//
// The [plan] subpackage renders one floor at a time as a deterministic
// SVG: identical model input always produces identical bytes, so the
// output is safe to content-hash for canonical control.
//
//	svg := plan.RenderSVG(m.Floors[0], plan.Options{})
//
// # Adjacency Diagrams
//
// The [adjacency] subpackage renders the room adjacency graph of a
// floor using Graphviz. Rooms appear as boxes connected by shared
// partition walls.
//
//	dot := adjacency.ToDOT(m.Floors[0], adjacency.Options{})
//	svg, err := adjacency.RenderSVG(dot)
//
// [plan]: github.com/parti-studio/parti/pkg/render/plan
// [adjacency]: github.com/parti-studio/parti/pkg/render/adjacency
package render
