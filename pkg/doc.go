// Package pkg provides the libraries behind izzi radial diagrams.
//
// # Overview
//
// izzi places identifiers around a circle at an angle proportional to their
// value. Identifiers whose values are close enough that their labels would
// overlap are moved to an outer orbit and fanned out, so every label stays
// readable. The pkg directory is organized into four areas:
//
//  1. [radial] - Placement: grouping, angular mapping, collision avoidance, splay
//  2. [render] - Drawing: SVG, JSON, PNG and PDF sinks with pluggable styles
//  3. [pipeline] - Orchestration (layout → render) with caching
//  4. Infrastructure: [cache], [config], [io], [observability], [server]
//
// # Architecture
//
// The typical data flow through izzi:
//
//	Values file (JSON, YAML, TOML, CSV)
//	         ↓
//	    [io] package (dataset with title, value max, render states)
//	         ↓
//	    [radial/group] package (identifiers grouped by equal value)
//	         ↓
//	    [radial/collision] package (which groups move to the high orbit)
//	         ↓
//	    [radial/splay] package (angles, rays and satellite sizes)
//	         ↓
//	    [render/sink] package (SVG/PDF/PNG/JSON output)
//
// # Quick Start
//
// Place values and render an SVG:
//
//	import (
//	    "github.com/bdekoz/izzi/pkg/radial"
//	    "github.com/bdekoz/izzi/pkg/radial/angular"
//	    "github.com/bdekoz/izzi/pkg/render/sink"
//	)
//
//	pairs := []radial.Pair{{ID: "alpha", Value: 10}, {ID: "beta", Value: 10.5}}
//
//	// 1. Compute the layout
//	l, err := radial.Compute(pairs, 100, angular.DefaultRange(),
//	    radial.DefaultRadius(120), radial.DefaultCollision())
//
//	// 2. Render to SVG
//	svg := sink.RenderSVG(l, sink.WithTitle("sizes"))
//
// # Main Packages
//
// ## Placement
//
// [geom] - Points, polar/cartesian conversion and chord angles.
//
// [radial/angular] - Maps a value onto a compass bearing within a configured
// range, zero bearing and sweep direction.
//
// [radial/group] - Groups identifiers of equal value and elides zero values.
//
// [radial/collision] - Decides which groups are promoted to the high orbit,
// using a group-size threshold and skip decay.
//
// [radial/splay] - Computes the final angle, ray and satellite radius of each
// identifier.
//
// [typography] - Label width estimation from a heuristic or a real font face.
//
// [renderstate] - Per-identifier visibility of glyph, label and value layers.
//
// ## Visualization
//
// [render/sink] - Output formats (SVG, JSON, PNG, PDF).
//
// [render/styles] - Visual styles (simple, outline).
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (layout → render) used by the CLI, batch
// runner and HTTP server. Ensures consistent behavior across all entry points.
//
// [cache] - Layout and artifact cache with file, Redis and no-op backends.
//
// [config] - TOML configuration with validation.
//
// [server] - HTTP API over the pipeline.
//
// [observability] - Metrics hooks, with a Prometheus implementation in
// [observability/prom].
//
// [buildinfo] - Version information set at build time.
package pkg
