// Package io reads value datasets and writes computed layouts.
//
// # Input formats
//
// Datasets map identifiers to non-negative values. Four encodings are
// accepted, chosen by file extension or explicitly:
//
//   - json: either a flat object {"id": value, ...} or a document
//     {"title": "...", "value_max": 100, "values": [{"id": "a", "value": 3}]}
//   - yaml: the same two shapes
//   - toml: a flat table of id = value, or the document shape with a
//     [[values]] array of tables
//   - csv: "id,value" rows; lines starting with # are comments and a
//     leading header row is skipped
//
// The document shape may also carry a "states" object mapping identifiers
// to render kinds ("vector|text", "glyph", ...) and a "default_state".
//
// # Layout export
//
// [WriteLayout] and [ExportLayout] store a computed [radial.Layout] as
// indented JSON. [ReadLayout] reads it back, so a layout can be rendered
// later without recomputing it.
//
// [radial.Layout]: github.com/bdekoz/izzi/pkg/radial.Layout
package io
