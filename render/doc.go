// Package render turns a finalized ingest.Document into a self-contained
// SVG document: one strip per entity, one <rect> per coalesced rectangle,
// and an embedded <defs> section carrying the globals object, the tag
// table, the per-entity description map, and a small viewer script (spec
// §4.5, §6). Geometry and color choices are grounded on the original
// implementation's own SVG writer (see DESIGN.md).
package render
