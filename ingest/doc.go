// Package ingest drives the metadata -> datum loop: it owns the entity
// table, the shared state/tag tables, and the WeightIndex, and is the only
// package that wires rectlist and weightindex together (spec §4.3).
//
// The whole ingest is a single synchronous pass over a byte slice; there
// is no concurrency and no partial output on failure (spec §5, §7).
package ingest
