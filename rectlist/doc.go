// Package rectlist implements RectList: the per-entity doubly linked
// rectangle list and its three primitive operations, NewRect, Subsume and
// Apply (spec §4.1).
//
// The list itself is not a separate struct: it lives directly on
// model.Entity as a map keyed by rectangle start time (model.Entity.Rects)
// with Prev/Next fields holding neighboring start times rather than
// pointers, so the structure is expressible without cyclic ownership
// (spec §9) — this mirrors the teacher library's adjacency-list pattern
// (core/types.go's adjacencyList map-of-maps), applied here to a simple
// linked chain instead of a general graph.
//
// Subsume and Apply are split deliberately: Subsume performs every
// structural mutation (duration/state/tag merge, prev/next relinking,
// Entity.Last bookkeeping) and computes the arithmetic weight deltas that
// merge implies, but does not touch any Rectangle.Weight field or know
// about the cross-entity WeightIndex. Apply then mutates the Weight
// fields and returns the ordered list of edits a caller should replay
// against the WeightIndex. This split is what makes Subsume testable in
// isolation (spec §4.1's own stated rationale) and lets a caller batch the
// WeightIndex mutation atomically after the in-memory merge has
// succeeded (spec §9).
package rectlist
