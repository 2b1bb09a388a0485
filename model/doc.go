// Package model defines the fundamental value types shared by every other
// statemap package: the immutable Config, the dense State table, Entity and
// Rectangle, and the small integer id types (StateID, TagID, EntityID) used
// throughout to avoid repeated string lookups on the hot ingest path.
//
// Time is represented as NanoTime, an unsigned 64-bit nanosecond count —
// wide enough to span centuries and free of the 53-bit-mantissa precision
// loss a float64 would introduce, matching the wire format's decimal-string
// time encoding (spec §6).
//
// Config is constructed with functional options (ConfigOption), following
// the same pattern the teacher library uses for graph construction:
// defaults first, then options applied in order, later options winning.
package model
