// Package tagtable interns (state, tag-string) pairs into dense,
// monotonically increasing tag ids, and preserves the most recent
// definition payload for each id so it can be re-emitted verbatim by the
// renderer (spec §4.4).
//
// A tag may be used (via a Datum) before its TagDef arrives, or never
// receive an explicit TagDef at all; either way Lookup assigns the id on
// first sight and Define rebinds the payload without changing the id,
// mirroring the teacher library's id-interning helpers in builder/id_fn.go.
package tagtable
