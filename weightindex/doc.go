// Package weightindex implements WeightIndex: the ordered, cross-entity
// set of (weight, start, entity) triples that drives trim (spec §4.2).
//
// The set is backed by github.com/emirpasic/gods's red-black tree rather
// than container/heap (the pattern the teacher library itself uses for
// priority queues in dijkstra/ and prim_kruskal/): a binary heap only
// supports positional removal, but WeightIndex needs exact-key removal —
// "changing a rectangle's weight requires remove(old_key); insert(new_key)"
// (spec §4.2) — which a balanced BST gives for free, in O(log n), without
// an auxiliary position-tracking index.
//
// Ordering is lexicographic on (weight, start, entity), in that field
// order, so that ties on weight are broken deterministically (spec §3,
// §9) and output is reproducible across runs.
package weightindex
