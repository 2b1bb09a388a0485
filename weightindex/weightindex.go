package weightindex

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/katalvlaran/statemap/model"
)

// Entry is one WeightIndex key: (weight, start, entity). Identity includes
// Weight, so re-keying a rectangle after its weight changes means removing
// the old Entry and inserting a new one (spec §4.2's update-in-place
// contract) rather than mutating an Entry in place.
type Entry struct {
	Weight model.NanoTime
	Start  model.NanoTime
	Entity model.EntityID
}

// compare implements the lexicographic (weight, start, entity) total order
// spec §3 requires for deterministic tie-breaking.
func compare(a, b interface{}) int {
	ea, eb := a.(Entry), b.(Entry)

	switch {
	case ea.Weight < eb.Weight:
		return -1
	case ea.Weight > eb.Weight:
		return 1
	}

	switch {
	case ea.Start < eb.Start:
		return -1
	case ea.Start > eb.Start:
		return 1
	}

	switch {
	case ea.Entity < eb.Entity:
		return -1
	case ea.Entity > eb.Entity:
		return 1
	}

	return 0
}

// Index is the WeightIndex: an ordered set of Entry supporting insert,
// exact-key remove, and pop-min.
type Index struct {
	tree *redblacktree.Tree
}

// New returns an empty Index.
func New() *Index {
	return &Index{tree: redblacktree.NewWith(compare)}
}

// Len reports the number of entries currently indexed.
func (idx *Index) Len() int {
	return idx.tree.Size()
}

// Insert adds e. Inserting an Entry that is already present is a no-op
// (same key, same implicit value) — callers should not do this; every
// eligible rectangle must be represented exactly once (spec §3, invariant
// 5).
func (idx *Index) Insert(e Entry) {
	idx.tree.Put(e, nil)
}

// Remove deletes e. Removing an absent Entry is a silent no-op, matching
// the teacher library's idempotent-delete convention (e.g. core.Graph's
// RemoveVertex).
func (idx *Index) Remove(e Entry) {
	idx.tree.Remove(e)
}

// Update re-keys old to updated: remove(old); insert(updated). This is the
// only correct way to change a rectangle's weight in the index (spec
// §4.2) — Entry.Weight is part of its tree position, so mutating it
// without a remove/insert pair would corrupt the tree's ordering
// invariant.
func (idx *Index) Update(old, updated Entry) {
	idx.tree.Remove(old)
	idx.tree.Put(updated, nil)
}

// PopMin removes and returns the smallest Entry by (weight, start,
// entity) order. ok is false if the index is empty.
func (idx *Index) PopMin() (e Entry, ok bool) {
	node := idx.tree.Left()
	if node == nil {
		return Entry{}, false
	}

	e = node.Key.(Entry)
	idx.tree.Remove(e)

	return e, true
}

// Contains reports whether e is currently indexed. Exposed for tests and
// invariant checks (spec §8); not needed on the hot ingest path.
func (idx *Index) Contains(e Entry) bool {
	_, found := idx.tree.Get(e)

	return found
}
