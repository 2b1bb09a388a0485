package rectlist

import "github.com/katalvlaran/statemap/model"

// Reweight describes a WeightIndex key change for a rectangle that
// already had an entry: its start, its weight before the change, and its
// weight after. Produced by NewRect for the rectangle whose next link
// just gained a neighbor.
type Reweight struct {
	Start      model.NanoTime
	OldWeight  model.NanoTime
	NewWeight  model.NanoTime
}

// Insert describes a brand-new WeightIndex entry: a rectangle's start and
// its initial weight.
type Insert struct {
	Start  model.NanoTime
	Weight model.NanoTime
}

// outerDelta is an optional weight adjustment for a rectangle outside the
// merged pair (the survivor's other neighbor). Start is nil when that
// neighbor does not exist, in which case Apply ignores Amount (which may
// still be nonzero).
type outerDelta struct {
	Start  *model.NanoTime
	Amount model.NanoTime
}

// centerDelta is the weight adjustment applied to the surviving rectangle
// itself.
type centerDelta struct {
	Start  model.NanoTime
	Amount model.NanoTime
}

// removedEntry identifies the rectangle Subsume deleted, by the start and
// weight it had at the moment of removal — exactly the WeightIndex key a
// caller must delete.
type removedEntry struct {
	Start  model.NanoTime
	Weight model.NanoTime
}

// SubsumeDeltas is the raw weight-arithmetic plan Subsume returns: deltas
// for the (optional) outer-left neighbor, the surviving rectangle, the
// removed rectangle, and the (optional) outer-right neighbor — the 4-tuple
// of spec §4.1. Apply consumes exactly one SubsumeDeltas.
type SubsumeDeltas struct {
	left     outerDelta
	center   centerDelta
	removed  removedEntry
	right    outerDelta
}

// WeightUpdate is one edit Apply asks the caller to replay against the
// cross-entity WeightIndex. Delta == nil means "remove (Start, OldWeight)
// and insert nothing"; otherwise the caller should remove (Start,
// OldWeight) and insert (Start, OldWeight+*Delta).
type WeightUpdate struct {
	Start     model.NanoTime
	OldWeight model.NanoTime
	Delta     *model.NanoTime
}
