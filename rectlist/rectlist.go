package rectlist

import "github.com/katalvlaran/statemap/model"

// newRectangle builds a closed rectangle for the interval [start, start+duration)
// with the given initial state, and an nstates-wide zeroed accumulator
// table with exactly one entry populated (states[state] = duration).
func newRectangle(start, duration model.NanoTime, state model.StateID, nstates int) *model.Rectangle {
	r := &model.Rectangle{
		Start:    start,
		Duration: duration,
		States:   make([]model.NanoTime, nstates),
		Weight:   duration,
	}
	r.States[state] = duration

	return r
}

// NewRect closes the entity's currently open interval at end, appending a
// fresh closed Rectangle keyed at the interval's own start time, and
// relinks it onto the tail of the entity's rectangle chain.
//
// It returns lhs, the WeightIndex key-change for the rectangle that was
// previously the tail (nil if this is the entity's first rectangle), and
// rhs, the brand-new WeightIndex entry for the rectangle just closed.
//
// NewRect does not clear the entity's open-interval fields (Start/State/
// Tag) — the caller (ingest) immediately overwrites them with the next
// datum's values, per spec §4.3 step 5.
func NewRect(e *model.Entity, end model.NanoTime, nstates int) (lhs *Reweight, rhs Insert) {
	start := *e.Start
	duration := end - start
	rect := newRectangle(start, duration, *e.State, nstates)

	if e.Tag != nil {
		rect.Tags = map[model.TagID]model.NanoTime{*e.Tag: duration}
	}

	rect.Prev = e.Last

	if e.Last != nil {
		lrect := e.Rects[*e.Last]
		old := lrect.Weight

		next := start
		lrect.Next = &next
		rect.Weight += lrect.Duration
		lrect.Weight += rect.Duration

		lhs = &Reweight{Start: lrect.Start, OldWeight: old, NewWeight: lrect.Weight}
	}

	rhs = Insert{Start: rect.Start, Weight: rect.Weight}
	e.Rects[start] = rect
	last := start
	e.Last = &last

	return lhs, rhs
}

// Subsume merges the rectangle at victimStart into whichever neighbor
// survives the merge, per the choice rule in spec §4.1:
//
//   - only a prev neighbor exists -> prev absorbs the victim, prev survives.
//   - only a next neighbor exists -> the victim absorbs next, victim survives
//     (its own slot is kept).
//   - both exist -> the victim merges into whichever of prev/next has the
//     strictly shorter duration; on a tie, the victim merges into next
//     (the victim's own slot survives), matching the original
//     implementation's branch (`if prev.duration < next.duration` picks
//     prev, the `else` — which includes equality — picks next). Spec.md's
//     own scenario 3 narrative is inconsistent with its own worked
//     numbers on this point; the original source is authoritative here
//     (see DESIGN.md).
//
// It performs every structural mutation (duration/state/tag merge,
// prev/next relinking, Entity.Last) but does not touch any Weight field;
// Apply does that. Subsume never leaves the entity in a partially-merged
// state: either it fully succeeds, or — if victimStart has neither
// neighbor — it returns ErrNothingToSubsume and leaves the entity
// untouched.
func Subsume(e *model.Entity, victimStart model.NanoTime) (SubsumeDeltas, error) {
	victim, ok := e.Rects[victimStart]
	if !ok {
		return SubsumeDeltas{}, ErrUnknownRect
	}

	var survivorStart, removedStart model.NanoTime
	var deltas SubsumeDeltas

	switch {
	case victim.Prev != nil && victim.Next == nil:
		// Only a prev neighbor: prev survives, extended by the victim.
		prev := e.Rects[*victim.Prev]
		survivorStart, removedStart = prev.Start, victim.Start

		deltas.left = outerDelta{Start: prev.Prev, Amount: victim.Duration}
		deltas.center = centerDelta{Start: prev.Start, Amount: 0}
		deltas.right = outerDelta{}

	case victim.Prev == nil && victim.Next != nil:
		// Only a next neighbor: the victim's own slot survives, growing
		// to absorb next.
		next := e.Rects[*victim.Next]
		survivorStart, removedStart = victim.Start, next.Start

		deltas.left = outerDelta{}
		deltas.center = centerDelta{Start: victim.Start, Amount: next.Weight - victim.Weight}
		deltas.right = outerDelta{Start: next.Next, Amount: victim.Duration}

	case victim.Prev != nil && victim.Next != nil:
		prev := e.Rects[*victim.Prev]
		next := e.Rects[*victim.Next]

		if prev.Duration < next.Duration {
			// prev survives, absorbing the victim.
			survivorStart, removedStart = prev.Start, victim.Start

			deltas.left = outerDelta{Start: prev.Prev, Amount: victim.Duration}
			deltas.center = centerDelta{
				Start:  prev.Start,
				Amount: victim.Weight - (prev.Duration + victim.Duration),
			}
			deltas.right = outerDelta{Start: &next.Start, Amount: prev.Duration}
		} else {
			// tie or next shorter: the victim's own slot survives,
			// absorbing next.
			survivorStart, removedStart = victim.Start, next.Start

			deltas.left = outerDelta{Start: &prev.Start, Amount: next.Duration}
			deltas.center = centerDelta{
				Start:  victim.Start,
				Amount: next.Weight - (next.Duration + victim.Duration),
			}
			deltas.right = outerDelta{Start: next.Next, Amount: victim.Duration}
		}

	default:
		return SubsumeDeltas{}, ErrNothingToSubsume
	}

	survivor := e.Rects[survivorStart]
	removed := e.Rects[removedStart]

	deltas.removed = removedEntry{Start: removed.Start, Weight: removed.Weight}

	survivor.Next = removed.Next
	if survivor.Next != nil {
		e.Rects[*survivor.Next].Prev = &survivor.Start
	} else {
		last := survivor.Start
		e.Last = &last
	}

	survivor.Duration += removed.Duration
	for i := range survivor.States {
		survivor.States[i] += removed.States[i]
	}

	if removed.Tags != nil {
		if survivor.Tags == nil {
			survivor.Tags = make(map[model.TagID]model.NanoTime, len(removed.Tags))
		}
		for id, dur := range removed.Tags {
			survivor.Tags[id] += dur
		}
	}

	delete(e.Rects, removedStart)

	return deltas, nil
}

// Apply mutates the in-memory Weight fields the deltas from Subsume
// describe, and returns the ordered list of WeightIndex edits a caller
// should replay: remove (Start, OldWeight), and — unless Delta is nil —
// insert (Start, OldWeight+*Delta).
//
// Order is: outer-left (if present), survivor, removed, outer-right (if
// present) — matching spec §4.1's (a),(b),(c),(d) ordering.
func Apply(e *model.Entity, d SubsumeDeltas) []WeightUpdate {
	updates := make([]WeightUpdate, 0, 4)

	if d.left.Start != nil {
		old := addTo(e, *d.left.Start, d.left.Amount)
		amt := d.left.Amount
		updates = append(updates, WeightUpdate{Start: *d.left.Start, OldWeight: old, Delta: &amt})
	}

	{
		old := addTo(e, d.center.Start, d.center.Amount)
		amt := d.center.Amount
		updates = append(updates, WeightUpdate{Start: d.center.Start, OldWeight: old, Delta: &amt})
	}

	updates = append(updates, WeightUpdate{Start: d.removed.Start, OldWeight: d.removed.Weight, Delta: nil})

	if d.right.Start != nil {
		old := addTo(e, *d.right.Start, d.right.Amount)
		amt := d.right.Amount
		updates = append(updates, WeightUpdate{Start: *d.right.Start, OldWeight: old, Delta: &amt})
	}

	return updates
}

func addTo(e *model.Entity, start model.NanoTime, delta model.NanoTime) model.NanoTime {
	r := e.Rects[start]
	old := r.Weight
	r.Weight += delta

	return old
}

// VerifyTags is the opt-in full-tagging checker discussed in spec §9's open
// question: the default ingest path accepts rectangles whose tagged
// duration is less than their total duration (partial tagging), but a
// caller that wants to assert full tagging — e.g. a test fixture that
// tags every datum — can call VerifyTags to enforce invariant 4 from
// spec §3 strictly.
func VerifyTags(e *model.Entity) error {
	for start, r := range e.Rects {
		if r.Tags == nil {
			continue
		}

		var sum model.NanoTime
		for _, d := range r.Tags {
			sum += d
		}

		if sum != r.Duration {
			return &TagCoverageError{Start: start, TaggedDuration: sum, Duration: r.Duration}
		}
	}

	return nil
}

// TagCoverageError reports a rectangle whose tagged duration does not
// equal its total duration, as detected by VerifyTags.
type TagCoverageError struct {
	Start          model.NanoTime
	TaggedDuration model.NanoTime
	Duration       model.NanoTime
}

func (e *TagCoverageError) Error() string {
	return ErrPartialTags.Error()
}

func (e *TagCoverageError) Unwrap() error {
	return ErrPartialTags
}
