package rectlist_test

import (
	"testing"

	"github.com/katalvlaran/statemap/model"
	"github.com/katalvlaran/statemap/rectlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nstates = 3

func openEntity(start model.NanoTime, state model.StateID) *model.Entity {
	e := model.NewEntity(0, "t")
	s := start
	st := state
	e.Start = &s
	e.State = &st

	return e
}

func reopen(e *model.Entity, start model.NanoTime, state model.StateID) {
	s := start
	st := state
	e.Start = &s
	e.State = &st
}

func totalDuration(e *model.Entity) model.NanoTime {
	var sum model.NanoTime
	for _, r := range e.Rects {
		sum += r.Duration
	}

	return sum
}

func totalStateNS(e *model.Entity, state model.StateID) model.NanoTime {
	var sum model.NanoTime
	for _, r := range e.Rects {
		sum += r.States[state]
	}

	return sum
}

func TestNewRect_FirstIntervalHasNoLeftNeighbor(t *testing.T) {
	e := openEntity(0, 0)

	lhs, rhs := rectlist.NewRect(e, 100, nstates)

	assert.Nil(t, lhs)
	assert.Equal(t, model.NanoTime(0), rhs.Start)
	assert.Equal(t, model.NanoTime(100), rhs.Weight)
	require.Len(t, e.Rects, 1)
	assert.Equal(t, model.NanoTime(100), e.Rects[0].Duration)
}

func TestNewRect_SecondIntervalReweightsFirst(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates)

	reopen(e, 100, 1)
	lhs, rhs := rectlist.NewRect(e, 300, nstates)

	require.NotNil(t, lhs)
	assert.Equal(t, model.NanoTime(0), lhs.Start)
	assert.Equal(t, model.NanoTime(100), lhs.OldWeight)
	assert.Equal(t, model.NanoTime(300), lhs.NewWeight) // 100 (own) + 200 (next's duration)

	assert.Equal(t, model.NanoTime(100), rhs.Start)
	assert.Equal(t, model.NanoTime(300), rhs.Weight) // 200 (own) + 100 (prev's duration)

	assert.Equal(t, e.Rects[0].Start, *e.Rects[100].Prev)
	assert.Equal(t, e.Rects[100].Start, *e.Rects[0].Next)
}

// TestSubsume_OnlyLeftNeighbor covers the case where the victim is the
// tail rectangle: it has a prev but no next, so prev absorbs it and
// keeps its own slot.
func TestSubsume_OnlyLeftNeighbor(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates) // [0,100) state 0
	reopen(e, 100, 1)
	rectlist.NewRect(e, 250, nstates) // [100,250) state 1, victim

	before := totalDuration(e)

	deltas, err := rectlist.Subsume(e, 100)
	require.NoError(t, err)

	_, stillThere := e.Rects[100]
	assert.False(t, stillThere)

	survivor := e.Rects[0]
	assert.Equal(t, model.NanoTime(250), survivor.Duration)
	assert.Equal(t, model.NanoTime(100), survivor.States[0])
	assert.Equal(t, model.NanoTime(150), survivor.States[1])
	assert.Nil(t, survivor.Next)
	assert.Equal(t, model.NanoTime(0), *e.Last)

	updates := rectlist.Apply(e, deltas)
	require.Len(t, updates, 2) // center + removed, no outer neighbors

	assert.Equal(t, before, totalDuration(e))
}

// TestSubsume_OnlyRightNeighbor covers the case where the victim is the
// head rectangle: it has a next but no prev, so the victim's own slot
// survives and absorbs next.
func TestSubsume_OnlyRightNeighbor(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates) // [0,100) state 0, victim
	reopen(e, 100, 1)
	rectlist.NewRect(e, 250, nstates) // [100,250) state 1

	before := totalDuration(e)

	deltas, err := rectlist.Subsume(e, 0)
	require.NoError(t, err)

	survivor, ok := e.Rects[0]
	require.True(t, ok)
	assert.Equal(t, model.NanoTime(250), survivor.Duration)
	assert.Equal(t, model.NanoTime(100), survivor.States[0])
	assert.Equal(t, model.NanoTime(150), survivor.States[1])

	_, removedStillThere := e.Rects[100]
	assert.False(t, removedStillThere)

	rectlist.Apply(e, deltas)
	assert.Equal(t, before, totalDuration(e))
}

// TestSubsume_BothNeighborsTieBreak exercises the middle case with three
// rectangles where the victim's two neighbors tie in duration; per the
// original source's branch (strict `<` picks prev, the `else` including
// ties picks next), the tie resolves to the victim keeping its own slot
// and absorbing its right neighbor.
func TestSubsume_BothNeighborsTieBreak(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates) // [0,100) prev, duration 100
	reopen(e, 100, 1)
	rectlist.NewRect(e, 200, nstates) // [100,200) victim, duration 100
	reopen(e, 200, 2)
	rectlist.NewRect(e, 300, nstates) // [200,300) next, duration 100

	reopen(e, 300, 0)
	rectlist.NewRect(e, 400, nstates) // keep an open tail so Last bookkeeping stays simple

	before := totalDuration(e)

	deltas, err := rectlist.Subsume(e, 100)
	require.NoError(t, err)

	// Tie -> victim's own slot (100) survives, absorbing next (200).
	survivor, ok := e.Rects[100]
	require.True(t, ok)
	assert.Equal(t, model.NanoTime(200), survivor.Duration)
	assert.Equal(t, model.NanoTime(100), survivor.States[1])
	assert.Equal(t, model.NanoTime(100), survivor.States[2])

	_, removedStillThere := e.Rects[200]
	assert.False(t, removedStillThere)

	assert.Equal(t, model.NanoTime(0), *survivor.Prev)
	require.NotNil(t, survivor.Next)
	assert.Equal(t, model.NanoTime(300), *survivor.Next)
	assert.Equal(t, model.NanoTime(100), *e.Rects[300].Prev)

	rectlist.Apply(e, deltas)
	assert.Equal(t, before, totalDuration(e))
}

// TestSubsume_BothNeighborsStrictlyShorterLeft exercises the case where
// prev is strictly shorter than next, so prev absorbs the victim and
// next becomes prev's new right neighbor.
func TestSubsume_BothNeighborsStrictlyShorterLeft(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 50, nstates) // [0,50) prev, duration 50 (shorter)
	reopen(e, 50, 1)
	rectlist.NewRect(e, 150, nstates) // [50,150) victim, duration 100
	reopen(e, 150, 2)
	rectlist.NewRect(e, 400, nstates) // [150,400) next, duration 250

	reopen(e, 400, 0)
	rectlist.NewRect(e, 500, nstates)

	before := totalDuration(e)

	deltas, err := rectlist.Subsume(e, 50)
	require.NoError(t, err)

	survivor, ok := e.Rects[0]
	require.True(t, ok)
	assert.Equal(t, model.NanoTime(150), survivor.Duration)
	assert.Equal(t, model.NanoTime(50), survivor.States[0])
	assert.Equal(t, model.NanoTime(100), survivor.States[1])

	_, removedStillThere := e.Rects[50]
	assert.False(t, removedStillThere)

	require.NotNil(t, survivor.Next)
	assert.Equal(t, model.NanoTime(150), *survivor.Next)
	assert.Equal(t, model.NanoTime(0), *e.Rects[150].Prev)

	rectlist.Apply(e, deltas)
	assert.Equal(t, before, totalDuration(e))
}

func TestSubsume_NoNeighbors(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates)

	_, err := rectlist.Subsume(e, 0)
	assert.ErrorIs(t, err, rectlist.ErrNothingToSubsume)
}

func TestSubsume_UnknownRect(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates)

	_, err := rectlist.Subsume(e, 999)
	assert.ErrorIs(t, err, rectlist.ErrUnknownRect)
}

func TestSubsume_TagsMerge(t *testing.T) {
	e := openEntity(0, 0)
	tag0 := model.TagID(7)
	e.Tag = &tag0
	rectlist.NewRect(e, 100, nstates)

	reopen(e, 100, 1)
	tag1 := model.TagID(8)
	e.Tag = &tag1
	rectlist.NewRect(e, 250, nstates)

	deltas, err := rectlist.Subsume(e, 0)
	require.NoError(t, err)
	rectlist.Apply(e, deltas)

	survivor := e.Rects[0]
	require.NotNil(t, survivor.Tags)
	assert.Equal(t, model.NanoTime(100), survivor.Tags[tag0])
	assert.Equal(t, model.NanoTime(150), survivor.Tags[tag1])
}

func TestVerifyTags_PartialCoverageFails(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates) // no tag set -> partial coverage is fine on its own

	tag0 := model.TagID(1)
	e.Rects[0].Tags = map[model.TagID]model.NanoTime{tag0: 40} // less than the 100ns duration

	err := rectlist.VerifyTags(e)
	require.Error(t, err)
	assert.ErrorIs(t, err, rectlist.ErrPartialTags)
}

func TestVerifyTags_FullCoveragePasses(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates)

	tag0 := model.TagID(1)
	e.Rects[0].Tags = map[model.TagID]model.NanoTime{tag0: 100}

	assert.NoError(t, rectlist.VerifyTags(e))
}

func TestApply_RemovedUpdateHasNilDelta(t *testing.T) {
	e := openEntity(0, 0)
	rectlist.NewRect(e, 100, nstates)
	reopen(e, 100, 1)
	rectlist.NewRect(e, 250, nstates)

	deltas, err := rectlist.Subsume(e, 100)
	require.NoError(t, err)

	updates := rectlist.Apply(e, deltas)
	found := false
	for _, u := range updates {
		if u.Start == 100 {
			found = true
			assert.Nil(t, u.Delta)
		}
	}
	assert.True(t, found)
}
