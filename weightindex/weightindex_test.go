package weightindex_test

import (
	"testing"

	"github.com/katalvlaran/statemap/model"
	"github.com/katalvlaran/statemap/weightindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopMin_OrdersByWeightThenStartThenEntity(t *testing.T) {
	idx := weightindex.New()
	idx.Insert(weightindex.Entry{Weight: 5, Start: 1, Entity: 0})
	idx.Insert(weightindex.Entry{Weight: 3, Start: 9, Entity: 0})
	idx.Insert(weightindex.Entry{Weight: 3, Start: 2, Entity: 1})

	e, ok := idx.PopMin()
	require.True(t, ok)
	assert.Equal(t, model.NanoTime(3), e.Weight)
	assert.Equal(t, model.NanoTime(2), e.Start)

	e, ok = idx.PopMin()
	require.True(t, ok)
	assert.Equal(t, model.NanoTime(3), e.Weight)
	assert.Equal(t, model.NanoTime(9), e.Start)

	e, ok = idx.PopMin()
	require.True(t, ok)
	assert.Equal(t, model.NanoTime(5), e.Weight)

	_, ok = idx.PopMin()
	assert.False(t, ok)
}

func TestUpdate_RekeysWithoutDuplicating(t *testing.T) {
	idx := weightindex.New()
	old := weightindex.Entry{Weight: 10, Start: 1, Entity: 0}
	idx.Insert(old)

	updated := weightindex.Entry{Weight: 4, Start: 1, Entity: 0}
	idx.Update(old, updated)

	assert.Equal(t, 1, idx.Len())
	assert.False(t, idx.Contains(old))
	assert.True(t, idx.Contains(updated))
}

func TestRemove_AbsentEntryIsNoop(t *testing.T) {
	idx := weightindex.New()
	idx.Remove(weightindex.Entry{Weight: 1, Start: 1, Entity: 1})
	assert.Equal(t, 0, idx.Len())
}
