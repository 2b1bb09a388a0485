package tagtable_test

import (
	"testing"

	"github.com/katalvlaran/statemap/model"
	"github.com/katalvlaran/statemap/tagtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_NilTagIsNone(t *testing.T) {
	tt := tagtable.New(false)
	_, ok := tt.Lookup(0, nil)
	assert.False(t, ok)
}

func TestLookup_InternsAndReuses(t *testing.T) {
	tt := tagtable.New(false)
	a := "alpha"

	id1, ok := tt.Lookup(0, &a)
	require.True(t, ok)

	id2, ok := tt.Lookup(0, &a)
	require.True(t, ok)

	assert.Equal(t, id1, id2)
}

func TestLookup_DistinctStatesDistinctIDs(t *testing.T) {
	tt := tagtable.New(false)
	a := "alpha"

	id1, _ := tt.Lookup(0, &a)
	id2, _ := tt.Lookup(1, &a)

	assert.NotEqual(t, id1, id2)
}

func TestDefine_PreservesIDAcrossRedefinition(t *testing.T) {
	tt := tagtable.New(false)
	a := "alpha"

	id1, _ := tt.Lookup(0, &a)
	id2 := tt.Define(0, "alpha", map[string]interface{}{"color": "red"})
	assert.Equal(t, id1, id2)

	defs := tt.Defs()
	require.Len(t, defs, 1)
	assert.Equal(t, model.TagID(id1), model.TagID(0))
	assert.Equal(t, "red", defs[id2].Payload["color"])
}

func TestNoTags_AlwaysNone(t *testing.T) {
	tt := tagtable.New(true)
	a := "alpha"

	_, ok := tt.Lookup(0, &a)
	assert.False(t, ok)
	assert.Empty(t, tt.Defs())
}
