package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/statemap/color"
	"github.com/katalvlaran/statemap/ingest"
	"github.com/katalvlaran/statemap/model"
)

func rect(start, duration model.NanoTime, states ...model.NanoTime) *model.Rectangle {
	return &model.Rectangle{Start: start, Duration: duration, States: states}
}

func entity(name string, rects ...*model.Rectangle) *model.Entity {
	e := model.NewEntity(0, name)
	for _, r := range rects {
		e.Rects[r.Start] = r
	}

	return e
}

func TestSortEntities_NaturalOrderByDefault(t *testing.T) {
	entities := []*model.Entity{
		entity("entity10"),
		entity("entity2"),
		entity("entity1"),
	}

	order := sortEntities(entities, -1)

	assert.Equal(t, []string{"entity1", "entity2", "entity10"}, names(order))
}

func TestSortEntities_ByStateDescendingWithNaturalTiebreak(t *testing.T) {
	entities := []*model.Entity{
		entity("b", rect(0, 10, 5, 5)),
		entity("a", rect(0, 10, 8, 2)),
		entity("c", rect(0, 10, 8, 2)),
	}

	order := sortEntities(entities, 0)

	assert.Equal(t, []string{"a", "c", "b"}, names(order))
}

func names(entities []*model.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}

	return out
}

func threeStates() []model.State {
	return []model.State{{Name: "a", Value: 0}, {Name: "b", Value: 1}, {Name: "c", Value: 2}}
}

func TestRectDatum_MajorityIsBaseOthersSequentiallyMixed(t *testing.T) {
	colors := []color.RGB{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
	}

	r := rect(0, 100, 50, 30, 20)

	literal, c, dim := rectDatum(r, threeStates(), colors)

	assert.NotEqual(t, colors[0], c, "a blended rectangle must differ from the pure majority color")
	assert.False(t, dim)
	assert.Contains(t, literal, "s: {")
	assert.Contains(t, literal, "'1': 0.300")
	assert.Contains(t, literal, "'2': 0.200")
}

func TestRectDatum_SingleStateIsUnblended(t *testing.T) {
	colors := []color.RGB{{R: 10, G: 20, B: 30}, {R: 40, G: 50, B: 60}}
	r := rect(0, 100, 100, 0)

	literal, c, _ := rectDatum(r, []model.State{{Name: "a"}, {Name: "b"}}, colors)

	assert.Equal(t, colors[0], c)
	assert.Contains(t, literal, "s: 0")
}

func TestRectDatum_BackgroundStateIsDimmed(t *testing.T) {
	colors := []color.RGB{{R: 10, G: 20, B: 30}}
	r := rect(0, 100, 100)

	_, _, dim := rectDatum(r, []model.State{{Name: "idle", Background: true}}, colors)

	assert.True(t, dim)
}

func TestRectDatum_TagsEmittedAsFractionMap(t *testing.T) {
	colors := []color.RGB{{R: 1, G: 2, B: 3}}
	r := rect(0, 100, 100)
	r.Tags = map[model.TagID]model.NanoTime{2: 25, 0: 75}

	literal, _, _ := rectDatum(r, []model.State{{Name: "a"}}, colors)

	assert.Contains(t, literal, "g: { '0': 0.750, '2': 0.250 }")
}

func TestRender_UnknownSortStateIsFatal(t *testing.T) {
	doc := &ingest.Document{
		States:   []model.State{{Name: "up", Value: 0}},
		Entities: nil,
		Config:   model.NewConfig(),
	}

	err := Render(&bytes.Buffer{}, doc, NewOptions(WithSortBy("nonexistent")))

	require.ErrorIs(t, err, ErrUnknownSortState)
}

func TestRender_OneGroupPerEntity(t *testing.T) {
	e1 := entity("svc-1", rect(0, 50, 50))
	e2 := entity("svc-2", rect(0, 30, 0, 30))

	doc := &ingest.Document{
		States: []model.State{
			{Name: "up", Value: 0, Color: ptrColor(color.RGB{R: 0, G: 200, B: 0})},
			{Name: "down", Value: 1, Color: ptrColor(color.RGB{R: 200, G: 0, B: 0})},
		},
		Entities: []*model.Entity{e1, e2},
		Config:   model.NewConfig(model.WithEnd(100)),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, NewOptions()))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "<g id=\"statemap-entity-"))
	assert.Contains(t, out, "svc-1")
	assert.Contains(t, out, "svc-2")
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "</svg>")

	assert.Contains(t, out, "var g_data")
	assert.Contains(t, out, `"svc-1": [`)
	assert.Contains(t, out, `onclick="mapclick(evt, 0)"`)
	assert.Contains(t, out, `onclick="legendclick(evt, 0)"`)
}

func TestRender_SortByStateReordersStrips(t *testing.T) {
	e1 := entity("a", rect(0, 10, 10, 0))
	e2 := entity("b", rect(0, 10, 0, 10))

	doc := &ingest.Document{
		States: []model.State{
			{Name: "up", Value: 0},
			{Name: "down", Value: 1},
		},
		Entities: []*model.Entity{e1, e2},
		Config:   model.NewConfig(model.WithEnd(10)),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, NewOptions(WithSortBy("down"))))

	out := buf.String()
	require.Less(t, strings.Index(out, "statemap-entity-b"), strings.Index(out, "statemap-entity-a"))
}

func ptrColor(c color.RGB) *color.RGB { return &c }
