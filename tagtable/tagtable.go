package tagtable

import "github.com/katalvlaran/statemap/model"

// key identifies a tag by the (state, tag-string) pair it was defined on.
// Two different states may use the same tag string and get different ids.
type key struct {
	state model.StateID
	tag   string
}

// TagTable interns (state, tag) pairs to dense model.TagID values.
type TagTable struct {
	noTags bool
	ids    map[key]model.TagID
	defs   []model.TagDef // dense, indexed by TagID
}

// New returns an empty TagTable. If noTags is true, Lookup always reports
// "no tag" regardless of input, and Define is a no-op that returns the
// zero TagID — this is how Config.NoTags (spec §4.4) is threaded through.
func New(noTags bool) *TagTable {
	return &TagTable{
		noTags: noTags,
		ids:    make(map[key]model.TagID),
	}
}

// Lookup returns the dense tag id for (state, tag), interning it on first
// sight. ok is false when tag is nil or the table was built with noTags —
// in both cases the datum carries no effective tag (spec §4.4: tag_lookup
// returns None for a nil tag, and unconditionally under notags).
func (t *TagTable) Lookup(state model.StateID, tag *string) (id model.TagID, ok bool) {
	if tag == nil || t.noTags {
		return 0, false
	}

	k := key{state: state, tag: *tag}
	if id, exists := t.ids[k]; exists {
		return id, true
	}

	id = model.TagID(len(t.defs))
	t.ids[k] = id
	t.defs = append(t.defs, model.TagDef{State: state, Tag: *tag, Payload: nil})

	return id, true
}

// Define records or replaces the payload for (state, tag), allocating a
// new id if this is the first time the pair has been seen (e.g. a TagDef
// arriving before any Datum uses it), and reusing the existing id
// otherwise — redefinition never changes a tag's id (spec §8 round-trip
// property).
func (t *TagTable) Define(state model.StateID, tag string, payload map[string]interface{}) model.TagID {
	if t.noTags {
		return 0
	}

	k := key{state: state, tag: tag}
	id, exists := t.ids[k]
	if !exists {
		id = model.TagID(len(t.defs))
		t.ids[k] = id
		t.defs = append(t.defs, model.TagDef{})
	}

	t.defs[id] = model.TagDef{State: state, Tag: tag, Payload: payload}

	return id
}

// Defs returns the dense, TagID-ordered table of tag definitions, for
// re-emission by the renderer. The returned slice must not be mutated.
func (t *TagTable) Defs() []model.TagDef {
	return t.defs
}
