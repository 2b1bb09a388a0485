package ingest

import (
	jsoniter "github.com/json-iterator/go"
)

// strictJSON rejects any field not named on the target struct, used to
// discriminate between the four post-metadata payload shapes by structural
// fit (spec §4.3): a datum with a "description" field, say, is rejected by
// the Datum shape and falls through to the next candidate.
var strictJSON = jsoniter.Config{DisallowUnknownFields: true}.Froze()

// lenientJSON is used for TagDef, which is explicitly open-ended: the
// "state" and "tag" fields are required but every other field is
// arbitrary payload (spec §4.3 shape 4).
var lenientJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// wireMetadata is the first object of an input stream (spec §4.3).
type wireMetadata struct {
	Start      []uint64               `json:"start"`
	Title      string                  `json:"title"`
	Host       *string                 `json:"host"`
	EntityKind *string                 `json:"entityKind"`
	States     map[string]wireStateDef `json:"states"`
}

type wireStateDef struct {
	Value      int     `json:"value"`
	Color      *string `json:"color"`
	Background bool    `json:"background"`
}

// wireDatum is shape 1: a state transition. Time arrives as a decimal
// string to survive JSON's 53-bit float mantissa (spec §6). Fields are
// pointers so a missing (as opposed to zero-valued) field can be told
// apart from a present one — required-ness is part of what discriminates
// this shape from the other three.
type wireDatum struct {
	Time   *string `json:"time"`
	Entity *string `json:"entity"`
	State  *int    `json:"state"`
	Tag    *string `json:"tag"`
}

func (d wireDatum) complete() bool {
	return d.Time != nil && d.Entity != nil && d.State != nil
}

// wireDescription is shape 2: an entity description.
type wireDescription struct {
	Entity      *string `json:"entity"`
	Description *string `json:"description"`
}

func (d wireDescription) complete() bool {
	return d.Entity != nil && d.Description != nil
}

// wireEvent is shape 3: a forward-compatible placeholder, only counted.
type wireEvent struct {
	Time   *string `json:"time"`
	Entity *string `json:"entity"`
	Event  *string `json:"event"`
	Target *string `json:"target"`
}

func (e wireEvent) complete() bool {
	return e.Time != nil && e.Entity != nil && e.Event != nil
}

// wireTagDef is shape 4, decoded leniently: "state" and "tag" are
// required, every other key becomes Payload verbatim.
type wireTagDef struct {
	State   int
	Tag     string
	Payload map[string]interface{}
}

func decodeTagDef(raw []byte) (wireTagDef, bool) {
	var m map[string]interface{}
	if err := lenientJSON.Unmarshal(raw, &m); err != nil {
		return wireTagDef{}, false
	}

	stateRaw, ok := m["state"]
	if !ok {
		return wireTagDef{}, false
	}
	stateF, ok := stateRaw.(float64)
	if !ok {
		return wireTagDef{}, false
	}

	tagRaw, ok := m["tag"]
	if !ok {
		return wireTagDef{}, false
	}
	tag, ok := tagRaw.(string)
	if !ok {
		return wireTagDef{}, false
	}

	delete(m, "state")
	delete(m, "tag")
	if len(m) == 0 {
		m = nil
	}

	return wireTagDef{State: int(stateF), Tag: tag, Payload: m}, true
}
