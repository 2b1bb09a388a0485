package model

import "github.com/katalvlaran/statemap/color"

// NanoTime is a nanosecond timestamp or duration, decoded from the wire
// format's decimal-string "time" field (spec §6) to avoid float64's 53-bit
// mantissa precision loss.
type NanoTime uint64

// StateID is a dense, 0-based index into the global State table.
type StateID int

// TagID is a dense, monotonically assigned tag identifier.
type TagID int

// EntityID is a dense id assigned in order of an entity's first appearance.
type EntityID int

// State is one declared state descriptor. Value must equal the State's own
// index in the table that holds it — metadata validation enforces this
// (spec §4.3) so StateID can double as a direct slice index everywhere
// else (Rectangle.States, color tables, ...).
type State struct {
	Name  string
	Value StateID

	// Color is the declared color, or nil if metadata omitted one (the
	// renderer then assigns a random color, spec §4.5).
	Color *color.RGB

	// Background marks a state as a low-salience "idle" state, set from
	// metadata's optional "background" field on a state definition. render
	// dims such a state's fill (SPEC_FULL.md §5) instead of letting it
	// compete for attention with active states.
	Background bool
}

// TagDef is a tag definition's preserved payload, re-emitted verbatim by
// the renderer (spec §4.4). Fields beyond State/Tag are arbitrary and not
// interpreted by the core engine.
type TagDef struct {
	State   StateID
	Tag     string
	Payload map[string]interface{}
}

// Rectangle is a maximal contiguous interval on one entity's timeline,
// possibly blended (more than one nonzero States entry) after coalescing.
//
// Prev and Next are *NanoTime rather than *Rectangle: per spec §9, the
// per-entity list must be expressible without cyclic ownership, so
// neighbors are referenced by start-time key into Entity.Rects rather
// than by direct pointer.
type Rectangle struct {
	Start    NanoTime
	Duration NanoTime
	Prev     *NanoTime
	Next     *NanoTime

	// States holds, per state index, the nanoseconds of this rectangle
	// spent in that state. For an un-subsumed rectangle exactly one entry
	// is nonzero; a blended rectangle has more than one.
	States []NanoTime

	// Weight is the coalescing priority: Duration plus both neighbors'
	// durations (a missing neighbor contributes 0).
	Weight NanoTime

	// Tags accumulates tag-id -> nanoseconds for this rectangle. Nil if no
	// datum contributing to this rectangle carried a tag.
	Tags map[TagID]NanoTime
}

// Entity is one row of the statemap: a name, a dense id, and the
// (possibly still-open) history of state intervals it has passed through.
type Entity struct {
	ID          EntityID
	Name        string
	Description string

	// Last is the start-time of the most recently completed rectangle, or
	// nil if none has been closed yet.
	Last *NanoTime

	// Start, State and Tag describe the currently open interval; Start is
	// nil before the entity's first datum.
	Start *NanoTime
	State *StateID
	Tag   *TagID

	// Rects maps a rectangle's start time to its body. See the Prev/Next
	// comment on Rectangle for why this indirection exists.
	Rects map[NanoTime]*Rectangle
}

// NewEntity allocates an Entity with the given id and name and an empty
// rectangle map.
func NewEntity(id EntityID, name string) *Entity {
	return &Entity{
		ID:    id,
		Name:  name,
		Rects: make(map[NanoTime]*Rectangle),
	}
}
