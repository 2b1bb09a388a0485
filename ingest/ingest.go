package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/statemap/color"
	"github.com/katalvlaran/statemap/model"
	"github.com/katalvlaran/statemap/rectlist"
	"github.com/katalvlaran/statemap/tagtable"
	"github.com/katalvlaran/statemap/weightindex"
	"github.com/rs/zerolog"
)

// Document is the fully-ingested result: the validated metadata header
// plus every entity's finalized rectangle history, ready for rendering.
type Document struct {
	Start      [2]uint64
	Title      string
	Host       string
	EntityKind string
	States     []model.State
	Entities   []*model.Entity
	Tags       []model.TagDef
	Config     model.Config

	// NEvents is the count of shape-3 Event payloads seen; they carry no
	// other effect (spec §4.3, shape 3).
	NEvents int
}

// Ingest parses a UTF-8 stream of concatenated JSON objects (spec §6)
// under cfg and returns the finalized Document, or the first fatal error
// encountered, annotated with its 1-based input line (spec §4.3, §7).
//
// log receives debug-level lines: one when the metadata is validated, one
// per ingested datum, and a completion summary; pass zerolog.Nop() to
// disable this without branching at call sites.
func Ingest(r io.Reader, cfg model.Config, log zerolog.Logger) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading input: %w", err)
	}

	objects, err := splitObjects(data)
	if err != nil {
		var oe *offsetError
		if errors.As(err, &oe) {
			return nil, &LineError{Line: lineForOffset(data, oe.offset), Err: oe.err}
		}

		return nil, err
	}

	if len(objects) == 0 {
		return nil, &LineError{Line: 1, Err: ErrMissingMetadata}
	}

	meta, err := decodeMetadata(objects[0].data)
	if err != nil {
		return nil, &LineError{Line: lineForOffset(data, objects[0].offset), Err: err}
	}

	states, err := buildStates(meta)
	if err != nil {
		return nil, &LineError{Line: lineForOffset(data, objects[0].offset), Err: err}
	}

	log.Debug().Str("title", meta.Title).Int("states", len(states)).Msg("metadata validated")

	eng := newEngine(cfg, len(states), log)

	for _, obj := range objects[1:] {
		if err := eng.ingestOne(obj.data); err != nil {
			return nil, &LineError{Line: lineForOffset(data, obj.offset), Err: err}
		}
	}

	eng.close()

	var host, entityKind string
	if meta.Host != nil {
		host = *meta.Host
	}
	if meta.EntityKind != nil {
		entityKind = *meta.EntityKind
	}

	var start [2]uint64
	copy(start[:], meta.Start)

	log.Debug().
		Int("entities", len(eng.order)).
		Int("rects", eng.idx.Len()).
		Int("events", eng.nEvents).
		Msg("ingest complete")

	return &Document{
		Start:      start,
		Title:      meta.Title,
		Host:       host,
		EntityKind: entityKind,
		States:     states,
		Entities:   eng.order,
		Tags:       eng.tags.Defs(),
		Config:     cfg,
		NEvents:    eng.nEvents,
	}, nil
}

func decodeMetadata(raw []byte) (wireMetadata, error) {
	var m wireMetadata
	if err := strictJSON.Unmarshal(raw, &m); err != nil {
		return wireMetadata{}, fmt.Errorf("invalid metadata: %w", err)
	}

	if len(m.Start) != 2 {
		return wireMetadata{}, ErrBadStartLen
	}

	return m, nil
}

func buildStates(meta wireMetadata) ([]model.State, error) {
	if len(meta.States) == 0 {
		return nil, ErrNoStates
	}

	byValue := make(map[model.StateID]model.State, len(meta.States))
	for name, def := range meta.States {
		sid := model.StateID(def.Value)
		if existing, exists := byValue[sid]; exists {
			return nil, &StateValueError{
				Name:   name,
				Value:  def.Value,
				Detail: fmt.Sprintf("conflicts with state %q", existing.Name),
			}
		}

		var col *color.RGB
		if def.Color != nil {
			c, err := color.Parse(*def.Color)
			if err != nil {
				return nil, fmt.Errorf("state %q: %w", name, err)
			}
			col = &c
		}

		byValue[sid] = model.State{Name: name, Value: sid, Color: col, Background: def.Background}
	}

	return model.ValidateStates(byValue)
}

// engine is the running Ingester: the entity table, the shared tag table,
// and the cross-entity WeightIndex, wired together exactly as spec §4.3
// describes.
type engine struct {
	cfg     model.Config
	nstates int
	tags    *tagtable.TagTable
	idx     *weightindex.Index
	byName  map[string]*model.Entity
	order   []*model.Entity
	nEvents int
	log     zerolog.Logger
}

func newEngine(cfg model.Config, nstates int, log zerolog.Logger) *engine {
	return &engine{
		cfg:     cfg,
		nstates: nstates,
		tags:    tagtable.New(cfg.NoTags),
		idx:     weightindex.New(),
		byName:  make(map[string]*model.Entity),
		log:     log,
	}
}

func (e *engine) entity(name string) *model.Entity {
	if ent, ok := e.byName[name]; ok {
		return ent
	}

	ent := model.NewEntity(model.EntityID(len(e.order)), name)
	e.byName[name] = ent
	e.order = append(e.order, ent)

	return ent
}

// ingestOne tries each of the four post-metadata shapes in the order
// fixed by spec §4.3: Datum, Description, Event, TagDef.
func (e *engine) ingestOne(raw []byte) error {
	var d wireDatum
	if err := strictJSON.Unmarshal(raw, &d); err == nil && d.complete() {
		return e.ingestDatum(d)
	}

	var desc wireDescription
	if err := strictJSON.Unmarshal(raw, &desc); err == nil && desc.complete() {
		e.entity(*desc.Entity).Description = *desc.Description

		return nil
	}

	var ev wireEvent
	if err := strictJSON.Unmarshal(raw, &ev); err == nil && ev.complete() {
		e.nEvents++

		return nil
	}

	if tag, ok := decodeTagDef(raw); ok {
		if !e.cfg.NoTags {
			e.tags.Define(model.StateID(tag.State), tag.Tag, tag.Payload)
		}

		return nil
	}

	return ErrUnrecognized
}

func (e *engine) ingestDatum(d wireDatum) error {
	t, err := strconv.ParseUint(*d.Time, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid datum time %q: %w", *d.Time, err)
	}
	tm := model.NanoTime(t)

	if e.cfg.End > 0 && tm > e.cfg.End {
		return nil
	}

	state := model.StateID(*d.State)
	if int(state) >= e.nstates || state < 0 {
		return ErrIllegalState
	}

	tagID, tagOK := e.tags.Lookup(state, d.Tag)

	ent := e.entity(*d.Entity)

	if ent.Start != nil {
		prevStart := *ent.Start
		if tm < prevStart {
			return &OutOfOrderError{Time: uint64(tm), Prior: uint64(prevStart)}
		}

		if tm > e.cfg.Begin {
			if prevStart < e.cfg.Begin {
				clamped := e.cfg.Begin
				ent.Start = &clamped
			}

			lhs, rhs := rectlist.NewRect(ent, tm, e.nstates)
			if lhs != nil {
				e.idx.Update(
					weightindex.Entry{Weight: lhs.OldWeight, Start: lhs.Start, Entity: ent.ID},
					weightindex.Entry{Weight: lhs.NewWeight, Start: lhs.Start, Entity: ent.ID},
				)
			}

			e.idx.Insert(weightindex.Entry{Weight: rhs.Weight, Start: rhs.Start, Entity: ent.ID})

			e.trim()
		}
	}

	start := tm
	ent.Start = &start
	ent.State = &state
	if tagOK {
		ent.Tag = &tagID
	} else {
		ent.Tag = nil
	}

	e.log.Debug().Str("entity", ent.Name).Uint64("time", uint64(tm)).Int("state", int(state)).Msg("datum ingested")

	return nil
}

// trim enforces the rectangle budget by repeatedly subsuming the
// least-weight rectangle until the WeightIndex is back under cfg.MaxRect
// (spec §4.3's post-commit trim).
func (e *engine) trim() {
	for e.idx.Len() >= e.cfg.MaxRect {
		entry, ok := e.idx.PopMin()
		if !ok {
			return
		}

		ent := e.order[entry.Entity]
		if len(ent.Rects) <= 1 {
			// Nothing to subsume into; the entry is simply discarded. The
			// rectangle is indexed again when the entity's next NewRect
			// reweights it as the new rectangle's left neighbor.
			continue
		}

		deltas, err := rectlist.Subsume(ent, entry.Start)
		if err != nil {
			// len(ent.Rects) > 1 guarantees at least one neighbor exists;
			// Subsume cannot fail here.
			continue
		}

		for _, u := range rectlist.Apply(ent, deltas) {
			e.idx.Remove(weightindex.Entry{Weight: u.OldWeight, Start: u.Start, Entity: ent.ID})
			if u.Delta != nil {
				e.idx.Insert(weightindex.Entry{Weight: u.OldWeight + *u.Delta, Start: u.Start, Entity: ent.ID})
			}
		}
	}
}

// close performs end-of-stream closure (spec §4.3): every entity with a
// still-open interval gets one final rectangle, exempt from the
// WeightIndex and from trimming.
func (e *engine) close() {
	end := e.cfg.End
	if end == 0 {
		for _, ent := range e.order {
			if ent.Start != nil && *ent.Start > end {
				end = *ent.Start
			}
		}
	}

	for _, ent := range e.order {
		if ent.Start != nil && *ent.Start < end {
			rectlist.NewRect(ent, end, e.nstates)
			ent.Last = ent.Start
		}
	}
}

// rawObject is one top-level JSON value extracted from the input, along
// with the byte offset of its opening brace (for line-number reporting).
type rawObject struct {
	data   []byte
	offset int
}

type offsetError struct {
	offset int
	err    error
}

func (e *offsetError) Error() string { return e.err.Error() }
func (e *offsetError) Unwrap() error { return e.err }

// splitObjects scans data for a sequence of concatenated top-level JSON
// objects separated only by optional whitespace (spec §6). It does not
// validate an object's interior beyond balancing braces and skipping over
// quoted strings; a malformed object's own JSON error surfaces when the
// caller unmarshals it.
func splitObjects(data []byte) ([]rawObject, error) {
	var out []rawObject
	i, n := 0, len(data)

	for {
		for i < n && isJSONSpace(data[i]) {
			i++
		}
		if i >= n {
			return out, nil
		}

		if data[i] != '{' {
			return out, &offsetError{offset: i, err: errors.New("unrecognized payload")}
		}

		start := i
		depth := 0
		inString := false
		escaped := false
		closed := false

		for ; i < n; i++ {
			c := data[i]

			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}

				continue
			}

			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					i++
					closed = true
				}
			}

			if closed {
				break
			}
		}

		if !closed {
			return out, &offsetError{offset: start, err: errors.New("unterminated JSON object")}
		}

		out = append(out, rawObject{data: data[start:i], offset: start})
	}
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func lineForOffset(data []byte, offset int) int {
	if offset > len(data) {
		offset = len(data)
	}

	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}
