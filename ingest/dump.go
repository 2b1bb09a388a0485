package ingest

import (
	"fmt"
	"io"
	"sort"

	"github.com/katalvlaran/statemap/model"
)

// Dump writes a plain-text rectangle listing for every entity, sorted by
// entity name then by rectangle start, for debugging a dataset without
// rendering it (SPEC_FULL.md §5's dump mode; grounded on the original's
// own debug print() path). Each entity's listing ends with a line giving
// its Last start time.
func (d *Document) Dump(w io.Writer) error {
	entities := make([]*model.Entity, len(d.Entities))
	copy(entities, d.Entities)
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })

	for _, e := range entities {
		starts := make([]model.NanoTime, 0, len(e.Rects))
		for s := range e.Rects {
			starts = append(starts, s)
		}
		sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

		for i, s := range starts {
			r := e.Rects[s]
			if _, err := fmt.Fprintf(w, "entity=%s [%d] start=%d duration=%d weight=%d states=%v tags=%v\n",
				e.Name, i, r.Start, r.Duration, r.Weight, r.States, r.Tags); err != nil {
				return err
			}
		}

		last := "none"
		if e.Last != nil {
			last = fmt.Sprintf("%d", *e.Last)
		}
		if _, err := fmt.Fprintf(w, "entity=%s last=%s\n", e.Name, last); err != nil {
			return err
		}
	}

	return nil
}
