package render

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/statemap/color"
	"github.com/katalvlaran/statemap/ingest"
	"github.com/katalvlaran/statemap/model"
)

const entityPrefix = "statemap-entity-"

// Render writes a self-contained SVG document for doc to w (spec §4.5,
// §6): one strip per entity in sorted order, one <rect> per rectangle,
// and an embedded <defs> section with the globals object, tag table,
// description map and a small viewer script.
func Render(w io.Writer, doc *ingest.Document, opts Options) error {
	sortState := -1
	if opts.SortBy != "" && opts.SortBy != "entity" {
		found := false
		for _, st := range doc.States {
			if st.Name == opts.SortBy {
				sortState = int(st.Value)
				found = true

				break
			}
		}
		if !found {
			return ErrUnknownSortState
		}
	}

	order := sortEntities(doc.Entities, sortState)
	colors := resolveColors(doc.States)

	timeWidth := timeWidthOf(doc)
	stripHeight := uint64(opts.StripHeight)
	totalHeight := uint64(len(doc.Entities))*stripHeight + 60

	var body strings.Builder
	entityData := make(map[string][]string, len(order))

	y := uint64(60)
	for _, e := range order {
		entityData[e.Name] = writeStrip(&body, e, doc.States, colors, doc.Config.Begin, timeWidth, opts, y)
		y += stripHeight
	}

	writeLegend(&body, doc.States, colors, opts, y)

	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n",
		opts.StripWidth+opts.LegendWidth+opts.TagWidth, totalHeight)

	writeDefs(&b, doc, opts, colors, timeWidth, totalHeight, entityData)

	b.WriteString(body.String())
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())

	return err
}

func timeWidthOf(doc *ingest.Document) model.NanoTime {
	end := doc.Config.End
	for _, e := range doc.Entities {
		if e.Start != nil && *e.Start > end {
			end = *e.Start
		}
	}
	if end <= doc.Config.Begin {
		return 1
	}

	return end - doc.Config.Begin
}

func resolveColors(states []model.State) []color.RGB {
	rng := rand.New(rand.NewSource(1))
	colors := make([]color.RGB, len(states))
	for i, st := range states {
		if st.Color != nil {
			colors[i] = *st.Color
		} else {
			colors[i] = color.Random(rng)
		}
	}

	return colors
}

// sortEntities orders entities per spec §4.5: natural name order when
// sortState < 0, else descending total-ns-in-state with natural name as
// the tiebreak.
func sortEntities(entities []*model.Entity, sortState int) []*model.Entity {
	out := make([]*model.Entity, len(entities))
	copy(out, entities)

	totalIn := func(e *model.Entity, state int) model.NanoTime {
		var sum model.NanoTime
		for _, r := range e.Rects {
			if state < len(r.States) {
				sum += r.States[state]
			}
		}

		return sum
	}

	sort.Slice(out, func(i, j int) bool {
		if sortState >= 0 {
			ti, tj := totalIn(out[i], sortState), totalIn(out[j], sortState)
			if ti != tj {
				return ti > tj
			}
		}

		return naturalLess(out[i].Name, out[j].Name)
	})

	return out
}

// rectDatum computes both the display color and the embedded data-table
// record for one rectangle, per spec §4.5/§6: a rectangle with exactly one
// nonzero state is unblended and its "s" field is a bare state index; a
// rectangle with more than one nonzero state is blended — its base color
// is the state with the largest share, every other present state mixes in
// by its share of the total duration, and its "s" field becomes a
// state-index -> fraction map. Any accumulated tags are emitted as a "g"
// fraction map in ascending tag-id order (original implementation's own
// output_tags).
func rectDatum(r *model.Rectangle, states []model.State, colors []color.RGB) (literal string, c color.RGB, dim bool) {
	majority, nonzero := 0, 0
	for i, v := range r.States {
		if v != 0 {
			nonzero++
		}
		if v > r.States[majority] {
			majority = i
		}
	}

	c = colors[majority]

	var sField string
	if nonzero <= 1 {
		sField = strconv.Itoa(majority)
	} else {
		var parts []string
		for i, v := range r.States {
			if v == 0 {
				continue
			}

			ratio := float64(v) / float64(r.Duration)
			parts = append(parts, fmt.Sprintf("'%d': %.3f", i, ratio))

			if i != majority {
				c = color.Mix(c, colors[i], ratio)
			}
		}
		sField = "{ " + strings.Join(parts, ", ") + " }"
	}

	literal = fmt.Sprintf("{ t: %d, s: %s%s }", r.Start, sField, tagField(r))

	return literal, c, states[majority].Background
}

// tagField renders a rectangle's accumulated tags as a "g: { tagId:
// fraction, ... }" suffix in ascending tag-id order, or "" if untagged.
func tagField(r *model.Rectangle) string {
	if len(r.Tags) == 0 {
		return ""
	}

	ids := make([]int, 0, len(r.Tags))
	for id := range r.Tags {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		ratio := float64(r.Tags[model.TagID(id)]) / float64(r.Duration)
		parts[i] = fmt.Sprintf("'%d': %.3f", id, ratio)
	}

	return ", g: { " + strings.Join(parts, ", ") + " }"
}

// writeStrip emits one entity's background strip, its <g> of <rect>
// elements (each wired to the data table via onclick="mapclick(evt,
// index)", spec §4.5/§6), and returns that entity's data-table records in
// emission order so Render can assemble the matching g_data entry.
func writeStrip(b *strings.Builder, e *model.Entity, states []model.State, colors []color.RGB, begin, timeWidth model.NanoTime, opts Options, y uint64) []string {
	fmt.Fprintf(b, `<rect x="0" y="%d" width="%d" height="%d" style="fill:%s" />`+"\n",
		y, opts.StripWidth, opts.StripHeight, opts.Background)
	fmt.Fprintf(b, `<g id="%s%s"><title>%s</title>`+"\n", entityPrefix, e.Name, e.Name)

	starts := make([]model.NanoTime, 0, len(e.Rects))
	for s := range e.Rects {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	data := make([]string, 0, len(starts))
	for _, s := range starts {
		r := e.Rects[s]
		x := pixelX(s, begin, timeWidth, opts.StripWidth)
		width := pixelWidth(r.Duration, timeWidth, opts.StripWidth)

		literal, c, dim := rectDatum(r, states, colors)
		index := len(data)
		data = append(data, literal)

		style := "fill:" + c.String()
		if dim {
			style += ";fill-opacity:0.4"
		}

		fmt.Fprintf(b, `<rect x="%.2f" y="%d" width="%.2f" height="%d" onclick="mapclick(evt, %d)" style="%s" />`+"\n",
			x, y, width, opts.StripHeight, index, style)
	}

	b.WriteString("</g>\n")

	return data
}

func pixelX(start, begin, timeWidth model.NanoTime, stripWidth int) float64 {
	return (float64(start-begin) / float64(timeWidth)) * float64(stripWidth)
}

// pixelWidth adds a small fuzz factor so adjacent rectangles overlap by a
// sub-pixel amount rather than leaving the background visible at the
// seam (grounded on the original implementation's own rect_width).
func pixelWidth(duration, timeWidth model.NanoTime, stripWidth int) float64 {
	return (float64(duration)/float64(timeWidth))*float64(stripWidth) + 0.4
}

func writeLegend(b *strings.Builder, states []model.State, colors []color.RGB, opts Options, y uint64) {
	x := 20
	ly := y + 20
	const lheight, spacing = 15, 10

	for i, st := range states {
		fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" id="statemap-legend-%d" onclick="legendclick(evt, %d)" style="fill:%s" />`+"\n",
			x, ly, opts.LegendWidth, lheight, i, i, colors[i].String())
		ly += lheight + spacing
		fmt.Fprintf(b, `<text x="%d" y="%d" class="statemap-legendlabel">%s</text>`+"\n",
			x+opts.LegendWidth/2, ly, st.Name)
		ly += spacing
	}
}

func writeDefs(b *strings.Builder, doc *ingest.Document, opts Options, colors []color.RGB, timeWidth model.NanoTime, totalHeight uint64, entityData map[string][]string) {
	b.WriteString("<defs>\n")
	b.WriteString(`<script type="application/ecmascript"><![CDATA[` + "\n")

	fmt.Fprintf(b, "var globals = {\n")
	fmt.Fprintf(b, "  begin: %d, end: %d, timeWidth: %d,\n", doc.Config.Begin, doc.Config.End, timeWidth)
	fmt.Fprintf(b, "  pixelWidth: %d, pixelHeight: %d, totalHeight: %d,\n", opts.StripWidth, totalHeight, totalHeight)
	fmt.Fprintf(b, "  lmargin: %d, entityPrefix: %q,\n", opts.LegendWidth, entityPrefix)

	kind := doc.EntityKind
	if kind == "" {
		kind = DefaultEntityKind
	}
	fmt.Fprintf(b, "  entityKind: %q, start: [%d, %d], notags: %t,\n",
		kind, doc.Start[0], doc.Start[1], doc.Config.NoTags)

	b.WriteString("  entities: {\n")
	for i, e := range doc.Entities {
		comma := ","
		if i == len(doc.Entities)-1 {
			comma = ""
		}
		fmt.Fprintf(b, "    %q: { description: %q }%s\n", e.Name, e.Description, comma)
	}
	b.WriteString("  }\n};\n")

	if len(doc.Tags) > 0 {
		b.WriteString("globals.tags = [\n")
		for i, t := range doc.Tags {
			comma := ","
			if i == len(doc.Tags)-1 {
				comma = ""
			}
			fmt.Fprintf(b, "  { state: %d, tag: %q }%s\n", t.State, t.Tag, comma)
		}
		b.WriteString("];\n")
	} else {
		b.WriteString("globals.tags = [];\n")
	}

	writeGData(b, doc.Entities, entityData)

	b.WriteString(viewerScript)
	b.WriteString("]]></script>\n")
	b.WriteString("</defs>\n")
}

// writeGData emits the g_data object the original implementation's
// output_data builds: one array of data-table records per entity, keyed
// by entity name, indexed in the same order writeStrip assigned onclick
// indices in.
func writeGData(b *strings.Builder, entities []*model.Entity, entityData map[string][]string) {
	b.WriteString("var g_data = {\n")
	for i, e := range entities {
		comma := ","
		if i == len(entities)-1 {
			comma = ""
		}

		records := entityData[e.Name]
		fmt.Fprintf(b, "  %q: [\n", e.Name)
		for j, rec := range records {
			rc := ","
			if j == len(records)-1 {
				rc = ""
			}
			fmt.Fprintf(b, "    %s%s\n", rec, rc)
		}
		fmt.Fprintf(b, "  ]%s\n", comma)
	}
	b.WriteString("};\n")
}

// viewerScript is a minimal client-side stub exposing the hooks the
// original's interactive viewer wires up (pan/zoom/click); the full
// interactive viewer itself is out of scope (spec §1).
const viewerScript = `
function mapclick(evt, index) {}
function legendclick(evt, state) {}
function panclick(dx, dy) {}
function zoomclick(factor) {}
`
