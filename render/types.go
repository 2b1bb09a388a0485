package render

// Default geometry, carried from the original implementation's own
// StatemapSVGConfig defaults (SPEC_FULL.md §5).
const (
	DefaultStripHeight = 10
	DefaultLegendWidth = 138
	DefaultStripWidth  = 862
	DefaultTagWidth    = 250
	DefaultBackground  = "#f0f0f0"
	DefaultEntityKind  = "Entity"
)

// Options holds the rendering knobs exposed by the CLI's geometry flags
// (SPEC_FULL.md §5) plus the sort criterion (spec §4.5).
type Options struct {
	// StripHeight is the pixel height of one entity's strip.
	StripHeight int

	// StripWidth is the pixel width of the timeline area (excluding
	// margins).
	StripWidth int

	// LegendWidth is the pixel width reserved for the state legend.
	LegendWidth int

	// TagWidth is the pixel width reserved for the tag box.
	TagWidth int

	// Background is the CSS color painted behind each strip before its
	// rectangles are drawn, visible wherever no rectangle covers the strip.
	Background string

	// SortBy is "" or "entity" for natural entity-name order, or the name
	// of a declared state for descending total-time-in-state order (spec
	// §4.5).
	SortBy string
}

// Opt mutates an Options under construction, mirroring model.ConfigOption.
type Opt func(*Options)

// WithStripHeight overrides the per-entity strip pixel height.
func WithStripHeight(n int) Opt { return func(o *Options) { o.StripHeight = n } }

// WithStripWidth overrides the timeline pixel width.
func WithStripWidth(n int) Opt { return func(o *Options) { o.StripWidth = n } }

// WithBackground overrides the strip background color.
func WithBackground(css string) Opt { return func(o *Options) { o.Background = css } }

// WithSortBy sets the sort criterion: "", "entity", or a declared state name.
func WithSortBy(name string) Opt { return func(o *Options) { o.SortBy = name } }

// NewOptions returns the original implementation's default geometry, then
// applies opts in order.
func NewOptions(opts ...Opt) Options {
	o := Options{
		StripHeight: DefaultStripHeight,
		StripWidth:  DefaultStripWidth,
		LegendWidth: DefaultLegendWidth,
		TagWidth:    DefaultTagWidth,
		Background:  DefaultBackground,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
