package model

// DefaultMaxRect is the default rectangle budget (spec §3).
const DefaultMaxRect = 25000

// Config holds the immutable parameters that govern one ingest run.
type Config struct {
	// MaxRect bounds |WeightIndex|: trim runs whenever it would reach this
	// many entries.
	MaxRect int

	// Begin clips the rendered/ingested timeline on the left, inclusive.
	// Zero means "no left clip".
	Begin NanoTime

	// End clips the timeline on the right, exclusive. Zero means open
	// (close at the maximum observed open start time).
	End NanoTime

	// NoTags makes the ingester drop all tag information.
	NoTags bool
}

// ConfigOption mutates a Config under construction. Mirrors the teacher
// library's GraphOption/BuilderOption pattern: defaults first, then
// options applied in order, later options winning.
type ConfigOption func(*Config)

// WithMaxRect overrides the default rectangle budget. A non-positive value
// is ignored (the default is kept).
func WithMaxRect(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.MaxRect = n
		}
	}
}

// WithBegin sets the inclusive left clip.
func WithBegin(t NanoTime) ConfigOption {
	return func(c *Config) { c.Begin = t }
}

// WithEnd sets the exclusive right clip. Zero (the default) means open.
func WithEnd(t NanoTime) ConfigOption {
	return func(c *Config) { c.End = t }
}

// WithNoTags makes the ingester drop all tag information.
func WithNoTags() ConfigOption {
	return func(c *Config) { c.NoTags = true }
}

// NewConfig returns a Config with sensible defaults (MaxRect =
// DefaultMaxRect, no clips, tags enabled), then applies each option in
// order.
func NewConfig(opts ...ConfigOption) Config {
	cfg := Config{MaxRect: DefaultMaxRect}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// ValidateStates checks that the keys of byValue are a permutation of
// 0..len(byValue)-1, i.e. that no value falls outside that range (spec
// §4.3), and returns the states as a slice indexed by StateID, so that
// table[i] is the state declared with value i. ValidateStates exists to
// check a table built from unordered metadata input before it is accepted
// as canonical.
func ValidateStates(byValue map[StateID]State) ([]State, error) {
	n := len(byValue)
	if n == 0 {
		return nil, ErrNoStates
	}

	table := make([]State, n)
	seen := make([]bool, n)
	for value, st := range byValue {
		if value < 0 || int(value) >= n {
			return nil, ErrValueOutOfRange
		}
		if seen[value] {
			return nil, ErrDuplicateValue
		}
		seen[value] = true
		table[value] = st
	}

	return table, nil
}
