package render

import "errors"

// ErrUnknownSortState is returned when Options.SortBy names a state that
// does not appear in the document's state table (spec §4.5's "An unknown
// state name is a fatal error").
var ErrUnknownSortState = errors.New("render: unknown sort state")
