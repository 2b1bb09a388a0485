package color

import "errors"

// Sentinel errors for color parsing.
var (
	// ErrEmptyColor indicates an empty color string was given to Parse.
	ErrEmptyColor = errors.New("color: empty color string")

	// ErrUnknownName indicates a color name is not a recognized CSS/SVG name.
	ErrUnknownName = errors.New("color: unrecognized color name")

	// ErrBadHex indicates a "#rrggbb" literal is malformed.
	ErrBadHex = errors.New("color: malformed hex color")
)
