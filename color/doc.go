// Package color parses the colors used to paint statemap rectangles and
// mixes two colors to render a blended (post-coalescing) rectangle.
//
// Colors are 8-bit sRGB triples. Parse accepts either a CSS/SVG color name
// (looked up via golang.org/x/image/colornames) or a "#rrggbb" hex literal.
// Mix blends componentwise in sRGB space — not in a perceptual space like
// Lab or HSV — because the renderer mixes many times in sequence
// (once per blended-in state) and the visual output must stay bit-for-bit
// reproducible across runs for the same input.
//
// Complexity: Parse and Mix are both O(1).
package color
