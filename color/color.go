package color

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB is an 8-bit-per-channel sRGB color triple.
type RGB struct {
	R, G, B uint8
}

// String renders the color as the "rgb(r,g,b)" form used in the emitted SVG.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Hex renders the color as a "#rrggbb" literal.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse converts a CSS/SVG color name or a "#rrggbb" hex literal into an RGB.
// Name lookup is case-insensitive; hex parsing requires exactly 6 hex digits
// after the leading '#'.
func Parse(s string) (RGB, error) {
	if s == "" {
		return RGB{}, ErrEmptyColor
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return RGB{}, fmt.Errorf("%w: %q", ErrUnknownName, s)
	}

	return RGB{R: named.R, G: named.G, B: named.B}, nil
}

func parseHex(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrBadHex, s, err)
	}

	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// Random returns a pseudo-random color, used when a state has no declared
// color. rng may be nil, in which case the package-level default source is
// used (not reproducible across runs — callers that need determinism should
// always declare state colors in metadata).
func Random(rng *rand.Rand) RGB {
	if rng == nil {
		return RGB{
			R: uint8(rand.Intn(256)),
			G: uint8(rand.Intn(256)),
			B: uint8(rand.Intn(256)),
		}
	}

	return RGB{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}

// Mix blends other into base by ratio, componentwise, in 8-bit sRGB space:
//
//	result = base*(1-ratio) + other*ratio
//
// ratio is expected in [0,1] but is not clamped; for a ratio outside that
// range each resulting channel is clamped to [0,255].
//
// The per-channel multiply uses floor(linear*256) rather than the more
// conventional floor(linear*255). This intentionally reproduces the
// original implementation's channel scale, including its quirk of
// reaching 256 when a channel blends to exactly 1.0 — which overflows a
// byte. We saturate at 255 in that one case rather than
// wrapping, since wrapping (256 -> 0) would visibly corrupt the output,
// while saturating only clips the already-rare boundary case.
func Mix(base, other RGB, ratio float64) RGB {
	return RGB{
		R: mixChannel(base.R, other.R, ratio),
		G: mixChannel(base.G, other.G, ratio),
		B: mixChannel(base.B, other.B, ratio),
	}
}

func mixChannel(base, other uint8, ratio float64) uint8 {
	baseFrac := float64(base) / 255.0
	otherFrac := float64(other) / 255.0
	blended := baseFrac*(1-ratio) + otherFrac*ratio // normalized to [0,1] for in-range ratios

	v := int(math.Floor(blended * 256.0)) // can reach 256 when blended == 1.0
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}

	return uint8(v)
}
