// Package palette maps numeric values to colors by piecewise-linear
// interpolation across evenly spaced color stops.
package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the palette used when none (or an unknown one) is chosen.
const DefaultName = "originalLadybug"

// ErrTooFewStops is returned when a custom palette has fewer than two stops.
var ErrTooFewStops = errors.New("palette needs at least two color stops")

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// NoData is the neutral color for missing values or an undefined domain.
// It does not appear in any built-in palette.
var NoData = RGB{212, 212, 216}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// CSS returns the color as rgb(r,g,b).
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as a hex string.
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Palette is an ordered list of at least two color stops spread evenly
// over [0, 1].
type Palette []RGB

// Middle returns the stop used for a degenerate domain.
func (p Palette) Middle() RGB {
	return p[len(p)/2]
}

// Map returns the color of value within [min, max]. The value is clamped to
// the domain. When min >= max the middle stop is returned unmodified.
func (p Palette) Map(value, min, max float64) RGB {
	if min >= max {
		return p.Middle()
	}

	t := (value - min) / (max - min)
	t = math.Max(0, math.Min(1, t))

	i := t * float64(len(p)-1)
	lo := int(math.Floor(i))
	hi := int(math.Ceil(i))
	w := i - float64(lo)

	c1, c2 := p[lo], p[hi]
	return RGB{
		R: lerp(c1.R, c2.R, w),
		G: lerp(c1.G, c2.G, w),
		B: lerp(c1.B, c2.B, w),
	}
}

func lerp(a, b uint8, w float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*w))
}

// MapValue colors a cell against a column range. Anything but a number, or
// a column without a range, yields NoData.
func (p Palette) MapValue(v dataset.Value, rng dataset.Range, ok bool) RGB {
	f, isNum := v.Float()
	if !isNum || !ok {
		return NoData
	}
	return p.Map(f, rng.Min, rng.Max)
}

// Gradient renders the stops as a CSS linear-gradient.
func (p Palette) Gradient(direction string) string {
	if direction == "" {
		direction = "to right"
	}
	stops := make([]string, len(p))
	for i, c := range p {
		stops[i] = c.CSS()
	}
	return fmt.Sprintf("linear-gradient(%s, %s)", direction, strings.Join(stops, ", "))
}

// Parse builds a palette from hex colors such as "#000000".
func Parse(hexes []string) (Palette, error) {
	if len(hexes) < 2 {
		return nil, ErrTooFewStops
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		r, g, b := c.RGB255()
		p[i] = RGB{r, g, b}
	}
	return p, nil
}
