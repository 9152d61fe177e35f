// Package axis maps data values to pixel positions on the vertical axes of
// a parallel-coordinates chart, and turns pointer gestures on those axes
// into filter commands.
package axis

import "math"

// Padding is the space reserved around the plot area.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout is the pixel geometry of the chart.
type Layout struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Padding   Padding `json:"padding"`
	Tolerance float64 `json:"tolerance"`
}

const (
	// DefaultWidth is used until the client reports its size.
	DefaultWidth = 1200
	// HitTolerance is how far from an axis a press still hits it.
	HitTolerance = 20
	// MinBrushPixels is the smallest drag that counts as a brush.
	MinBrushPixels = 3
)

// DefaultLayout derives the chart geometry from its width.
func DefaultLayout(width float64) Layout {
	if width <= 0 {
		width = DefaultWidth
	}
	return Layout{
		Width:     width,
		Height:    math.Min(320, math.Max(200, width*0.25)),
		Padding:   Padding{Top: 40, Right: 40, Bottom: 30, Left: 40},
		Tolerance: HitTolerance,
	}
}

// Bottom is the pixel y of an axis' minimum.
func (l Layout) Bottom() float64 { return l.Height - l.Padding.Bottom }

// Top is the pixel y of an axis' maximum.
func (l Layout) Top() float64 { return l.Padding.Top }

// X returns the horizontal position of column i of n. A lone column sits
// at the centre of the plot area.
func (l Layout) X(i, n int) float64 {
	left := l.Padding.Left
	span := l.Width - l.Padding.Left - l.Padding.Right
	if n <= 1 {
		return left + span/2
	}
	return left + float64(i)/float64(n-1)*span
}

// HitColumn returns the index of the column nearest x, provided it lies
// within the tolerance. It returns -1 otherwise.
func (l Layout) HitColumn(x float64, n int) int {
	best, bestDist := -1, math.Inf(1)
	for i := range n {
		d := math.Abs(x - l.X(i, n))
		if d < l.Tolerance && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
