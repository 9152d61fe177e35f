package axis

import (
	"math"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/filter"
)

// Scale maps one column's domain onto the vertical pixel span of its axis.
// For categorical scales the domain is the category index
// [0, len(Categories)-1] in first-occurrence order.
type Scale struct {
	Column     string      `json:"column"`
	Kind       filter.Kind `json:"-"`
	KindName   string      `json:"kind"`
	Min        float64     `json:"min"`
	Max        float64     `json:"max"`
	Bottom     float64     `json:"bottom"`
	Top        float64     `json:"top"`
	Categories []string    `json:"categories,omitempty"`
}

// NewScale builds the scale for col. Columns holding any number use their
// numeric range; pure string columns are categorical; columns with neither
// get a degenerate numeric scale.
func NewScale(ds *dataset.Dataset, col string, l Layout) Scale {
	s := Scale{Column: col, Kind: filter.Numeric, Bottom: l.Bottom(), Top: l.Top()}

	if r, ok := ds.Range(col); ok {
		s.Min, s.Max = r.Min, r.Max
	} else if ds != nil && len(ds.Categories[col]) > 0 {
		s.Kind = filter.Categorical
		s.Categories = ds.Categories[col]
		s.Max = float64(len(s.Categories) - 1)
	}
	s.KindName = s.Kind.String()
	return s
}

// Mid is the pixel midpoint of the axis.
func (s Scale) Mid() float64 { return (s.Bottom + s.Top) / 2 }

// Position maps a domain value to a pixel y. A degenerate domain places
// every value at the axis midpoint.
func (s Scale) Position(v float64) float64 {
	if s.Min == s.Max {
		return s.Mid()
	}
	t := (v - s.Min) / (s.Max - s.Min)
	return s.Bottom + t*(s.Top-s.Bottom)
}

// PositionOf maps a cell to a pixel y. It reports false for cells the scale
// cannot place: missing values, strings on a numeric axis and unknown
// categories.
func (s Scale) PositionOf(v dataset.Value) (float64, bool) {
	switch s.Kind {
	case filter.Categorical:
		str, ok := v.Text()
		if !ok {
			return 0, false
		}
		for i, c := range s.Categories {
			if c == str {
				return s.Position(float64(i)), true
			}
		}
		return 0, false
	default:
		f, ok := v.Float()
		if !ok {
			return 0, false
		}
		return s.Position(f), true
	}
}

// Value maps a pixel y back into the domain. Positions outside the axis
// clamp to its ends.
func (s Scale) Value(p float64) float64 {
	if s.Top == s.Bottom {
		return s.Min
	}
	t := (p - s.Bottom) / (s.Top - s.Bottom)
	t = math.Max(0, math.Min(1, t))
	return s.Min + t*(s.Max-s.Min)
}

// RangeBetween converts two pixel positions into a normalized range tagged
// with the scale's kind.
func (s Scale) RangeBetween(p1, p2 float64) filter.Range {
	return filter.Range{Kind: s.Kind, Min: s.Value(p1), Max: s.Value(p2)}.Normalized()
}

// Span returns the pixel extent of r on this axis, lowest y first.
func (s Scale) Span(r filter.Range) (float64, float64) {
	a, b := s.Position(r.Min), s.Position(r.Max)
	return math.Min(a, b), math.Max(a, b)
}
