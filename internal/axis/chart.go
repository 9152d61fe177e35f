package axis

import (
	"math"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/filter"
)

// Chart is the laid-out set of axes for an ordered column list.
type Chart struct {
	Layout  Layout    `json:"layout"`
	Columns []string  `json:"columns"`
	Scales  []Scale   `json:"scales"`
	X       []float64 `json:"x"`
}

// NewChart lays out columns left to right.
func NewChart(ds *dataset.Dataset, columns []string, l Layout) Chart {
	c := Chart{
		Layout:  l,
		Columns: columns,
		Scales:  make([]Scale, len(columns)),
		X:       make([]float64, len(columns)),
	}
	for i, col := range columns {
		c.Scales[i] = NewScale(ds, col, l)
		c.X[i] = l.X(i, len(columns))
	}
	return c
}

// Scale returns the scale of col.
func (c Chart) Scale(col string) (Scale, bool) {
	for _, s := range c.Scales {
		if s.Column == col {
			return s, true
		}
	}
	return Scale{}, false
}

// Point is a pixel coordinate. Valid is false where the record has no
// placeable value on that axis.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Valid bool    `json:"valid"`
}

// Line returns the polyline of rec across every axis.
func (c Chart) Line(rec dataset.Record) []Point {
	pts := make([]Point, len(c.Scales))
	for i, s := range c.Scales {
		y, ok := s.PositionOf(rec.Get(s.Column))
		pts[i] = Point{X: c.X[i], Y: y, Valid: ok}
	}
	return pts
}

// Brush is an in-progress drag on one axis.
type Brush struct {
	Column   string  `json:"column"`
	StartY   float64 `json:"startY"`
	CurrentY float64 `json:"currentY"`
}

// Move updates the current end of the brush.
func (b Brush) Move(y float64) Brush {
	b.CurrentY = y
	return b
}

// Op is the kind of filter change a gesture produces.
type Op int

const (
	OpNone Op = iota
	OpAddRange
	OpRemoveRange
	OpClearColumn
)

func (o Op) String() string {
	switch o {
	case OpAddRange:
		return "add"
	case OpRemoveRange:
		return "remove"
	case OpClearColumn:
		return "clear"
	default:
		return "none"
	}
}

// Command is a filter change requested by a gesture.
type Command struct {
	Op     Op
	Column string
	Index  int
	Range  filter.Range
}

// Apply performs the command on filters.
func (cmd Command) Apply(filters filter.State) filter.State {
	switch cmd.Op {
	case OpAddRange:
		return filters.Add(cmd.Column, cmd.Range)
	case OpRemoveRange:
		return filters.Remove(cmd.Column, cmd.Index)
	case OpClearColumn:
		return filters.ClearColumn(cmd.Column)
	default:
		return filters
	}
}

// Press handles a pointer press. A press on an existing range of the hit
// axis removes that range; any other press on an axis starts a brush. A
// press away from every axis does nothing.
func (c Chart) Press(x, y float64, filters filter.State) (Command, *Brush) {
	i := c.Layout.HitColumn(x, len(c.Columns))
	if i < 0 {
		return Command{}, nil
	}
	s := c.Scales[i]

	for idx, r := range filters.Ranges(s.Column) {
		lo, hi := s.Span(r)
		if y >= lo && y <= hi {
			return Command{Op: OpRemoveRange, Column: s.Column, Index: idx}, nil
		}
	}
	return Command{}, &Brush{Column: s.Column, StartY: y, CurrentY: y}
}

// Release ends a brush. A drag shorter than MinBrushPixels clears the
// column; anything longer adds the brushed range.
func (c Chart) Release(b Brush) Command {
	if math.Abs(b.StartY-b.CurrentY) < MinBrushPixels {
		return Command{Op: OpClearColumn, Column: b.Column}
	}
	s, ok := c.Scale(b.Column)
	if !ok {
		return Command{}
	}
	return Command{Op: OpAddRange, Column: b.Column, Range: s.RangeBetween(b.StartY, b.CurrentY)}
}
