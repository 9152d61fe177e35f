package session

import (
	"slices"

	"github.com/JonMunkholm/explorer/internal/axis"
	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/filter"
)

// Action is a user event. reduce returns the next state and whether the
// visible records may have changed.
type Action interface {
	reduce(s State) (State, bool)
}

// SwitchDataset replaces the whole session with a fresh one for Dataset.
// Layout and palette carry over.
type SwitchDataset struct {
	Dataset *dataset.Dataset
}

func (a SwitchDataset) reduce(s State) (State, bool) {
	next := State{
		Dataset: a.Dataset,
		Layout:  s.Layout,
		Palette: s.Palette,
	}
	if a.Dataset != nil {
		next.Axes = a.Dataset.Columns.Axes()
		next.ColorBy = a.Dataset.DefaultColorBy
		next.ImgCol = a.Dataset.DefaultImgCol
	}
	return next, true
}

// AddFilter appends a range to a column.
type AddFilter struct {
	Column string
	Range  filter.Range
}

func (a AddFilter) reduce(s State) (State, bool) {
	s.Filters = s.Filters.Add(a.Column, a.Range.Normalized())
	return s, true
}

// RemoveFilter drops one range of a column.
type RemoveFilter struct {
	Column string
	Index  int
}

func (a RemoveFilter) reduce(s State) (State, bool) {
	s.Filters = s.Filters.Remove(a.Column, a.Index)
	return s, true
}

// ClearColumnFilter drops every range of a column.
type ClearColumnFilter struct {
	Column string
}

func (a ClearColumnFilter) reduce(s State) (State, bool) {
	s.Filters = s.Filters.ClearColumn(a.Column)
	return s, true
}

// ResetFilters drops every filter.
type ResetFilters struct{}

func (ResetFilters) reduce(s State) (State, bool) {
	s.Filters = s.Filters.Reset()
	return s, true
}

// ToggleSort cycles a column through ascending, descending and unsorted.
type ToggleSort struct {
	Column string
}

func (a ToggleSort) reduce(s State) (State, bool) {
	s.Sorts = s.Sorts.Toggle(a.Column)
	return s, true
}

// ClearSorts drops every sort key.
type ClearSorts struct{}

func (ClearSorts) reduce(s State) (State, bool) {
	s.Sorts = s.Sorts.Clear()
	return s, true
}

// ToggleRow selects or deselects a record of the dataset. Selecting a
// filtered-out record leaves the active record where it is.
type ToggleRow struct {
	ID int
}

func (a ToggleRow) reduce(s State) (State, bool) {
	if _, ok := s.Dataset.Record(a.ID); !ok {
		return s, false
	}
	prev := s.Selection.Active
	s.Selection = s.Selection.Toggle(a.ID)
	if !s.inView(a.ID) {
		s.Selection.Active = prev
	}
	return s, false
}

// ClearSelection drops the selection.
type ClearSelection struct{}

func (ClearSelection) reduce(s State) (State, bool) {
	s.Selection = s.Selection.Clear()
	return s, false
}

// FocusRecord makes a visible record active.
type FocusRecord struct {
	ID int
}

func (a FocusRecord) reduce(s State) (State, bool) {
	if !s.inView(a.ID) {
		return s, false
	}
	s.Selection = s.Selection.Focus(a.ID)
	return s, false
}

// BrushPress is a pointer press on the chart.
type BrushPress struct {
	X, Y float64
}

func (a BrushPress) reduce(s State) (State, bool) {
	cmd, b := s.Chart().Press(a.X, a.Y, s.Filters)
	s.Brush = b
	if cmd.Op == axis.OpNone {
		return s, false
	}
	s.Filters = cmd.Apply(s.Filters)
	return s, true
}

// BrushMove drags the active brush.
type BrushMove struct {
	Y float64
}

func (a BrushMove) reduce(s State) (State, bool) {
	if s.Brush == nil {
		return s, false
	}
	b := s.Brush.Move(a.Y)
	s.Brush = &b
	return s, false
}

// BrushRelease ends the active brush at its current position.
type BrushRelease struct{}

func (BrushRelease) reduce(s State) (State, bool) {
	if s.Brush == nil {
		return s, false
	}
	cmd := s.Chart().Release(*s.Brush)
	s.Brush = nil
	s.Filters = cmd.Apply(s.Filters)
	return s, cmd.Op != axis.OpNone
}

// ReorderAxes moves the Dragged column to the position held by Target.
type ReorderAxes struct {
	Dragged string
	Target  string
}

func (a ReorderAxes) reduce(s State) (State, bool) {
	from := slices.Index(s.Axes, a.Dragged)
	to := slices.Index(s.Axes, a.Target)
	if from < 0 || to < 0 || from == to {
		return s, false
	}
	axes := slices.Delete(slices.Clone(s.Axes), from, from+1)
	s.Axes = slices.Insert(axes, to, a.Dragged)
	return s, false
}

// Resize recomputes the chart layout for a new width.
type Resize struct {
	Width float64
}

func (a Resize) reduce(s State) (State, bool) {
	s.Layout = axis.DefaultLayout(a.Width)
	return s, false
}

// SetColorBy changes the column driving record colors. Unknown columns are
// ignored.
type SetColorBy struct {
	Column string
}

func (a SetColorBy) reduce(s State) (State, bool) {
	if !s.Dataset.HasColumn(a.Column) {
		return s, false
	}
	s.ColorBy = a.Column
	return s, false
}

// SetPalette changes the palette name.
type SetPalette struct {
	Name string
}

func (a SetPalette) reduce(s State) (State, bool) {
	if a.Name != "" {
		s.Palette = a.Name
	}
	return s, false
}

// SetImageColumn picks the image column shown in the gallery. Columns
// without the img: role are ignored.
type SetImageColumn struct {
	Column string
}

func (a SetImageColumn) reduce(s State) (State, bool) {
	if s.Dataset == nil || !slices.Contains(s.Dataset.Columns.Img, a.Column) {
		return s, false
	}
	s.ImgCol = a.Column
	return s, false
}
