// Package session composes the dataset, filter, sort, selection, axis and
// color engines into one immutable exploration state driven by a pure
// reducer.
//
// Every user event is an Action. Reduce applies it and, when the action can
// change the visible records, re-derives the filtered and sorted view and
// reconciles the active record against it exactly once. The caller never
// observes a state whose active record is missing from a non-empty view.
package session

import (
	"github.com/JonMunkholm/explorer/internal/axis"
	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/filter"
	"github.com/JonMunkholm/explorer/internal/palette"
	"github.com/JonMunkholm/explorer/internal/selection"
	"github.com/JonMunkholm/explorer/internal/sorting"
)

// State is one immutable snapshot of an exploration session.
type State struct {
	Dataset   *dataset.Dataset
	Filters   filter.State
	Sorts     sorting.Keys
	Selection selection.State

	// Axes is the chart column order.
	Axes    []string
	Layout  axis.Layout
	Brush   *axis.Brush
	ColorBy string
	Palette string

	// ImgCol is the image column captioning the gallery.
	ImgCol string

	// Filtered holds the records passing Filters in dataset order; View
	// is Filtered after sorting.
	Filtered []dataset.Record
	View     []dataset.Record
}

// New returns a session over ds. A nil dataset yields an empty session
// that still carries layout and palette.
func New(ds *dataset.Dataset, layout axis.Layout, paletteName string) State {
	s := State{Layout: layout, Palette: paletteName}
	if s.Palette == "" {
		s.Palette = palette.DefaultName
	}
	return Reduce(s, SwitchDataset{Dataset: ds})
}

// Reduce applies a to s and returns the next state. s is not modified.
func Reduce(s State, a Action) State {
	next, viewChanged := a.reduce(s)
	if viewChanged {
		next = next.derive()
	}
	return next
}

// derive recomputes the view and restores the active-record invariant.
func (s State) derive() State {
	s.Filtered = s.Filters.Apply(s.Dataset)
	s.View = s.Sorts.Apply(s.Filtered)
	s.Selection, _ = s.Selection.Reconcile(s.View)
	return s
}

// Chart lays out the current axes.
func (s State) Chart() axis.Chart {
	return axis.NewChart(s.Dataset, s.Axes, s.Layout)
}

// HasFilters reports whether any filter is active.
func (s State) HasFilters() bool {
	return s.Filters.Active()
}

// SelectedRecords returns the selected records, looked up in the
// unfiltered dataset so a filtered-out selection is still reported.
func (s State) SelectedRecords() []dataset.Record {
	id, ok := s.Selection.Selected.ID()
	if !ok {
		return nil
	}
	rec, ok := s.Dataset.Record(id)
	if !ok {
		return nil
	}
	return []dataset.Record{rec}
}

// ActiveRecord returns the focused record.
func (s State) ActiveRecord() (dataset.Record, bool) {
	id, ok := s.Selection.Active.ID()
	if !ok {
		return dataset.Record{}, false
	}
	return s.Dataset.Record(id)
}

// ImageName returns the file name rec shows in the gallery, or "" when the
// dataset has no image column.
func (s State) ImageName(rec dataset.Record) string {
	if s.ImgCol == "" {
		return ""
	}
	return rec.ImageName(s.ImgCol)
}

// Colors returns one color per view record for the current color column.
func (s State) Colors(p palette.Palette) []palette.RGB {
	rng, ok := s.Dataset.Range(s.ColorBy)
	out := make([]palette.RGB, len(s.View))
	for i, rec := range s.View {
		out[i] = p.MapValue(rec.Get(s.ColorBy), rng, ok)
	}
	return out
}

func (s State) inView(id int) bool {
	for _, rec := range s.View {
		if rec.ID == id {
			return true
		}
	}
	return false
}
