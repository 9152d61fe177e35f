// Package selection tracks the selected record and the active (focused)
// record shared by the table, chart and gallery views.
//
// Selection is single-valued: selecting a record replaces any previous
// selection. The active record is separate from the selection so a record
// can stay focused in the gallery after it has been deselected.
package selection

import (
	"encoding/json"

	"github.com/JonMunkholm/explorer/internal/dataset"
)

// Selection is either None or One(id).
type Selection struct {
	id  int
	set bool
}

// None returns the empty selection.
func None() Selection { return Selection{} }

// One returns a selection holding id.
func One(id int) Selection { return Selection{id: id, set: true} }

// ID returns the held id and whether one is held.
func (s Selection) ID() (int, bool) { return s.id, s.set }

// IsNone reports whether nothing is held.
func (s Selection) IsNone() bool { return !s.set }

// Contains reports whether s holds id.
func (s Selection) Contains(id int) bool { return s.set && s.id == id }

// MarshalJSON encodes One(id) as id and None as null.
func (s Selection) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.id)
}

// State is the (active, selected) pair. The zero value is Empty.
type State struct {
	Active   Selection `json:"activeId"`
	Selected Selection `json:"selectedId"`
}

// Toggle selects id, or deselects it when it is already the selection.
// Deselecting leaves id active; selecting also makes it active.
func (s State) Toggle(id int) State {
	if s.Selected.Contains(id) {
		s.Selected = None()
		return s
	}
	s.Selected = One(id)
	s.Active = One(id)
	return s
}

// Clear drops the selection and keeps the active record.
func (s State) Clear() State {
	s.Selected = None()
	return s
}

// Focus makes id active without touching the selection.
func (s State) Focus(id int) State {
	s.Active = One(id)
	return s
}

// Reset returns the Empty state.
func (s State) Reset() State {
	return State{}
}

// Reconcile keeps the active record inside view. An empty view clears it;
// an active record missing from view (or no active record at all) moves to
// the first record of view. It reports whether anything changed, and a
// second call with the same view never changes anything.
func (s State) Reconcile(view []dataset.Record) (State, bool) {
	if len(view) == 0 {
		if s.Active.IsNone() {
			return s, false
		}
		s.Active = None()
		return s, true
	}

	if id, ok := s.Active.ID(); ok {
		for _, rec := range view {
			if rec.ID == id {
				return s, false
			}
		}
	}
	s.Active = One(view[0].ID)
	return s, true
}
