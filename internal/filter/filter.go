// Package filter implements the brush-driven range filter.
//
// A State maps column names to an ordered list of ranges. A record passes a
// column when it matches any of that column's ranges, and passes the filter
// when it passes every filtered column. State is an immutable value: every
// operation returns a new State and leaves the receiver untouched.
package filter

import (
	"encoding/json"
	"slices"
)

// Kind tags which domain a Range is expressed in.
type Kind int

const (
	// Numeric ranges are in the column's value domain.
	Numeric Kind = iota
	// Categorical ranges are in the index domain of the column's
	// first-occurrence category enumeration.
	Categorical
)

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// Range is a closed interval tagged with its domain.
type Range struct {
	Kind Kind
	Min  float64
	Max  float64
}

// NumericRange returns a value-domain range.
func NumericRange(min, max float64) Range {
	return Range{Kind: Numeric, Min: min, Max: max}
}

// CategoricalRange returns an index-domain range.
func CategoricalRange(min, max float64) Range {
	return Range{Kind: Categorical, Min: min, Max: max}
}

// Normalized returns r with Min <= Max.
func (r Range) Normalized() Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// Contains reports whether x lies in the closed interval.
func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

type rangeJSON struct {
	Kind string  `json:"kind"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// MarshalJSON encodes the range with its kind name.
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(rangeJSON{Kind: r.Kind.String(), Min: r.Min, Max: r.Max})
}

// UnmarshalJSON accepts {"kind": "numeric"|"categorical", "min": x, "max": y}.
// A missing kind means numeric.
func (r *Range) UnmarshalJSON(data []byte) error {
	var raw rangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Kind = Numeric
	if raw.Kind == "categorical" {
		r.Kind = Categorical
	}
	r.Min, r.Max = raw.Min, raw.Max
	return nil
}

// State is the immutable filter map. The zero value has no filters.
type State struct {
	order  []string
	ranges map[string][]Range
}

// Add appends r to col's range list.
func (s State) Add(col string, r Range) State {
	next := s.clone()
	if _, ok := next.ranges[col]; !ok {
		next.order = append(next.order, col)
	}
	next.ranges[col] = append(next.ranges[col], r)
	return next
}

// Remove drops the range at index i of col. When the list becomes empty the
// column is removed entirely. An unknown column or index leaves s unchanged.
func (s State) Remove(col string, i int) State {
	list, ok := s.ranges[col]
	if !ok || i < 0 || i >= len(list) {
		return s
	}
	if len(list) == 1 {
		return s.ClearColumn(col)
	}
	next := s.clone()
	next.ranges[col] = slices.Delete(slices.Clone(list), i, i+1)
	return next
}

// ClearColumn drops col regardless of its contents.
func (s State) ClearColumn(col string) State {
	if _, ok := s.ranges[col]; !ok {
		return s
	}
	next := s.clone()
	delete(next.ranges, col)
	next.order = slices.DeleteFunc(next.order, func(c string) bool { return c == col })
	return next
}

// Reset returns an empty State.
func (s State) Reset() State {
	return State{}
}

// Has reports whether col has an entry.
func (s State) Has(col string) bool {
	_, ok := s.ranges[col]
	return ok
}

// Ranges returns a copy of col's ranges.
func (s State) Ranges(col string) []Range {
	return slices.Clone(s.ranges[col])
}

// Columns returns the filtered columns in the order they were first filtered.
func (s State) Columns() []string {
	return slices.Clone(s.order)
}

// Active reports whether any column is filtered.
func (s State) Active() bool {
	return len(s.ranges) > 0
}

// MarshalJSON encodes the filter map as {"col": [ranges...]}.
func (s State) MarshalJSON() ([]byte, error) {
	m := make(map[string][]Range, len(s.ranges))
	for col, list := range s.ranges {
		m[col] = list
	}
	return json.Marshal(m)
}

func (s State) clone() State {
	next := State{
		order:  slices.Clone(s.order),
		ranges: make(map[string][]Range, len(s.ranges)+1),
	}
	for col, list := range s.ranges {
		next.ranges[col] = slices.Clone(list)
	}
	return next
}
