// Package sorting implements the multi-key table sort.
//
// Keys is an ordered list of distinct (column, direction) pairs; the first
// entry is the primary key. Toggling a column cycles it through
// ascending, descending and removed without moving it in the priority list.
package sorting

import (
	"encoding/json"
	"slices"

	"github.com/JonMunkholm/explorer/internal/dataset"
)

// Direction is the sort order of a single key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Key is one sort column.
type Key struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Keys is an immutable ordered key list. The zero value means unsorted.
type Keys struct {
	list []Key
}

// Toggle advances col through unsorted -> asc -> desc -> unsorted.
// A new column is appended as the lowest-priority key.
func (k Keys) Toggle(col string) Keys {
	i := k.Index(col)
	if i < 0 {
		return Keys{list: append(slices.Clone(k.list), Key{Column: col, Direction: Asc})}
	}
	if k.list[i].Direction == Asc {
		next := slices.Clone(k.list)
		next[i].Direction = Desc
		return Keys{list: next}
	}
	return Keys{list: slices.Delete(slices.Clone(k.list), i, i+1)}
}

// Clear returns the empty key list.
func (k Keys) Clear() Keys {
	return Keys{}
}

// Index returns the priority position of col, or -1.
func (k Keys) Index(col string) int {
	return slices.IndexFunc(k.list, func(key Key) bool { return key.Column == col })
}

// Direction returns col's direction and whether col is sorted.
func (k Keys) Direction(col string) (Direction, bool) {
	if i := k.Index(col); i >= 0 {
		return k.list[i].Direction, true
	}
	return "", false
}

// List returns a copy of the keys in priority order.
func (k Keys) List() []Key {
	return slices.Clone(k.list)
}

// Len returns the number of keys.
func (k Keys) Len() int {
	return len(k.list)
}

// MarshalJSON encodes the keys as an array in priority order.
func (k Keys) MarshalJSON() ([]byte, error) {
	if k.list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(k.list)
}

// Compare applies the keys in priority order; the first key whose values
// differ decides. Records equal on every key compare as 0.
func (k Keys) Compare(a, b dataset.Record) int {
	for _, key := range k.list {
		c := dataset.Compare(a.Get(key.Column), b.Get(key.Column))
		if c == 0 {
			continue
		}
		if key.Direction == Desc {
			return -c
		}
		return c
	}
	return 0
}

// Apply returns a sorted copy of records. The sort is stable, so records
// equal on every key keep their input order. With no keys the input is
// returned as is.
func (k Keys) Apply(records []dataset.Record) []dataset.Record {
	if len(k.list) == 0 {
		return records
	}
	out := slices.Clone(records)
	slices.SortStableFunc(out, k.Compare)
	return out
}
