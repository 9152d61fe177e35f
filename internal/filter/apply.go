package filter

import "github.com/JonMunkholm/explorer/internal/dataset"

// Apply returns the records of ds that pass every filtered column, in
// dataset order. Columns the dataset does not know are ignored.
func (s State) Apply(ds *dataset.Dataset) []dataset.Record {
	if ds == nil {
		return nil
	}
	if !s.Active() {
		return ds.Records
	}

	out := make([]dataset.Record, 0, len(ds.Records))
	for _, rec := range ds.Records {
		if s.Matches(ds, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether rec passes every filtered column of ds.
func (s State) Matches(ds *dataset.Dataset, rec dataset.Record) bool {
	for _, col := range s.order {
		if !ds.HasColumn(col) {
			continue
		}
		if !s.matchesColumn(ds, rec, col) {
			return false
		}
	}
	return true
}

// matchesColumn is true when any range of col accepts the record's value.
// Values that are neither a number nor a known category never match.
func (s State) matchesColumn(ds *dataset.Dataset, rec dataset.Record, col string) bool {
	v := rec.Get(col)
	num, isNum := v.Float()
	idx := -1
	if str, ok := v.Text(); ok {
		idx = ds.CategoryIndex(col, str)
	}

	for _, r := range s.ranges[col] {
		switch r.Kind {
		case Numeric:
			if isNum && r.Contains(num) {
				return true
			}
		case Categorical:
			if idx >= 0 && r.Contains(float64(idx)) {
				return true
			}
		}
	}
	return false
}
