package filter

import (
	"encoding/json"
	"testing"

	"github.com/JonMunkholm/explorer/internal/dataset"
)

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Build("t", "t", dataset.SourceUploaded,
		[]string{"in:A", "in:B", "in:color", "note"},
		[][]string{
			{"7", "50", "red", "x"},
			{"3", "50", "blue", "y"},
			{"12", "200", "red", "z"},
			{"", "10", "green", "w"},
			{"14", "99", "", "v"},
		},
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ds
}

func ids(records []dataset.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply_UnionWithinIntersectionAcross(t *testing.T) {
	ds := testDataset(t)
	s := State{}.
		Add("in:A", NumericRange(0, 5)).
		Add("in:A", NumericRange(10, 15)).
		Add("in:B", NumericRange(0, 100))

	// id0 (A=7) matches neither A range, id2 fails B, id3 has no A value.
	got := ids(s.Apply(ds))
	want := []int{1, 4}
	if !equalInts(got, want) {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestApply_OrderIndependent(t *testing.T) {
	ds := testDataset(t)
	a := State{}.Add("in:A", NumericRange(0, 13)).Add("in:B", NumericRange(40, 60))
	b := State{}.Add("in:B", NumericRange(40, 60)).Add("in:A", NumericRange(0, 13))

	if !equalInts(ids(a.Apply(ds)), ids(b.Apply(ds))) {
		t.Errorf("column order changed the result: %v vs %v", ids(a.Apply(ds)), ids(b.Apply(ds)))
	}
	if !equalInts(ids(a.Apply(ds)), ids(a.Apply(ds))) {
		t.Error("Apply() is not idempotent")
	}
}

func TestApply_Categorical(t *testing.T) {
	ds := testDataset(t)
	// Enumeration is [red blue green]; index range [0.5, 2] covers blue and green.
	s := State{}.Add("in:color", CategoricalRange(0.5, 2))

	got := ids(s.Apply(ds))
	want := []int{1, 3}
	if !equalInts(got, want) {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
}

func TestApply_FailClosed(t *testing.T) {
	ds := testDataset(t)

	// A numeric range never matches a string value, and a missing value
	// never matches anything.
	s := State{}.Add("in:color", NumericRange(-1e9, 1e9))
	if got := ids(s.Apply(ds)); len(got) != 0 {
		t.Errorf("numeric range on string column = %v, want none", got)
	}

	s = State{}.Add("in:A", NumericRange(-1e9, 1e9))
	for _, id := range ids(s.Apply(ds)) {
		if id == 3 {
			t.Error("record with missing value passed the filter")
		}
	}
}

func TestApply_UnknownColumnIgnored(t *testing.T) {
	ds := testDataset(t)
	s := State{}.Add("out:gone", NumericRange(0, 1))

	if got := len(s.Apply(ds)); got != ds.Len() {
		t.Errorf("Apply() kept %d records, want all %d", got, ds.Len())
	}
	// Non-prefixed columns are not filterable axes either.
	s = State{}.Add("note", NumericRange(0, 1))
	if got := len(s.Apply(ds)); got != ds.Len() {
		t.Errorf("Apply() kept %d records, want all %d", got, ds.Len())
	}
}

func TestApply_NilDataset(t *testing.T) {
	if got := (State{}).Apply(nil); got != nil {
		t.Errorf("Apply(nil) = %v, want nil", got)
	}
}

func TestMatches(t *testing.T) {
	ds := testDataset(t)
	s := State{}.Add("in:A", NumericRange(0, 5))
	if !s.Matches(ds, ds.Records[1]) {
		t.Error("A=3 should match [0,5]")
	}
	if s.Matches(ds, ds.Records[0]) {
		t.Error("A=7 should not match [0,5]")
	}
}

func TestRemove_CollapsesEmptyColumn(t *testing.T) {
	s := State{}.Add("in:A", NumericRange(1, 2))
	s = s.Remove("in:A", 0)

	if s.Has("in:A") {
		t.Error("column should be absent after removing its last range")
	}
	if s.Active() {
		t.Error("state should have no active filters")
	}
	if len(s.Columns()) != 0 {
		t.Errorf("Columns() = %v, want empty", s.Columns())
	}
}

func TestRemove_ByIndex(t *testing.T) {
	s := State{}.
		Add("in:A", NumericRange(0, 1)).
		Add("in:A", NumericRange(2, 3)).
		Add("in:A", NumericRange(4, 5))

	s = s.Remove("in:A", 1)
	got := s.Ranges("in:A")
	if len(got) != 2 || got[0].Min != 0 || got[1].Min != 4 {
		t.Errorf("Ranges() = %+v, want [0,1] and [4,5]", got)
	}

	// Out of range and unknown column are no-ops.
	if len(s.Remove("in:A", 9).Ranges("in:A")) != 2 {
		t.Error("out-of-range Remove changed the state")
	}
	if s.Remove("in:Z", 0).Has("in:Z") {
		t.Error("Remove on unknown column created an entry")
	}
}

func TestState_Immutable(t *testing.T) {
	base := State{}.Add("in:A", NumericRange(0, 1))
	_ = base.Add("in:A", NumericRange(5, 6))
	_ = base.ClearColumn("in:A")
	_ = base.Reset()

	if got := len(base.Ranges("in:A")); got != 1 {
		t.Errorf("base state mutated: %d ranges, want 1", got)
	}
}

func TestClearColumnAndReset(t *testing.T) {
	s := State{}.
		Add("in:A", NumericRange(0, 1)).
		Add("in:A", NumericRange(2, 3)).
		Add("in:B", NumericRange(0, 1))

	s = s.ClearColumn("in:A")
	if s.Has("in:A") || !s.Has("in:B") {
		t.Errorf("ClearColumn(in:A) left columns %v", s.Columns())
	}

	s = s.Reset()
	if s.Active() {
		t.Error("Reset() left filters")
	}
}

func TestRange_Normalized(t *testing.T) {
	r := NumericRange(5, 1).Normalized()
	if r.Min != 1 || r.Max != 5 {
		t.Errorf("Normalized() = %+v", r)
	}
}

func TestRange_JSON(t *testing.T) {
	var r Range
	if err := json.Unmarshal([]byte(`{"kind":"categorical","min":1,"max":2}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Kind != Categorical || r.Min != 1 || r.Max != 2 {
		t.Errorf("Unmarshal() = %+v", r)
	}

	if err := json.Unmarshal([]byte(`{"min":3,"max":4}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.Kind != Numeric {
		t.Errorf("default kind = %v, want numeric", r.Kind)
	}

	out, err := json.Marshal(State{}.Add("in:A", NumericRange(0, 1)))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"in:A":[{"kind":"numeric","min":0,"max":1}]}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}
