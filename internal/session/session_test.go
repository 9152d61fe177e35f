package session

import (
	"slices"
	"testing"

	"github.com/JonMunkholm/explorer/internal/axis"
	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/filter"
	"github.com/JonMunkholm/explorer/internal/palette"
	"github.com/JonMunkholm/explorer/internal/selection"
)

// testLayout places the first axis at x=40 and spans y=300 (bottom) to
// y=40 (top).
var testLayout = axis.Layout{
	Width:     480,
	Height:    330,
	Padding:   axis.Padding{Top: 40, Right: 40, Bottom: 30, Left: 40},
	Tolerance: axis.HitTolerance,
}

func build(t *testing.T, id string, headers []string, rows [][]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Build(id, id, dataset.SourceBuiltin, headers, rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ds
}

func fourRows(t *testing.T) *dataset.Dataset {
	return build(t, "four",
		[]string{"in:x", "in:z", "out:y", "img:pic"},
		[][]string{
			{"1", "a", "10", "1.png"},
			{"2", "b", "20", "2.png"},
			{"3", "a", "30", "3.png"},
			{"4", "c", "", "4.png"},
		})
}

func ids(recs []dataset.Record) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestNew(t *testing.T) {
	s := New(fourRows(t), testLayout, "")

	if got := ids(s.View); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("View = %v", got)
	}
	if s.Selection.Active != selection.One(0) {
		t.Errorf("Active = %+v, want One(0)", s.Selection.Active)
	}
	if !slices.Equal(s.Axes, []string{"in:x", "in:z", "out:y"}) {
		t.Errorf("Axes = %v", s.Axes)
	}
	// out:y has a Missing cell, which does not count as a distinct value.
	if s.ColorBy != "in:x" {
		t.Errorf("ColorBy = %q, want in:x", s.ColorBy)
	}
	if s.Palette != palette.DefaultName {
		t.Errorf("Palette = %q", s.Palette)
	}
}

func TestNew_NilDataset(t *testing.T) {
	s := New(nil, testLayout, "cividis")
	if len(s.View) != 0 || !s.Selection.Active.IsNone() {
		t.Errorf("empty session = %+v", s)
	}
}

func TestReduce_FilterReassignsActiveOnce(t *testing.T) {
	s := New(fourRows(t), testLayout, "")

	s = Reduce(s, AddFilter{Column: "in:x", Range: filter.NumericRange(4, 3)})

	if got := ids(s.View); !slices.Equal(got, []int{2, 3}) {
		t.Fatalf("View = %v, want [2 3]", got)
	}
	if s.Selection.Active != selection.One(2) {
		t.Errorf("Active = %+v, want One(2)", s.Selection.Active)
	}
	if _, changed := s.Selection.Reconcile(s.View); changed {
		t.Error("state after Reduce still needed reconciling")
	}
}

func TestReduce_FilterKeepsVisibleActive(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, FocusRecord{ID: 3})
	s = Reduce(s, AddFilter{Column: "in:x", Range: filter.NumericRange(3, 4)})

	if s.Selection.Active != selection.One(3) {
		t.Errorf("Active = %+v, want One(3)", s.Selection.Active)
	}
}

func TestReduce_EmptyViewClearsActive(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, AddFilter{Column: "in:x", Range: filter.NumericRange(100, 200)})

	if len(s.View) != 0 || !s.Selection.Active.IsNone() {
		t.Errorf("View = %v, Active = %+v", ids(s.View), s.Selection.Active)
	}

	s = Reduce(s, ResetFilters{})
	if s.Selection.Active != selection.One(0) || len(s.View) != 4 {
		t.Errorf("after reset: View = %v, Active = %+v", ids(s.View), s.Selection.Active)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s0 := New(fourRows(t), testLayout, "")
	_ = Reduce(s0, AddFilter{Column: "in:x", Range: filter.NumericRange(1, 1)})
	_ = Reduce(s0, ToggleSort{Column: "in:x"})

	if s0.HasFilters() || s0.Sorts.Len() != 0 || len(s0.View) != 4 {
		t.Errorf("Reduce modified its input: %+v", s0)
	}
}

func TestReduce_SwitchDatasetResets(t *testing.T) {
	s := New(fourRows(t), testLayout, "cividis")
	s = Reduce(s, AddFilter{Column: "in:x", Range: filter.NumericRange(2, 4)})
	s = Reduce(s, ToggleSort{Column: "out:y"})
	s = Reduce(s, ToggleRow{ID: 2})

	other := build(t, "other", []string{"in:q", "out:r"}, [][]string{{"5", "6"}, {"7", "8"}})
	s = Reduce(s, SwitchDataset{Dataset: other})

	if s.HasFilters() || s.Sorts.Len() != 0 || s.Brush != nil {
		t.Errorf("switch kept filters/sorts/brush: %+v", s)
	}
	if !s.Selection.Selected.IsNone() {
		t.Errorf("Selected = %+v, want None", s.Selection.Selected)
	}
	if s.Selection.Active != selection.One(0) {
		t.Errorf("Active = %+v, want One(0)", s.Selection.Active)
	}
	if s.Palette != "cividis" || s.Layout != testLayout {
		t.Error("switch should keep palette and layout")
	}
	if !slices.Equal(s.Axes, []string{"in:q", "out:r"}) {
		t.Errorf("Axes = %v", s.Axes)
	}
}

func TestReduce_SortKeepsActive(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, ToggleSort{Column: "in:x"})
	s = Reduce(s, ToggleSort{Column: "in:x"})

	if got := ids(s.View); !slices.Equal(got, []int{3, 2, 1, 0}) {
		t.Errorf("View = %v, want [3 2 1 0]", got)
	}
	if s.Selection.Active != selection.One(0) {
		t.Errorf("Active = %+v, want One(0)", s.Selection.Active)
	}
	if got := ids(s.Filtered); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("Filtered = %v, want dataset order", got)
	}

	s = Reduce(s, ClearSorts{})
	if got := ids(s.View); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("View after ClearSorts = %v", got)
	}
}

func TestReduce_Selection(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, ToggleRow{ID: 1})

	if s.Selection.Selected != selection.One(1) || s.Selection.Active != selection.One(1) {
		t.Fatalf("Selection = %+v", s.Selection)
	}

	// The selection survives a filter that hides it.
	s = Reduce(s, AddFilter{Column: "in:x", Range: filter.NumericRange(3, 4)})
	if s.Selection.Selected != selection.One(1) {
		t.Errorf("Selected = %+v, want One(1)", s.Selection.Selected)
	}
	if recs := s.SelectedRecords(); len(recs) != 1 || recs[0].ID != 1 {
		t.Errorf("SelectedRecords() = %v", ids(recs))
	}

	// A hidden record can be selected but does not become active.
	s = Reduce(s, ToggleRow{ID: 0})
	if s.Selection.Selected != selection.One(0) || s.Selection.Active != selection.One(2) {
		t.Errorf("hidden select: %+v", s.Selection)
	}

	// Hidden records cannot be focused and unknown ids are ignored.
	s = Reduce(s, FocusRecord{ID: 1})
	s = Reduce(s, ToggleRow{ID: 42})
	if s.Selection.Selected != selection.One(0) || s.Selection.Active != selection.One(2) {
		t.Errorf("Selection = %+v, want selected 0 and active 2", s.Selection)
	}

	s = Reduce(s, ToggleRow{ID: 0})
	if !s.Selection.Selected.IsNone() {
		t.Errorf("Selected = %+v, want None", s.Selection.Selected)
	}

	s = Reduce(s, ToggleRow{ID: 3})
	s = Reduce(s, ClearSelection{})
	if !s.Selection.Selected.IsNone() || s.Selection.Active != selection.One(3) {
		t.Errorf("ClearSelection() = %+v", s.Selection)
	}
}

func TestReduce_BrushGesture(t *testing.T) {
	s := New(fourRows(t), testLayout, "")

	s = Reduce(s, BrushPress{X: 40, Y: 300})
	if s.Brush == nil {
		t.Fatal("press on an axis should start a brush")
	}
	s = Reduce(s, BrushMove{Y: 170})
	if len(s.View) != 4 {
		t.Error("moving a brush should not filter")
	}
	s = Reduce(s, BrushRelease{})

	if s.Brush != nil {
		t.Error("release should end the brush")
	}
	rs := s.Filters.Ranges("in:x")
	if len(rs) != 1 || rs[0] != filter.NumericRange(1, 2.5) {
		t.Fatalf("ranges = %+v, want [1, 2.5]", rs)
	}
	if got := ids(s.View); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("View = %v, want [0 1]", got)
	}

	// Pressing inside the brushed span removes it.
	s = Reduce(s, BrushPress{X: 40, Y: 250})
	if s.Brush != nil || s.HasFilters() || len(s.View) != 4 {
		t.Errorf("press on range: brush=%v filters=%v view=%v", s.Brush, s.HasFilters(), ids(s.View))
	}
}

func TestReduce_ClickClearsColumn(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, AddFilter{Column: "in:x", Range: filter.NumericRange(1, 2)})

	s = Reduce(s, BrushPress{X: 40, Y: 60})
	s = Reduce(s, BrushMove{Y: 61})
	s = Reduce(s, BrushRelease{})

	if s.HasFilters() {
		t.Errorf("short drag should clear the column, filters = %v", s.Filters.Columns())
	}
}

func TestReduce_BrushWithoutPressIsNoop(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, BrushMove{Y: 100})
	s = Reduce(s, BrushRelease{})
	if s.Brush != nil || s.HasFilters() {
		t.Errorf("unexpected state %+v", s)
	}
}

func TestReduce_ReorderAxes(t *testing.T) {
	tests := []struct {
		dragged, target string
		want            []string
	}{
		{"out:y", "in:x", []string{"out:y", "in:x", "in:z"}},
		{"in:x", "out:y", []string{"in:z", "out:y", "in:x"}},
		{"in:x", "in:z", []string{"in:z", "in:x", "out:y"}},
		{"in:x", "in:x", []string{"in:x", "in:z", "out:y"}},
		{"nope", "in:x", []string{"in:x", "in:z", "out:y"}},
	}

	base := New(fourRows(t), testLayout, "")
	for _, tt := range tests {
		t.Run(tt.dragged+"->"+tt.target, func(t *testing.T) {
			s := Reduce(base, ReorderAxes{Dragged: tt.dragged, Target: tt.target})
			if !slices.Equal(s.Axes, tt.want) {
				t.Errorf("Axes = %v, want %v", s.Axes, tt.want)
			}
			if !slices.Equal(base.Axes, []string{"in:x", "in:z", "out:y"}) {
				t.Error("reorder modified the previous state")
			}
		})
	}
}

func TestReduce_ColorSettings(t *testing.T) {
	s := New(fourRows(t), testLayout, "")

	s = Reduce(s, SetColorBy{Column: "out:y"})
	if s.ColorBy != "out:y" {
		t.Errorf("ColorBy = %q", s.ColorBy)
	}
	s = Reduce(s, SetColorBy{Column: "in:missing"})
	if s.ColorBy != "out:y" {
		t.Error("unknown column should be ignored")
	}

	s = Reduce(s, SetPalette{Name: "cividis"})
	if s.Palette != "cividis" {
		t.Errorf("Palette = %q", s.Palette)
	}
}

func TestReduce_ImageColumn(t *testing.T) {
	ds := build(t, "gallery",
		[]string{"in:x", "img:front", "img:side"},
		[][]string{{"1", "renders/f1.png", "s1.png"}, {"2", "f2.png", "s2.png"}})
	s := New(ds, testLayout, "")

	if s.ImgCol != "img:front" {
		t.Fatalf("ImgCol = %q, want img:front", s.ImgCol)
	}
	if rec, _ := s.ActiveRecord(); s.ImageName(rec) != "f1.png" {
		t.Errorf("ImageName() = %q, want f1.png", s.ImageName(rec))
	}

	tests := []struct {
		column string
		want   string
	}{
		{"img:side", "img:side"},
		{"in:x", "img:side"},
		{"img:nope", "img:side"},
		{"img:front", "img:front"},
	}
	for _, tt := range tests {
		s = Reduce(s, SetImageColumn{Column: tt.column})
		if s.ImgCol != tt.want {
			t.Errorf("SetImageColumn(%q): ImgCol = %q, want %q", tt.column, s.ImgCol, tt.want)
		}
	}

	s = Reduce(s, SetImageColumn{Column: "img:side"})
	s = Reduce(s, SwitchDataset{Dataset: ds})
	if s.ImgCol != "img:front" {
		t.Errorf("switch should reset ImgCol, got %q", s.ImgCol)
	}

	s = Reduce(s, SwitchDataset{Dataset: fourRows(t)})
	if rec, _ := s.ActiveRecord(); s.ImgCol != "img:pic" || s.ImageName(rec) != "1.png" {
		t.Errorf("ImgCol = %q", s.ImgCol)
	}
}

func TestColors(t *testing.T) {
	bw := palette.Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}

	tests := []struct {
		name    string
		colorBy string
		want    []palette.RGB
	}{
		{"default column", "", []palette.RGB{{R: 0, G: 0, B: 0}, {R: 85, G: 85, B: 85}, {R: 170, G: 170, B: 170}, {R: 255, G: 255, B: 255}}},
		{"missing cell gets no-data color", "out:y", []palette.RGB{{R: 0, G: 0, B: 0}, {R: 128, G: 128, B: 128}, {R: 255, G: 255, B: 255}, palette.NoData}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(fourRows(t), testLayout, "")
			if tt.colorBy != "" {
				s = Reduce(s, SetColorBy{Column: tt.colorBy})
			}
			if got := s.Colors(bw); !slices.Equal(got, tt.want) {
				t.Errorf("Colors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReduce_Resize(t *testing.T) {
	s := New(fourRows(t), testLayout, "")
	s = Reduce(s, Resize{Width: 1000})
	if s.Layout != axis.DefaultLayout(1000) {
		t.Errorf("Layout = %+v", s.Layout)
	}
}

func TestPaginate(t *testing.T) {
	view := make([]dataset.Record, 5)
	for i := range view {
		view[i] = dataset.NewRecord(i, nil)
	}

	tests := []struct {
		name              string
		page, perPage     int
		wantPage, wantLen int
		wantFirst         int
		wantLast          int
	}{
		{"first page", 1, 2, 1, 2, 1, 2},
		{"last partial page", 3, 2, 3, 1, 5, 5},
		{"past the end clamps", 9, 2, 3, 1, 5, 5},
		{"zero clamps to first", 0, 2, 1, 2, 1, 2},
		{"default page size", 1, 0, 1, 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(view, tt.page, tt.perPage)
			if p.Page != tt.wantPage || len(p.Records) != tt.wantLen {
				t.Errorf("Paginate() page=%d len=%d, want page=%d len=%d", p.Page, len(p.Records), tt.wantPage, tt.wantLen)
			}
			if p.First != tt.wantFirst || p.Last != tt.wantLast {
				t.Errorf("Paginate() showing %d-%d, want %d-%d", p.First, p.Last, tt.wantFirst, tt.wantLast)
			}
		})
	}

	empty := Paginate(nil, 1, 10)
	if empty.TotalPages != 1 || empty.Records == nil || empty.First != 0 {
		t.Errorf("Paginate(nil) = %+v", empty)
	}
}
