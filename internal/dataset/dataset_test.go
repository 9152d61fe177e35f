package dataset

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func buildTest(t *testing.T, headers []string, rows [][]string) *Dataset {
	t.Helper()
	ds, err := Build("test", "test", SourceUploaded, headers, rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ds
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantNum  float64
		wantStr  string
	}{
		{"integer", "42", KindNumber, 42, ""},
		{"negative decimal", "-3.5", KindNumber, -3.5, ""},
		{"leading dot", ".25", KindNumber, 0.25, ""},
		{"scientific", "1e3", KindNumber, 1000, ""},
		{"padded", "  7 ", KindNumber, 7, ""},
		{"word", "red", KindString, 0, "red"},
		{"NaN stays text", "NaN", KindString, 0, "NaN"},
		{"Inf stays text", "Inf", KindString, 0, "Inf"},
		{"hex stays text", "0x10", KindString, 0, "0x10"},
		{"empty is missing", "", KindMissing, 0, ""},
		{"blank is missing", "   ", KindMissing, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(tt.input)
			if v.Kind() != tt.wantKind {
				t.Fatalf("Parse(%q).Kind() = %v, want %v", tt.input, v.Kind(), tt.wantKind)
			}
			if f, ok := v.Float(); ok && f != tt.wantNum {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, f, tt.wantNum)
			}
			if s, ok := v.Text(); ok && s != tt.wantStr {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, s, tt.wantStr)
			}
		})
	}
}

func TestCompare_MixedKinds(t *testing.T) {
	if Compare(Number(100), String("a")) >= 0 {
		t.Error("number should sort before string")
	}
	if Compare(String("z"), Missing()) >= 0 {
		t.Error("string should sort before missing")
	}
	if Compare(Number(1), Number(2)) >= 0 {
		t.Error("1 should sort before 2")
	}
	if Compare(String("b"), String("a")) <= 0 {
		t.Error("b should sort after a")
	}
	if Compare(Missing(), Missing()) != 0 {
		t.Error("missing values should compare equal")
	}
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build("x", "x", SourceUploaded, []string{"in:a"}, nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("Build() error = %v, want ErrEmptyDataset", err)
	}
	_, err = Build("x", "x", SourceUploaded, nil, [][]string{{"1"}})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("Build() error = %v, want ErrEmptyDataset", err)
	}
}

func TestBuild_Classification(t *testing.T) {
	ds := buildTest(t,
		[]string{"in:width", " in:material ", "out:lux", "img:render", "note"},
		[][]string{
			{"1", "wood", "300", "imgs/a.png", "first"},
			{"2", "steel", "450", "imgs/b.png", "second"},
			{"3", "", "", "imgs/c.png", "third"},
		},
	)

	if got, want := ds.Columns.In, []string{"in:width", "in:material"}; !equal(got, want) {
		t.Errorf("Columns.In = %v, want %v", got, want)
	}
	if got, want := ds.Columns.Out, []string{"out:lux"}; !equal(got, want) {
		t.Errorf("Columns.Out = %v, want %v", got, want)
	}
	if got, want := ds.Columns.Img, []string{"img:render"}; !equal(got, want) {
		t.Errorf("Columns.Img = %v, want %v", got, want)
	}
	if got, want := ds.NumericCols, []string{"in:width", "out:lux"}; !equal(got, want) {
		t.Errorf("NumericCols = %v, want %v", got, want)
	}
	if got, want := ds.StringCols, []string{"in:material"}; !equal(got, want) {
		t.Errorf("StringCols = %v, want %v", got, want)
	}

	// Unprefixed columns are carried on the record.
	if s, _ := ds.Records[1].Get("note").Text(); s != "second" {
		t.Errorf("note = %q, want %q", s, "second")
	}
	if !ds.Records[2].Get("out:lux").IsMissing() {
		t.Error("empty cell should be missing")
	}
	if got := ds.Records[0].ImageName("img:render"); got != "a.png" {
		t.Errorf("ImageName = %q, want %q", got, "a.png")
	}
	if ds.DefaultImgCol != "img:render" {
		t.Errorf("DefaultImgCol = %q, want %q", ds.DefaultImgCol, "img:render")
	}
}

func TestBuild_IDsFollowParseOrder(t *testing.T) {
	ds := buildTest(t, []string{"in:x"}, [][]string{{"5"}, {"6"}, {"7"}})
	for i, rec := range ds.Records {
		if rec.ID != i {
			t.Errorf("Records[%d].ID = %d", i, rec.ID)
		}
	}
}

func TestBuild_Ranges(t *testing.T) {
	ds := buildTest(t,
		[]string{"in:x", "in:mixed", "in:label"},
		[][]string{
			{"3", "10", "a"},
			{"-1", "b", "b"},
			{"8", "", "c"},
		},
	)

	r, ok := ds.Range("in:x")
	if !ok || r.Min != -1 || r.Max != 8 {
		t.Errorf("Range(in:x) = %+v, %v; want {-1 8}", r, ok)
	}

	// Mixed columns are both numeric and categorical.
	r, ok = ds.Range("in:mixed")
	if !ok || r.Min != 10 || r.Max != 10 {
		t.Errorf("Range(in:mixed) = %+v, %v; want {10 10}", r, ok)
	}
	if got := ds.Categories["in:mixed"]; !equal(got, []string{"b"}) {
		t.Errorf("Categories[in:mixed] = %v, want [b]", got)
	}

	if _, ok := ds.Range("in:label"); ok {
		t.Error("string-only column should have no range")
	}
}

func TestBuild_CategoryFirstOccurrenceOrder(t *testing.T) {
	ds := buildTest(t,
		[]string{"in:color"},
		[][]string{{"red"}, {"blue"}, {"red"}, {"green"}},
	)

	want := []string{"red", "blue", "green"}
	if got := ds.Categories["in:color"]; !equal(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
	if got := ds.CategoryIndex("in:color", "green"); got != 2 {
		t.Errorf("CategoryIndex(green) = %d, want 2", got)
	}
	if got := ds.CategoryIndex("in:color", "purple"); got != -1 {
		t.Errorf("CategoryIndex(purple) = %d, want -1", got)
	}
}

func TestBuild_DefaultColorBy(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		rows    [][]string
		want    string
	}{
		{
			name:    "most distinct wins",
			headers: []string{"in:a", "out:b"},
			rows:    [][]string{{"1", "5"}, {"2", "5"}, {"3", "6"}},
			want:    "in:a",
		},
		{
			name:    "tie goes to output",
			headers: []string{"in:a", "out:b"},
			rows:    [][]string{{"1", "5"}, {"2", "6"}},
			want:    "out:b",
		},
		{
			name:    "no numeric falls back to first output",
			headers: []string{"in:a", "out:b"},
			rows:    [][]string{{"x", "y"}},
			want:    "out:b",
		},
		{
			name:    "no output falls back to first input",
			headers: []string{"in:a", "img:c"},
			rows:    [][]string{{"x", "p.png"}},
			want:    "in:a",
		},
		{
			name:    "no axes",
			headers: []string{"note"},
			rows:    [][]string{{"x"}},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := buildTest(t, tt.headers, tt.rows)
			if ds.DefaultColorBy != tt.want {
				t.Errorf("DefaultColorBy = %q, want %q", ds.DefaultColorBy, tt.want)
			}
		})
	}
}

func TestBuild_ShortRows(t *testing.T) {
	ds := buildTest(t, []string{"in:a", "out:b"}, [][]string{{"1"}})
	if !ds.Records[0].Get("out:b").IsMissing() {
		t.Error("absent trailing cell should be missing")
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	rec := NewRecord(4, map[string]Value{
		"out:b": String("x"),
		"in:a":  Number(1.5),
		"note":  Missing(),
	})
	got, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"id":4,"in:a":1.5,"note":null,"out:b":"x"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestRecord_MarshalJSON_IDColumn(t *testing.T) {
	ds := buildTest(t, []string{"id", "in:a"}, [][]string{{"run-7", "2"}})

	got, err := json.Marshal(ds.Records[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["id"] != float64(0) || strings.Count(string(got), `"id"`) != 1 {
		t.Errorf("Marshal() = %s, want a single numeric id", got)
	}
	if ds.Records[0].Get("id") != String("run-7") {
		t.Error("the id column should stay readable through Get")
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"in:window_width", "window width"},
		{"out:lux", "lux"},
		{"plain_name", "plain name"},
		{"in:a:b", "a"},
	}
	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func equal(a, b []string) bool {
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
