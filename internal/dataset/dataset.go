// Package dataset holds the normalized in-memory representation of a parsed
// table: records, prefix-based column classification, numeric ranges and
// categorical enumerations.
//
// A Dataset is immutable once built. Everything downstream (filters, sorts,
// axis scales) reads from it but never writes to it, and the ranges always
// describe the unfiltered data so that axis geometry stays stable while the
// user brushes.
package dataset

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Column role prefixes.
const (
	PrefixIn  = "in:"
	PrefixOut = "out:"
	PrefixImg = "img:"
)

// ErrEmptyDataset is returned when the input has no header or no data rows.
var ErrEmptyDataset = errors.New("dataset empty or invalid")

// Source identifies where a dataset came from.
type Source string

const (
	SourceBuiltin  Source = "builtin"
	SourceUploaded Source = "uploaded"
	SourceSQL      Source = "sql"
)

// Range is the closed numeric extent of a column.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Columns partitions the prefixed headers by role.
type Columns struct {
	In  []string `json:"in"`
	Out []string `json:"out"`
	Img []string `json:"img"`
}

// Axes returns In followed by Out.
func (c Columns) Axes() []string {
	out := make([]string, 0, len(c.In)+len(c.Out))
	out = append(out, c.In...)
	return append(out, c.Out...)
}

// Record is one data row.
type Record struct {
	ID     int
	values map[string]Value
}

// NewRecord builds a record from a column -> value map. The map is copied.
func NewRecord(id int, values map[string]Value) Record {
	return Record{ID: id, values: maps.Clone(values)}
}

// Get returns the value of col, or Missing if the record has no such column.
func (r Record) Get(col string) Value {
	return r.values[col]
}

// ImageName returns the base file name referenced by an image column.
func (r Record) ImageName(col string) string {
	s, ok := r.Get(col).Text()
	if !ok {
		return ""
	}
	return path.Base(s)
}

// MarshalJSON flattens the record into {"id": n, "<col>": value, ...}.
// A column literally named id is left out so the record id stays the only
// "id" key.
func (r Record) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `{"id":%d`, r.ID)
	for _, k := range sortedKeys(r.values) {
		if k == "id" {
			continue
		}
		raw, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, ",%q:%s", k, raw)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Dataset is an immutable parsed table.
type Dataset struct {
	ID      string
	Name    string
	Source  Source
	Headers []string
	Records []Record

	Columns     Columns
	NumericCols []string
	StringCols  []string
	Ranges      map[string]Range
	Categories  map[string][]string

	DefaultColorBy string
	DefaultImgCol  string
}

// Build constructs a Dataset from a header row and raw data rows.
// Rows shorter than the header yield Missing for the absent cells.
func Build(id, name string, source Source, headers []string, rows [][]string) (*Dataset, error) {
	if len(headers) == 0 || len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	hdrs := make([]string, len(headers))
	for i, h := range headers {
		hdrs[i] = strings.TrimSpace(h)
	}

	ds := &Dataset{
		ID:         id,
		Name:       name,
		Source:     source,
		Headers:    hdrs,
		Columns:    classify(hdrs),
		Ranges:     make(map[string]Range),
		Categories: make(map[string][]string),
	}

	ds.Records = make([]Record, len(rows))
	for i, row := range rows {
		values := make(map[string]Value, len(hdrs))
		for j, h := range hdrs {
			if j < len(row) {
				values[h] = Parse(row[j])
			} else {
				values[h] = Missing()
			}
		}
		ds.Records[i] = NewRecord(i, values)
	}

	ds.summarize()
	return ds, nil
}

func classify(headers []string) Columns {
	var cols Columns
	for _, h := range headers {
		switch {
		case strings.HasPrefix(h, PrefixIn):
			cols.In = append(cols.In, h)
		case strings.HasPrefix(h, PrefixOut):
			cols.Out = append(cols.Out, h)
		case strings.HasPrefix(h, PrefixImg):
			cols.Img = append(cols.Img, h)
		}
	}
	return cols
}

// summarize fills the type classification, ranges, categories and defaults.
func (ds *Dataset) summarize() {
	distinct := make(map[string]int)

	for _, col := range ds.Columns.Axes() {
		var nums []float64
		var cats []string
		seenNum := make(map[float64]struct{})
		seenCat := make(map[string]struct{})

		for _, rec := range ds.Records {
			v := rec.Get(col)
			if f, ok := v.Float(); ok {
				nums = append(nums, f)
				seenNum[f] = struct{}{}
			} else if s, ok := v.Text(); ok {
				if _, dup := seenCat[s]; !dup {
					seenCat[s] = struct{}{}
					cats = append(cats, s)
				}
			}
		}

		if len(nums) > 0 {
			ds.NumericCols = append(ds.NumericCols, col)
			ds.Ranges[col] = Range{Min: floats.Min(nums), Max: floats.Max(nums)}
			distinct[col] = len(seenNum)
		}
		if len(cats) > 0 {
			ds.StringCols = append(ds.StringCols, col)
			ds.Categories[col] = cats
		}
	}

	ds.DefaultColorBy = ds.pickColorBy(distinct)
	if len(ds.Columns.Img) > 0 {
		ds.DefaultImgCol = ds.Columns.Img[0]
	}
}

// pickColorBy returns the numeric column with the most distinct values,
// scanning outputs before inputs so the first output wins a tie.
func (ds *Dataset) pickColorBy(distinct map[string]int) string {
	best, bestCount := "", -1
	for _, group := range [][]string{ds.Columns.Out, ds.Columns.In} {
		for _, col := range group {
			n, ok := distinct[col]
			if ok && n > bestCount {
				best, bestCount = col, n
			}
		}
	}
	if best != "" {
		return best
	}
	if len(ds.Columns.Out) > 0 {
		return ds.Columns.Out[0]
	}
	if len(ds.Columns.In) > 0 {
		return ds.Columns.In[0]
	}
	return ""
}

// Range returns the numeric range of col.
func (ds *Dataset) Range(col string) (Range, bool) {
	if ds == nil {
		return Range{}, false
	}
	r, ok := ds.Ranges[col]
	return r, ok
}

// CategoryIndex returns the position of s in col's enumeration, or -1.
func (ds *Dataset) CategoryIndex(col, s string) int {
	if ds == nil {
		return -1
	}
	for i, c := range ds.Categories[col] {
		if c == s {
			return i
		}
	}
	return -1
}

// HasColumn reports whether col is an input or output column.
func (ds *Dataset) HasColumn(col string) bool {
	if ds == nil {
		return false
	}
	for _, c := range ds.Columns.Axes() {
		if c == col {
			return true
		}
	}
	return false
}

// IsNumeric reports whether col holds at least one number.
func (ds *Dataset) IsNumeric(col string) bool {
	_, ok := ds.Range(col)
	return ok
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Records)
}

// Record returns the record with the given id.
func (ds *Dataset) Record(id int) (Record, bool) {
	if ds == nil || id < 0 || id >= len(ds.Records) {
		return Record{}, false
	}
	return ds.Records[id], true
}

// CleanName strips the role prefix and replaces underscores with spaces.
func CleanName(col string) string {
	if i := strings.Index(col, ":"); i >= 0 {
		col = col[i+1:]
		if j := strings.Index(col, ":"); j >= 0 {
			col = col[:j]
		}
	}
	return strings.ReplaceAll(col, "_", " ")
}

func sortedKeys(m map[string]Value) []string {
	return slices.Sorted(maps.Keys(m))
}
