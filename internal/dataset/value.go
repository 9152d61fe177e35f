package dataset

// value.go provides the cell value model and the coercion rules applied to
// raw CSV text.
//
// A cell is one of three kinds:
//   - Number: the trimmed text is a finite decimal or scientific literal
//   - String: any other non-empty text
//   - Missing: empty or whitespace-only text, or a cell past the row's end
//
// Missing never contributes to a column range or a categorical enumeration.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain numeric literal.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindString
)

// String returns the kind name used in JSON output.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "missing"
	}
}

// Value is a single cell: Number, String or Missing.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Missing returns the Missing value.
func Missing() Value { return Value{} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is Missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric value and true if v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the string value and true if v is a String.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Display renders v for tables and logs. Missing renders as "".
func (v Value) Display() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// MarshalJSON encodes Number as a JSON number, String as a JSON string and
// Missing as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindString:
		return []byte(strconv.Quote(v.str)), nil
	default:
		return []byte("null"), nil
	}
}

// Parse coerces raw cell text into a Value.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	if numericRegex.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return Number(f)
		}
	}
	return String(s)
}

// Compare orders two values for sorting. Numbers compare numerically and
// strings by byte order. Across kinds, Number < String < Missing.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return rank(a.kind) - rank(b.kind)
	}
	switch a.kind {
	case KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case KindString:
		return strings.Compare(a.str, b.str)
	default:
		return 0
	}
}

func rank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindString:
		return 1
	default:
		return 2
	}
}
