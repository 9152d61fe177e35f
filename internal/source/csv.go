// Package source turns external inputs (CSV text, ZIP archives, built-in
// dataset folders and PostgreSQL tables) into raw tables and image stores
// ready for dataset.Build.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformedCSV wraps parser errors.
	ErrMalformedCSV = errors.New("malformed CSV")
	// ErrNoDataCSV is returned when an archive has no data.csv.
	ErrNoDataCSV = errors.New("could not find 'data.csv' in the zip file")
	// ErrUnsupportedFormat is returned for files that are neither .csv nor .zip.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Table is a header row plus raw data rows. Rows may be shorter than the
// header.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ParseCSV reads a comma-separated table. The first record is the header.
// Every cell is trimmed and blank lines are skipped.
func ParseCSV(r io.Reader, maxBytes int64) (Table, error) {
	cr := csv.NewReader(Normalize(r, maxBytes))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	var t Table
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				return Table{}, err
			}
			return Table{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		line++

		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if line == 1 {
			t.Headers = rec
			continue
		}
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
