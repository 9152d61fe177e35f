package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/JonMunkholm/explorer/internal/dataset"
)

// Images resolves the value of an image cell to file bytes.
type Images interface {
	Image(name string) ([]byte, bool)
}

// memImages holds images extracted from an archive, keyed by cell value.
type memImages map[string][]byte

func (m memImages) Image(name string) ([]byte, bool) {
	b, ok := m[name]
	return b, ok
}

// fsImages reads images relative to a dataset folder.
type fsImages struct {
	fsys fs.FS
}

func (f fsImages) Image(name string) ([]byte, bool) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if !fs.ValidPath(name) {
		return nil, false
	}
	b, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, false
	}
	return b, true
}

// ReadZip extracts data.csv and every image referenced by an img: column.
// An image cell resolves to the entry with the same path or, failing that,
// to any entry ending in the same file name outside __MACOSX.
func ReadZip(data []byte, maxBytes int64) (Table, Images, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Table{}, nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var csvFile *zip.File
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() && isDataCSV(f.Name) {
			csvFile = f
			break
		}
	}
	if csvFile == nil {
		return Table{}, nil, ErrNoDataCSV
	}

	rc, err := csvFile.Open()
	if err != nil {
		return Table{}, nil, fmt.Errorf("open %s: %w", csvFile.Name, err)
	}
	table, err := ParseCSV(rc, maxBytes)
	rc.Close()
	if err != nil {
		return Table{}, nil, err
	}

	images := memImages{}
	for _, name := range imageCells(table) {
		if _, done := images[name]; done {
			continue
		}
		f := findEntry(zr, name)
		if f == nil {
			continue
		}
		b, err := readEntry(f, maxBytes)
		if err != nil {
			return Table{}, nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		images[name] = b
	}
	return table, images, nil
}

// isDataCSV matches data.csv in any folder, ignoring case and macOS
// resource forks.
func isDataCSV(name string) bool {
	return !isMacOSMeta(name) && strings.EqualFold(path.Base(name), "data.csv")
}

func isMacOSMeta(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/")
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	base := path.Base(name)
	for _, f := range zr.File {
		if path.Base(f.Name) == base && !isMacOSMeta(f.Name) {
			return f
		}
	}
	return nil
}

func readEntry(f *zip.File, maxBytes int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(&limitReader{r: rc, left: maxBytes, total: maxBytes})
}

// imageCells lists every non-empty value of the table's img: columns.
func imageCells(t Table) []string {
	var idx []int
	for i, h := range t.Headers {
		if strings.HasPrefix(h, dataset.PrefixImg) {
			idx = append(idx, i)
		}
	}
	var out []string
	for _, row := range t.Rows {
		for _, i := range idx {
			if i < len(row) && row[i] != "" {
				out = append(out, row[i])
			}
		}
	}
	return out
}
