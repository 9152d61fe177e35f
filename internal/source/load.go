package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/google/uuid"
)

// Loaded is a built dataset together with its images. Images is nil when
// the dataset has none.
type Loaded struct {
	Dataset *dataset.Dataset
	Images  Images
}

// NewUploadID returns a fresh id for an uploaded dataset.
func NewUploadID() string {
	return "upload-" + uuid.NewString()
}

// LoadFile builds an uploaded dataset from a .csv or .zip file. The file
// name becomes the dataset name.
func LoadFile(ctx context.Context, id, filename string, data []byte, maxBytes int64) (Loaded, error) {
	if err := ctx.Err(); err != nil {
		return Loaded{}, err
	}

	var (
		table  Table
		images Images
		err    error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		table, images, err = ReadZip(data, maxBytes)
	case ".csv":
		table, err = ParseCSV(bytes.NewReader(data), maxBytes)
	default:
		return Loaded{}, ErrUnsupportedFormat
	}
	if err != nil {
		return Loaded{}, err
	}

	ds, err := dataset.Build(id, filename, dataset.SourceUploaded, table.Headers, table.Rows)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Dataset: ds, Images: images}, nil
}

// LoadDir loads every sub-folder of dir holding a data.csv as a built-in
// dataset. The folder name is the id; dashes become spaces in the display
// name. Folders that fail to load are logged and skipped.
func LoadDir(ctx context.Context, dir string, maxBytes int64) ([]Loaded, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []Loaded
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if !e.IsDir() {
			continue
		}
		folder := filepath.Join(dir, e.Name())
		l, err := loadFolder(folder, e.Name(), maxBytes)
		if err != nil {
			slog.Warn("skipping dataset folder", "folder", e.Name(), "error", err)
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func loadFolder(folder, id string, maxBytes int64) (Loaded, error) {
	f, err := os.Open(filepath.Join(folder, "data.csv"))
	if err != nil {
		return Loaded{}, err
	}
	defer f.Close()

	table, err := ParseCSV(f, maxBytes)
	if err != nil {
		return Loaded{}, err
	}
	name := strings.ReplaceAll(id, "-", " ")
	ds, err := dataset.Build(id, name, dataset.SourceBuiltin, table.Headers, table.Rows)
	if err != nil {
		return Loaded{}, err
	}

	var images Images
	if len(ds.Columns.Img) > 0 {
		images = fsImages{fsys: os.DirFS(folder)}
	}
	return Loaded{Dataset: ds, Images: images}, nil
}
