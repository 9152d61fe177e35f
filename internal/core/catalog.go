package core

import (
	"fmt"
	"sync"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/source"
)

// Summary describes a catalog entry without its records.
type Summary struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Source  dataset.Source  `json:"source"`
	Records int             `json:"records"`
	Columns dataset.Columns `json:"columns"`
	Images  bool            `json:"images"`
}

// Catalog holds loaded datasets in insertion order.
type Catalog struct {
	mu      sync.RWMutex
	entries []source.Loaded
	byID    map[string]int
}

func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// Add registers l. Ids are unique across sources.
func (c *Catalog) Add(l source.Loaded) error {
	if l.Dataset == nil {
		return dataset.ErrEmptyDataset
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[l.Dataset.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDataset, l.Dataset.ID)
	}
	c.byID[l.Dataset.ID] = len(c.entries)
	c.entries = append(c.entries, l)
	return nil
}

// Get returns the entry with id.
func (c *Catalog) Get(id string) (source.Loaded, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return source.Loaded{}, false
	}
	return c.entries[i], true
}

// All returns every entry in insertion order.
func (c *Catalog) All() []source.Loaded {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]source.Loaded, len(c.entries))
	copy(out, c.entries)
	return out
}

// BySource returns the entries from src in insertion order.
func (c *Catalog) BySource(src dataset.Source) []source.Loaded {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []source.Loaded
	for _, l := range c.entries {
		if l.Dataset.Source == src {
			out = append(out, l)
		}
	}
	return out
}

// First returns the earliest entry from src.
func (c *Catalog) First(src dataset.Source) (source.Loaded, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.entries {
		if l.Dataset.Source == src {
			return l, true
		}
	}
	return source.Loaded{}, false
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Summarize converts entries to summaries.
func Summarize(entries []source.Loaded) []Summary {
	out := make([]Summary, len(entries))
	for i, l := range entries {
		ds := l.Dataset
		out[i] = Summary{
			ID:      ds.ID,
			Name:    ds.Name,
			Source:  ds.Source,
			Records: ds.Len(),
			Columns: ds.Columns,
			Images:  l.Images != nil,
		}
	}
	return out
}

// ParseSource validates a source name.
func ParseSource(s string) (dataset.Source, error) {
	switch src := dataset.Source(s); src {
	case dataset.SourceBuiltin, dataset.SourceUploaded, dataset.SourceSQL:
		return src, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}
