package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JonMunkholm/explorer/internal/axis"
	"github.com/JonMunkholm/explorer/internal/config"
	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/palette"
	"github.com/JonMunkholm/explorer/internal/session"
	"github.com/JonMunkholm/explorer/internal/source"
)

// Service owns the dataset catalog and the single exploration session.
// Reducer calls are serialized by mu; ingestion runs outside the lock and
// only takes it to publish the result.
type Service struct {
	cfg      *config.Config
	catalog  *Catalog
	limiter  *IngestLimiter
	palettes *palette.Registry

	mu         sync.RWMutex
	state      session.State
	viewSource dataset.Source
}

// NewService creates a service with an empty catalog.
func NewService(cfg *config.Config) (*Service, error) {
	var custom palette.Palette
	if len(cfg.Chart.CustomPalette) > 0 {
		p, err := palette.Parse(cfg.Chart.CustomPalette)
		if err != nil {
			return nil, fmt.Errorf("custom palette: %w", err)
		}
		custom = p
	}

	return &Service{
		cfg:        cfg,
		catalog:    NewCatalog(),
		limiter:    NewIngestLimiter(cfg.Datasets.MaxConcurrent, cfg.Datasets.MaxWaitTime),
		palettes:   palette.NewRegistry(custom),
		state:      session.New(nil, axis.DefaultLayout(cfg.Chart.Width), cfg.Chart.Palette),
		viewSource: dataset.SourceBuiltin,
	}, nil
}

// LoadBuiltin loads every dataset folder under the configured directory and
// activates the configured default, or the first builtin dataset.
func (s *Service) LoadBuiltin(ctx context.Context) error {
	loaded, err := source.LoadDir(ctx, s.cfg.Datasets.Dir, s.cfg.Datasets.MaxFileSize)
	if err != nil {
		return err
	}

	var errs []error
	for _, l := range loaded {
		if err := s.catalog.Add(l); err != nil {
			errs = append(errs, err)
		}
	}
	slog.Info("builtin datasets loaded", "dir", s.cfg.Datasets.Dir, "count", len(loaded))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Dataset == nil {
		l, ok := s.catalog.Get(s.cfg.Datasets.Default)
		if !ok || l.Dataset.Source != dataset.SourceBuiltin {
			l, ok = s.catalog.First(dataset.SourceBuiltin)
		}
		if ok {
			s.activateLocked(l)
		}
	}
	return errors.Join(errs...)
}

// LoadSQL loads each table through db. Tables that fail are reported in
// the joined error; the rest are still added.
func (s *Service) LoadSQL(ctx context.Context, db source.Querier, tables []string) error {
	var errs []error
	for _, table := range tables {
		if err := s.loadTable(ctx, db, table); err != nil {
			slog.Warn("sql dataset skipped", "table", table, "error", err)
			errs = append(errs, fmt.Errorf("table %s: %w", table, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) loadTable(ctx context.Context, db source.Querier, table string) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Datasets.Timeout)
	defer cancel()

	l, err := source.LoadSQL(ctx, db, table)
	if err != nil {
		return err
	}
	return s.catalog.Add(l)
}

// Upload parses a .csv or .zip file, adds it to the catalog, switches the
// view to uploaded datasets and activates it.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, ErrNoFile
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return Summary{}, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Datasets.Timeout)
	defer cancel()

	l, err := source.LoadFile(ctx, source.NewUploadID(), filename, data, s.cfg.Datasets.MaxFileSize)
	if err != nil {
		return Summary{}, err
	}
	if err := s.catalog.Add(l); err != nil {
		return Summary{}, err
	}

	s.mu.Lock()
	s.viewSource = dataset.SourceUploaded
	s.activateLocked(l)
	s.mu.Unlock()

	slog.Info("dataset uploaded", "id", l.Dataset.ID, "file", filename, "records", l.Dataset.Len())
	return Summarize([]source.Loaded{l})[0], nil
}

// Datasets lists catalog entries. An empty src lists every source.
func (s *Service) Datasets(src string) ([]Summary, error) {
	if src == "" {
		return Summarize(s.catalog.All()), nil
	}
	parsed, err := ParseSource(src)
	if err != nil {
		return nil, err
	}
	return Summarize(s.catalog.BySource(parsed)), nil
}

// Snapshot is one consistent read of the session, the listed source and
// the resolved palette.
type Snapshot struct {
	State   session.State
	Source  dataset.Source
	Palette palette.Palette
}

// Activate switches the session to dataset id.
func (s *Service) Activate(id string) (Snapshot, error) {
	l, ok := s.catalog.Get(id)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewSource = l.Dataset.Source
	s.activateLocked(l)
	return s.snapshotLocked(), nil
}

// SetSource switches the listed source. The session is kept when the active
// dataset already belongs to src; otherwise the first dataset of src is
// activated, or an empty session when src has none.
func (s *Service) SetSource(src string) (Snapshot, error) {
	parsed, err := ParseSource(src)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewSource = parsed
	if s.state.Dataset != nil && s.state.Dataset.Source == parsed {
		return s.snapshotLocked(), nil
	}
	if l, ok := s.catalog.First(parsed); ok {
		s.activateLocked(l)
	} else {
		s.state = session.Reduce(s.state, session.SwitchDataset{})
	}
	return s.snapshotLocked(), nil
}

func (s *Service) activateLocked(l source.Loaded) {
	s.state = session.Reduce(s.state, session.SwitchDataset{Dataset: l.Dataset})
}

// Dispatch applies actions in order under one lock and returns the
// resulting snapshot. SetPalette with an unregistered name is skipped.
func (s *Service) Dispatch(actions ...session.Action) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		if sp, ok := a.(session.SetPalette); ok && !s.palettes.Has(sp.Name) {
			continue
		}
		s.state = session.Reduce(s.state, a)
	}
	return s.snapshotLocked()
}

// Snapshot returns the current session, source and palette together.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		State:   s.state,
		Source:  s.viewSource,
		Palette: s.palettes.Get(s.state.Palette),
	}
}

// State returns the current session.
func (s *Service) State() session.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Image returns the bytes of an image referenced by dataset id.
func (s *Service) Image(datasetID, name string) ([]byte, error) {
	l, ok := s.catalog.Get(datasetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, datasetID)
	}
	if l.Images == nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
	}
	data, ok := l.Images.Image(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
	}
	return data, nil
}

func (s *Service) Palettes() []palette.Info {
	return s.palettes.List()
}

func (s *Service) PageSize() int {
	return s.cfg.Chart.PageSize
}

func (s *Service) IngestStatus() IngestStatus {
	return s.limiter.Status()
}

// WaitForIngests blocks until in-flight uploads and SQL loads finish.
func (s *Service) WaitForIngests(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
