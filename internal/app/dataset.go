package service

import (
	"context"
	"fmt"

	"github.com/okian/gacha/internal/adapters/datasetfile"
	"github.com/okian/gacha/internal/domain/dataset"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/pkg/logger"
	"github.com/okian/gacha/pkg/metrics"
)

// snapshot is an immutable view of one loaded dataset. Reloads swap the
// whole snapshot, so a request never sees cards from two datasets.
type snapshot struct {
	ds       *model.Dataset
	engine   *draw.Engine
	byID     map[string]model.Card
	byPlayer map[string][]model.Card
	careers  map[string]model.Career
}

func newSnapshot(ds *model.Dataset, opts ...draw.Option) (*snapshot, error) {
	engine, err := draw.NewEngine(ds, opts...)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{
		ds:       ds,
		engine:   engine,
		byID:     make(map[string]model.Card, len(ds.Players)),
		byPlayer: make(map[string][]model.Card),
		careers:  make(map[string]model.Career, len(ds.Careers)),
	}
	for _, c := range ds.Players {
		snap.byID[c.ID] = c
		snap.byPlayer[c.PlayerID] = append(snap.byPlayer[c.PlayerID], c)
	}
	for _, c := range ds.Careers {
		snap.careers[c.PlayerID] = c
	}
	return snap, nil
}

// LoadDataset reads the configured dataset file and installs it.
func (s *Service) LoadDataset(ctx context.Context) error {
	ds, err := datasetfile.Load(s.datasetPath)
	if err != nil {
		metrics.RecordDatasetReload("error")
		metrics.RecordErrorByComponent("dataset", "load")
		return err
	}
	return s.SetDataset(ctx, ds)
}

// SetDataset validates ds and makes it the dataset every later request
// draws from. Requests already running finish on the previous dataset.
func (s *Service) SetDataset(ctx context.Context, ds *model.Dataset) error {
	if ds == nil {
		return dataset.ErrNoCards
	}
	if err := dataset.Validate(ds); err != nil {
		metrics.RecordDatasetReload("invalid")
		return err
	}
	snap, err := newSnapshot(ds, draw.WithRandomSource(s.rng), draw.WithDistribution(s.dist))
	if err != nil {
		metrics.RecordDatasetReload("error")
		return fmt.Errorf("build draw engine: %w", err)
	}
	s.snap.Store(snap)

	metrics.RecordDatasetReload("success")
	metrics.UpdateDatasetSize(len(ds.Players), len(ds.Careers))
	s.log().Info(ctx, "dataset installed",
		logger.Int("cards", len(ds.Players)),
		logger.Int("players", len(ds.Careers)),
		logger.Any("yearRange", ds.Metadata.YearRange),
	)
	return nil
}

func (s *Service) current() (*snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNoDataset
	}
	return snap, nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Ready reports whether a dataset is loaded, and how many cards it holds.
func (s *Service) Ready() (int, bool) {
	snap := s.snap.Load()
	if snap == nil {
		return 0, false
	}
	return len(snap.ds.Players), true
}

// Metadata returns the loaded dataset's summary.
func (s *Service) Metadata(_ context.Context) (model.Metadata, error) {
	snap, err := s.current()
	if err != nil {
		return model.Metadata{}, err
	}
	return snap.ds.Metadata, nil
}

// Distribution returns the grade probabilities draws use.
func (s *Service) Distribution() draw.Distribution {
	return s.dist.Clone()
}

// CardFilter narrows a card listing. Zero fields match everything.
type CardFilter struct {
	Position model.Position
	Grade    model.Grade
	Limit    int
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 || limit > s.maxListLimit {
		return s.maxListLimit
	}
	return limit
}

// Cards lists cards in dataset order.
func (s *Service) Cards(_ context.Context, f CardFilter) ([]model.Card, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	limit := s.clampLimit(f.Limit)
	out := make([]model.Card, 0, min(limit, len(snap.ds.Players)))
	for _, c := range snap.ds.Players {
		if f.Position != "" && c.Position != f.Position {
			continue
		}
		if f.Grade != "" && c.Grade != f.Grade {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Card returns one card by id.
func (s *Service) Card(_ context.Context, id string) (model.Card, error) {
	snap, err := s.current()
	if err != nil {
		return model.Card{}, err
	}
	c, ok := snap.byID[id]
	if !ok {
		return model.Card{}, fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	return c, nil
}

// PlayerCards returns every card of one player in dataset order.
func (s *Service) PlayerCards(_ context.Context, playerID string) ([]model.Card, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	cards, ok := snap.byPlayer[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return append([]model.Card(nil), cards...), nil
}

// Careers returns careers in dataset order, most decorated first.
func (s *Service) Careers(_ context.Context, limit int) ([]model.Career, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	n := min(s.clampLimit(limit), len(snap.ds.Careers))
	return append([]model.Career(nil), snap.ds.Careers[:n]...), nil
}

// Career returns one player's career.
func (s *Service) Career(_ context.Context, playerID string) (model.Career, error) {
	snap, err := s.current()
	if err != nil {
		return model.Career{}, err
	}
	c, ok := snap.careers[playerID]
	if !ok {
		return model.Career{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return c, nil
}
