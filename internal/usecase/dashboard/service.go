// Package dashboard owns one dashboard session: the loaded dataset, the
// shared state store and the view-model recomputation that follows every
// state change.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/carelens/internal/domain"
	"github.com/kailas-cloud/carelens/internal/domain/county"
	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
	"github.com/kailas-cloud/carelens/internal/metrics"
	"github.com/kailas-cloud/carelens/internal/usecase/index"
	"github.com/kailas-cloud/carelens/internal/usecase/ingest"
	"github.com/kailas-cloud/carelens/internal/usecase/standardize"
	"github.com/kailas-cloud/carelens/internal/usecase/state"
	"github.com/kailas-cloud/carelens/internal/usecase/topn"
	"github.com/kailas-cloud/carelens/internal/usecase/view"
)

// Frame is the full set of view-models for one state version.
type Frame struct {
	Version    uint64             `json:"version"`
	State      domstate.Snapshot  `json:"state"`
	Map        view.MapView       `json:"map"`
	Scatter    view.ScatterView   `json:"scatter"`
	Procedures view.ProcedureView `json:"procedures"`
	Ranking    view.RankingView   `json:"ranking"`
}

type topNKey struct {
	metric county.Metric
	n      int
}

// loaded pairs an index with the top-N sets computed from it.
type loaded struct {
	idx *index.Index

	mu   sync.Mutex
	topN map[topNKey]topn.KeySet
}

// Service is a single dashboard session.
type Service struct {
	id       string
	loader   Loader
	settings view.Settings
	logger   *zap.Logger
	store    *state.Store

	mu   sync.RWMutex
	data *loaded
}

// New creates a session. Nothing is loaded until Load succeeds.
func New(loader Loader, settings view.Settings, logger *zap.Logger) *Service {
	id := uuid.NewString()
	return &Service{
		id:       id,
		loader:   loader,
		settings: settings,
		logger:   logger.With(zap.String("session", id)),
		store:    state.New(),
	}
}

// WithInitialTopN starts the session with topN n instead of the default.
// Must be called before the session is shared.
func (s *Service) WithInitialTopN(n int) *Service {
	if n < domstate.MinTopN || n > domstate.MaxTopN {
		return s
	}
	initial := domstate.Initial()
	initial.Filter.TopN = n
	s.store = state.NewWith(initial)
	return s
}

// ID returns the session identifier.
func (s *Service) ID() string { return s.id }

// Settings returns the presentation settings of the session.
func (s *Service) Settings() view.Settings { return s.settings }

// Load fetches, ingests, standardizes and indexes the dataset. A failed load
// leaves a previously loaded dataset in place.
func (s *Service) Load(ctx context.Context) error {
	start := time.Now()

	idx, err := s.build(ctx)
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Dataset load failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return err
	}
	metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()

	s.mu.Lock()
	s.data = &loaded{idx: idx, topN: make(map[topNKey]topn.KeySet)}
	s.mu.Unlock()

	s.logger.Info("Dataset loaded",
		zap.Int("counties", len(idx.Counties())),
		zap.Int("hospitals", len(idx.Hospitals())),
		zap.Int("features", len(idx.Features())),
		zap.Int("ownership_categories", len(idx.OwnershipCategories())),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Service) build(ctx context.Context) (*index.Index, error) {
	src, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	ds, err := ingest.Ingest(src)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	if filled := standardize.FillAll(ds.Counties, standardize.DefaultColumns...); len(filled) > 0 {
		s.logger.Debug("Computed standardized columns", zap.Any("columns", filled))
	}

	metrics.DatasetRecords.WithLabelValues(domain.SourceCounties).Set(float64(len(ds.Counties)))
	metrics.DatasetRecords.WithLabelValues(domain.SourceHospitals).Set(float64(len(ds.Hospitals)))
	metrics.DatasetRecords.WithLabelValues(domain.SourceProcedures).Set(float64(len(ds.Procedures)))
	metrics.DatasetRecords.WithLabelValues(domain.SourceGeography).Set(float64(len(ds.Features)))

	return index.Build(ds), nil
}

// Loaded reports whether a dataset is available.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// Ping returns ErrNotLoaded until the dataset is available.
func (s *Service) Ping(_ context.Context) error {
	if !s.Loaded() {
		return domain.ErrNotLoaded
	}
	return nil
}

// State returns the current state snapshot.
func (s *Service) State() domstate.Snapshot { return s.store.Snapshot() }

// Update merges a patch into the shared state and returns the new snapshot.
// Subscribers are notified before Update returns.
func (s *Service) Update(p domstate.Patch) domstate.Snapshot {
	kind := "mixed"
	switch {
	case p.TouchesSelection() && !p.TouchesFilter():
		kind = "selection"
	case p.TouchesFilter() && !p.TouchesSelection():
		kind = "filter"
	}
	metrics.StateUpdatesTotal.WithLabelValues(kind).Inc()

	snap := s.store.Update(p)
	s.logger.Debug("State updated",
		zap.Uint64("version", snap.Version),
		zap.String("kind", kind),
		zap.String("county", snap.Selection.CountyKey),
		zap.String("provider", snap.Selection.ProviderKey),
		zap.Int("top_n", snap.Filter.TopN),
	)
	return snap
}

// Frame builds every view-model for the current state.
func (s *Service) Frame() (Frame, error) {
	d, err := s.dataset()
	if err != nil {
		return Frame{}, err
	}
	return s.frame(d, s.store.Snapshot()), nil
}

// Map builds the choropleth view-model for the current state.
func (s *Service) Map() (view.MapView, error) {
	in, err := s.input()
	if err != nil {
		return view.MapView{}, err
	}
	return timed("map", func() view.MapView { return view.BuildMap(in) }), nil
}

// Scatter builds the hospital scatter view-model for the current state.
func (s *Service) Scatter() (view.ScatterView, error) {
	in, err := s.input()
	if err != nil {
		return view.ScatterView{}, err
	}
	return timed("scatter", func() view.ScatterView { return view.BuildScatter(in) }), nil
}

// Procedures builds the procedure-share view-model for the current state.
func (s *Service) Procedures() (view.ProcedureView, error) {
	in, err := s.input()
	if err != nil {
		return view.ProcedureView{}, err
	}
	return timed("procedures", func() view.ProcedureView { return view.BuildProcedures(in) }), nil
}

// Ranking builds the region-group ranking view-model.
func (s *Service) Ranking() (view.RankingView, error) {
	in, err := s.input()
	if err != nil {
		return view.RankingView{}, err
	}
	return timed("ranking", func() view.RankingView { return view.BuildRanking(in) }), nil
}

// Ownerships returns the sorted ownership categories of the dataset.
func (s *Service) Ownerships() ([]string, error) {
	d, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return d.idx.OwnershipCategories(), nil
}

// Subscribe registers fn to receive a fresh Frame after every state change.
// Changes made before the dataset is loaded are not delivered.
func (s *Service) Subscribe(fn func(Frame)) (unsubscribe func()) {
	metrics.Subscribers.Inc()
	unsub := s.store.Subscribe(func(snap domstate.Snapshot) {
		d, err := s.dataset()
		if err != nil {
			return
		}
		fn(s.frame(d, snap))
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			unsub()
			metrics.Subscribers.Dec()
		})
	}
}

func (s *Service) dataset() (*loaded, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, domain.ErrNotLoaded
	}
	return s.data, nil
}

func (s *Service) input() (view.Input, error) {
	d, err := s.dataset()
	if err != nil {
		return view.Input{}, err
	}
	return s.inputFor(d, s.store.Snapshot()), nil
}

func (s *Service) inputFor(d *loaded, snap domstate.Snapshot) view.Input {
	return view.Input{
		Index:    d.idx,
		State:    snap,
		TopN:     d.keys(s.settings, snap.Filter.TopN),
		Settings: s.settings,
	}
}

func (s *Service) frame(d *loaded, snap domstate.Snapshot) Frame {
	in := s.inputFor(d, snap)
	return Frame{
		Version:    snap.Version,
		State:      snap,
		Map:        timed("map", func() view.MapView { return view.BuildMap(in) }),
		Scatter:    timed("scatter", func() view.ScatterView { return view.BuildScatter(in) }),
		Procedures: timed("procedures", func() view.ProcedureView { return view.BuildProcedures(in) }),
		Ranking:    timed("ranking", func() view.RankingView { return view.BuildRanking(in) }),
	}
}

// keys memoizes the top-N set per (metric, N).
func (d *loaded) keys(settings view.Settings, n int) topn.KeySet {
	k := topNKey{metric: settings.RankMetric, n: n}

	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.topN[k]; ok {
		metrics.TopNCacheTotal.WithLabelValues("hit").Inc()
		return set
	}
	metrics.TopNCacheTotal.WithLabelValues("miss").Inc()
	set := topn.Keys(d.idx.Counties(), k.metric, n, settings.RegionGroups)
	d.topN[k] = set
	return set
}

func timed[T any](name string, build func() T) T {
	start := time.Now()
	v := build()
	metrics.ViewBuildDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return v
}
