package carelens

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/carelens/internal/domain/county"
	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
	datasetrepo "github.com/kailas-cloud/carelens/internal/repository/dataset"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/carelens/internal/usecase/health"
	"github.com/kailas-cloud/carelens/internal/usecase/view"
	"github.com/kailas-cloud/carelens/internal/version"
)

// dashboardUseCase is the internal interface, swapped out in tests.
type dashboardUseCase interface {
	ID() string
	Load(ctx context.Context) error
	Loaded() bool
	State() domstate.Snapshot
	Update(p domstate.Patch) domstate.Snapshot
	Frame() (dashboarduc.Frame, error)
	Map() (view.MapView, error)
	Scatter() (view.ScatterView, error)
	Procedures() (view.ProcedureView, error)
	Ranking() (view.RankingView, error)
	Ownerships() ([]string, error)
	Subscribe(fn func(dashboarduc.Frame)) (unsubscribe func())
}

// Dashboard is one dashboard session: a loaded dataset plus the shared
// selection and filter state. Safe for concurrent use.
type Dashboard struct {
	svc       dashboardUseCase
	healthSvc healthUseCase
	obs       *observer
}

// Open creates a session and loads the dataset. The context bounds the load.
func Open(ctx context.Context, opts ...Option) (*Dashboard, error) {
	cfg := &dashboardConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	settings, err := cfg.settings()
	if err != nil {
		return nil, err
	}

	fsys := cfg.fsys
	if fsys == nil {
		if cfg.dataDir == "" {
			return nil, errors.New("carelens: dataset location required (use WithDataDir or WithFS)")
		}
		fsys = os.DirFS(cfg.dataDir)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	repo := datasetrepo.New(fsys, cfg.datasetFiles(), zap.NewNop())
	svc := dashboarduc.New(repo, settings, zap.NewNop()).WithInitialTopN(cfg.topN)

	d := &Dashboard{
		svc:       svc,
		healthSvc: healthuc.New(svc, version.Version),
		obs:       obs.withSession(svc.ID()),
	}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *dashboardConfig) settings() (view.Settings, error) {
	s := view.DefaultSettings()
	if len(c.regionGroups) > 0 {
		s.RegionGroups = c.regionGroups
	}
	if c.highlight != "" {
		s.Highlight = c.highlight
	}
	if c.rankMetric != "" {
		m, err := county.ParseMetric(c.rankMetric)
		if err != nil {
			return view.Settings{}, fmt.Errorf("carelens: rank metric: %w", err)
		}
		s.RankMetric = m
	}
	if c.colorMin != 0 || c.colorMax != 0 {
		if c.colorMin >= c.colorMax {
			return view.Settings{}, fmt.Errorf("carelens: color domain [%v, %v] is empty", c.colorMin, c.colorMax)
		}
		s.ColorMin, s.ColorMax = c.colorMin, c.colorMax
	}
	if c.topN != 0 && (c.topN < MinTopN || c.topN > MaxTopN) {
		return view.Settings{}, fmt.Errorf("carelens: initial topN %d: %w", c.topN, ErrInvalidTopN)
	}
	return s, nil
}

func (c *dashboardConfig) datasetFiles() datasetrepo.Files {
	f := datasetrepo.DefaultFiles()
	if c.files.Counties != "" {
		f.Counties = c.files.Counties
	}
	if c.files.Hospitals != "" {
		f.Hospitals = c.files.Hospitals
	}
	if c.files.Procedures != "" {
		f.Procedures = c.files.Procedures
	}
	if c.files.Geography != "" {
		f.Geography = c.files.Geography
	}
	return f
}

// ID returns the session identifier.
func (d *Dashboard) ID() string { return d.svc.ID() }

// Reload reads the datasets again. On failure the previous dataset stays in
// place and the error wraps ErrLoadFailed.
func (d *Dashboard) Reload(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { d.obs.observe("load", start, err) }()

	if err = d.svc.Load(ctx); err != nil {
		return fmt.Errorf("carelens: load dataset: %w", err)
	}
	return nil
}

// Loaded reports whether a dataset is available.
func (d *Dashboard) Loaded() bool { return d.svc.Loaded() }

// State returns the current selection and filters.
func (d *Dashboard) State() State { return d.svc.State() }

// SelectCounty selects a county and clears the hospital, as a map click does.
// An empty fips clears the county.
func (d *Dashboard) SelectCounty(fips string) State {
	return d.apply("select_county", domstate.SelectCounty(fips))
}

// SelectHospital selects a hospital together with its county, as a scatter
// click does.
func (d *Dashboard) SelectHospital(countyFips, providerID string) State {
	return d.apply("select_hospital", domstate.SelectHospital(countyFips, providerID))
}

// ClearSelection clears both the county and the hospital.
func (d *Dashboard) ClearSelection() State {
	return d.apply("clear_selection", domstate.ClearSelection())
}

// SetTopN changes the per-group county count. Values outside
// [MinTopN, MaxTopN] return ErrInvalidTopN and leave the state unchanged.
func (d *Dashboard) SetTopN(n int) (s State, err error) {
	start := time.Now()
	defer func() { d.obs.observe("set_top_n", start, err) }()

	p, err := domstate.New(domstate.Fields{TopN: &n})
	if err != nil {
		return d.svc.State(), fmt.Errorf("carelens: %w", err)
	}
	return d.update(p), nil
}

// SetOwnership restricts the scatter to the given ownership categories.
// An empty list removes the filter.
func (d *Dashboard) SetOwnership(categories []string) State {
	cats := append([]string{}, categories...)
	p, _ := domstate.New(domstate.Fields{Ownership: &cats})
	return d.apply("set_ownership", p)
}

// SetSearch sets the hospital name search. Matching is case-insensitive.
func (d *Dashboard) SetSearch(text string) State {
	p, _ := domstate.New(domstate.Fields{SearchText: &text})
	return d.apply("set_search", p)
}

// Frame builds every view-model for the current state.
func (d *Dashboard) Frame() (f Frame, err error) {
	start := time.Now()
	defer func() { d.obs.observe("frame", start, err) }()

	if f, err = d.svc.Frame(); err != nil {
		return Frame{}, fmt.Errorf("carelens: frame: %w", err)
	}
	return f, nil
}

// Map builds the county choropleth view-model.
func (d *Dashboard) Map() (MapView, error) {
	return observed(d.obs, "map", d.svc.Map)
}

// Scatter builds the hospital scatter view-model.
func (d *Dashboard) Scatter() (ScatterView, error) {
	return observed(d.obs, "scatter", d.svc.Scatter)
}

// Procedures builds the procedure-share view-model of the selected hospital.
func (d *Dashboard) Procedures() (ProcedureView, error) {
	return observed(d.obs, "procedures", d.svc.Procedures)
}

// Ranking builds the region-group ranking view-model.
func (d *Dashboard) Ranking() (RankingView, error) {
	return observed(d.obs, "ranking", d.svc.Ranking)
}

// Ownerships lists the ownership categories present in the dataset, sorted.
func (d *Dashboard) Ownerships() ([]string, error) {
	return observed(d.obs, "ownerships", d.svc.Ownerships)
}

// Subscribe calls fn with a fresh Frame after every state change, before the
// changing call returns. fn must not change the state itself.
func (d *Dashboard) Subscribe(fn func(Frame)) (unsubscribe func()) {
	return d.svc.Subscribe(func(f dashboarduc.Frame) {
		d.obs.frameDelivered()
		fn(f)
	})
}

func (d *Dashboard) apply(op string, p domstate.Patch) State {
	start := time.Now()
	s := d.update(p)
	d.obs.observe(op, start, nil)
	return s
}

func (d *Dashboard) update(p domstate.Patch) State {
	s := d.svc.Update(p)
	d.obs.stateChanged(s)
	return s
}

func observed[T any](obs *observer, op string, build func() (T, error)) (v T, err error) {
	start := time.Now()
	defer func() { obs.observe(op, start, err) }()

	if v, err = build(); err != nil {
		var zero T
		return zero, fmt.Errorf("carelens: %s: %w", op, err)
	}
	return v, nil
}
