package carelens

import (
	"context"

	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/carelens/internal/usecase/health"
	"github.com/kailas-cloud/carelens/internal/usecase/view"
)

// --- dashboardUseCase mock ---

type mockDashboardUC struct {
	loadFn    func(ctx context.Context) error
	frameFn   func() (dashboarduc.Frame, error)
	scatterFn func() (view.ScatterView, error)
	ownFn     func() ([]string, error)

	state   domstate.Snapshot
	patches []domstate.Patch
}

func (m *mockDashboardUC) ID() string { return "test-session" }

func (m *mockDashboardUC) Load(ctx context.Context) error {
	if m.loadFn == nil {
		return nil
	}
	return m.loadFn(ctx)
}

func (m *mockDashboardUC) Loaded() bool { return m.frameFn != nil }

func (m *mockDashboardUC) State() domstate.Snapshot { return m.state }

func (m *mockDashboardUC) Update(p domstate.Patch) domstate.Snapshot {
	m.patches = append(m.patches, p)
	next := m.state.Apply(p)
	next.Version = m.state.Version + 1
	m.state = next
	return next
}

func (m *mockDashboardUC) Frame() (dashboarduc.Frame, error) { return m.frameFn() }

func (m *mockDashboardUC) Map() (view.MapView, error) { return view.MapView{}, nil }

func (m *mockDashboardUC) Scatter() (view.ScatterView, error) { return m.scatterFn() }

func (m *mockDashboardUC) Procedures() (view.ProcedureView, error) { return view.ProcedureView{}, nil }

func (m *mockDashboardUC) Ranking() (view.RankingView, error) { return view.RankingView{}, nil }

func (m *mockDashboardUC) Ownerships() ([]string, error) { return m.ownFn() }

func (m *mockDashboardUC) Subscribe(func(dashboarduc.Frame)) func() { return func() {} }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testDashboard(svc dashboardUseCase) *Dashboard {
	return &Dashboard{svc: svc}
}
