package carelens

import (
	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
	dashboarduc "github.com/kailas-cloud/carelens/internal/usecase/dashboard"
	"github.com/kailas-cloud/carelens/internal/usecase/view"
)

// TopN bounds.
const (
	MinTopN = domstate.MinTopN
	MaxTopN = domstate.MaxTopN
)

// State is a versioned snapshot of the selection and filters.
type State = domstate.Snapshot

// Frame holds every view-model for one state version.
type Frame = dashboarduc.Frame

// View-model types.
type (
	MapView       = view.MapView
	MapRegion     = view.MapRegion
	ScatterView   = view.ScatterView
	ScatterPoint  = view.ScatterPoint
	ProcedureView = view.ProcedureView
	ProcedureBar  = view.ProcedureBar
	RankingView   = view.RankingView
	RankingRow    = view.RankingRow
)

// View statuses.
const (
	StatusReady       = view.StatusReady
	StatusEmpty       = view.StatusEmpty
	StatusNoSelection = view.StatusNoSelection
	StatusNoData      = view.StatusNoData
)
