// Package view builds the per-view data models from the indexed dataset and
// the current state. Every builder is pure and recomputes from scratch.
package view

import (
	"github.com/kailas-cloud/carelens/internal/domain/county"
	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
	"github.com/kailas-cloud/carelens/internal/usecase/index"
	"github.com/kailas-cloud/carelens/internal/usecase/topn"
)

// Status distinguishes populated view-models from placeholder variants.
type Status string

const (
	// StatusReady means the view has data to draw.
	StatusReady Status = "ready"
	// StatusEmpty means filtering left nothing to draw.
	StatusEmpty Status = "empty"
	// StatusNoSelection means the view needs a selection first.
	StatusNoSelection Status = "no_selection"
	// StatusNoData means the selection has no rows behind it.
	StatusNoData Status = "no_data"
)

// Settings are the fixed presentation parameters of a dashboard.
type Settings struct {
	RegionGroups []string
	Highlight    string
	RankMetric   county.Metric
	ColorMin     float64
	ColorMax     float64
}

// DefaultSettings mirror the five-state Great Lakes dashboard.
func DefaultSettings() Settings {
	return Settings{
		RegionGroups: []string{"MI", "OH", "IN", "IL", "WI"},
		Highlight:    "MI",
		RankMetric:   county.MetricDischargesSum,
		ColorMin:     -2,
		ColorMax:     2,
	}
}

// Input is everything a builder may read.
type Input struct {
	Index    *index.Index
	State    domstate.Snapshot
	TopN     topn.KeySet
	Settings Settings
}
