package view

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/carelens/internal/domain/numeric"
)

// RankingRow is one region group's mean standardized spend.
type RankingRow struct {
	RegionGroup string  `json:"state"`
	Mean        float64 `json:"mean"`
	Counties    int     `json:"counties"`
	Highlight   bool    `json:"highlight"`
}

// RankingView is the region-group ranking view-model.
type RankingView struct {
	Title     string       `json:"title"`
	Caption   string       `json:"caption"`
	Highlight string       `json:"highlight"`
	Extent    [2]float64   `json:"extent"`
	Rows      []RankingRow `json:"rows"`
}

// BuildRanking averages z_spend over every county of each configured region
// group, skipping missing values, and orders groups by descending mean.
// Groups without a single value are omitted. It ignores selection and filters.
func BuildRanking(in Input) RankingView {
	allowed := make(map[string]struct{}, len(in.Settings.RegionGroups))
	for _, g := range in.Settings.RegionGroups {
		allowed[g] = struct{}{}
	}

	values := make(map[string][]float64)
	var order []string
	for _, c := range in.Index.Counties() {
		if _, ok := allowed[c.RegionGroup]; !ok || c.ZSpend == nil {
			continue
		}
		if _, seen := values[c.RegionGroup]; !seen {
			order = append(order, c.RegionGroup)
		}
		values[c.RegionGroup] = append(values[c.RegionGroup], *c.ZSpend)
	}

	rows := make([]RankingRow, 0, len(order))
	for _, g := range order {
		mean := numeric.Mean(values[g])
		if mean == nil {
			continue
		}
		rows = append(rows, RankingRow{
			RegionGroup: g,
			Mean:        *mean,
			Counties:    len(values[g]),
			Highlight:   g == in.Settings.Highlight,
		})
	}
	slices.SortStableFunc(rows, func(a, b RankingRow) int { return cmp.Compare(b.Mean, a.Mean) })

	v := RankingView{
		Title:     "State ranking",
		Caption:   "Mean county z_spend",
		Highlight: in.Settings.Highlight,
		Rows:      rows,
	}
	if len(rows) > 0 {
		v.Extent = [2]float64{rows[len(rows)-1].Mean, rows[0].Mean}
	}
	return v
}
