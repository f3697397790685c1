// Package standardize derives z-score columns that the source did not supply.
package standardize

import (
	"github.com/kailas-cloud/carelens/internal/domain/county"
	"github.com/kailas-cloud/carelens/internal/domain/numeric"
)

// Column pairs a source metric with the z-score metric derived from it.
type Column struct {
	Source county.Metric
	Target county.Metric
}

// DefaultColumns are the standardized county columns.
var DefaultColumns = []Column{
	{Source: county.MetricSpend, Target: county.MetricZSpend},
	{Source: county.MetricQuality, Target: county.MetricZQuality},
}

// ZScores standardizes values: (v - mean) / sd, where mean and the sample
// standard deviation are taken over the non-missing entries. Missing inputs,
// an undefined sd (fewer than two values) and sd == 0 all yield missing.
func ZScores(values []*float64) []*float64 {
	present := numeric.Present(values)
	mean := numeric.Mean(present)
	sd := numeric.SampleStdDev(present)

	out := make([]*float64, len(values))
	for i, v := range values {
		if v == nil || mean == nil || sd == nil || *sd == 0 {
			continue
		}
		out[i] = numeric.Of((*v - *mean) / *sd)
	}
	return out
}

// Fill computes col.Target for every record, but only when no record
// carries a value for it yet. Detection is per column: a single existing
// value suppresses recomputation for all records. Reports whether the
// column was computed.
func Fill(records []county.Record, col Column) bool {
	for i := range records {
		if records[i].Value(col.Target) != nil {
			return false
		}
	}

	values := make([]*float64, len(records))
	for i := range records {
		values[i] = records[i].Value(col.Source)
	}
	for i, z := range ZScores(values) {
		records[i].Set(col.Target, z)
	}
	return true
}

// FillAll applies Fill for each column in order and returns the targets
// that were computed.
func FillAll(records []county.Record, cols ...Column) []county.Metric {
	var computed []county.Metric
	for _, c := range cols {
		if Fill(records, c) {
			computed = append(computed, c.Target)
		}
	}
	return computed
}
