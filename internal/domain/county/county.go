// Package county defines the per-county market record.
package county

import (
	"fmt"

	"github.com/kailas-cloud/carelens/internal/domain"
)

// Record is one county. Key is unique across the loaded collection.
// Nil numeric fields are missing values.
type Record struct {
	Key           string   `json:"fips"`
	RegionGroup   string   `json:"state"`
	Name          string   `json:"county_name"`
	Spend         *float64 `json:"spend"`
	Quality       *float64 `json:"quality"`
	ZSpend        *float64 `json:"z_spend"`
	ZQuality      *float64 `json:"z_quality"`
	BedsSum       *float64 `json:"beds_sum"`
	DischargesSum *float64 `json:"discharges_sum"`
}

// Metric names a numeric county column.
type Metric string

// Known county metrics. Values match the source column names.
const (
	MetricSpend         Metric = "spend"
	MetricQuality       Metric = "quality_bedweighted"
	MetricZSpend        Metric = "z_spend"
	MetricZQuality      Metric = "z_quality"
	MetricBedsSum       Metric = "beds_sum"
	MetricDischargesSum Metric = "discharges_sum"
)

var metrics = map[Metric]struct{}{
	MetricSpend:         {},
	MetricQuality:       {},
	MetricZSpend:        {},
	MetricZQuality:      {},
	MetricBedsSum:       {},
	MetricDischargesSum: {},
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := metrics[m]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMetric, s)
	}
	return m, nil
}

// Value returns the record's value for m. Unknown metrics are missing.
func (r *Record) Value(m Metric) *float64 {
	if p := r.field(m); p != nil {
		return *p
	}
	return nil
}

// Set assigns the record's value for m. Unknown metrics are ignored.
func (r *Record) Set(m Metric, v *float64) {
	if p := r.field(m); p != nil {
		*p = v
	}
}

func (r *Record) field(m Metric) **float64 {
	switch m {
	case MetricSpend:
		return &r.Spend
	case MetricQuality:
		return &r.Quality
	case MetricZSpend:
		return &r.ZSpend
	case MetricZQuality:
		return &r.ZQuality
	case MetricBedsSum:
		return &r.BedsSum
	case MetricDischargesSum:
		return &r.DischargesSum
	default:
		return nil
	}
}
