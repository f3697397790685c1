// Package numeric coerces raw field values into optional reals.
// A nil *float64 is the explicit missing value used across the dataset.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Parse converts a raw field into a value. Blank, unparseable and
// non-finite inputs yield nil; Parse never fails.
func Parse(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Of returns a pointer to v.
func Of(v float64) *float64 { return &v }

// Or returns the value or def when missing.
func Or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Present filters out missing values.
func Present(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Mean returns the arithmetic mean of vs, or nil for an empty slice.
func Mean(vs []float64) *float64 {
	if len(vs) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return Of(sum / float64(len(vs)))
}

// SampleStdDev returns the sample (n-1) standard deviation of vs,
// or nil when fewer than two values are present.
func SampleStdDev(vs []float64) *float64 {
	if len(vs) < 2 {
		return nil
	}
	mean := *Mean(vs)
	var ss float64
	for _, v := range vs {
		d := v - mean
		ss += d * d
	}
	return Of(math.Sqrt(ss / float64(len(vs)-1)))
}
