package standardize

import (
	"math"
	"testing"

	"github.com/kailas-cloud/carelens/internal/domain/county"
)

func floatPtr(f float64) *float64 { return &f }

func ptrs(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		out[i] = floatPtr(vs[i])
	}
	return out
}

func meanAndSampleSD(vs []*float64) (mean, sd float64, n int) {
	var sum float64
	for _, v := range vs {
		if v != nil {
			sum += *v
			n++
		}
	}
	mean = sum / float64(n)
	var ss float64
	for _, v := range vs {
		if v != nil {
			ss += (*v - mean) * (*v - mean)
		}
	}
	return mean, math.Sqrt(ss / float64(n-1)), n
}

func TestZScores_Standardized(t *testing.T) {
	inputs := [][]*float64{
		ptrs(1, 2, 3, 4, 5),
		ptrs(10, 10.5, 300, -7, 42, 0.1),
		{floatPtr(3), nil, floatPtr(9), nil, floatPtr(27)},
	}

	for _, in := range inputs {
		z := ZScores(in)
		if len(z) != len(in) {
			t.Fatalf("len = %d, want %d", len(z), len(in))
		}
		for i := range in {
			if (in[i] == nil) != (z[i] == nil) {
				t.Fatalf("missing mismatch at %d", i)
			}
		}
		mean, sd, _ := meanAndSampleSD(z)
		if math.Abs(mean) > 1e-9 {
			t.Errorf("mean of z = %v, want 0", mean)
		}
		if math.Abs(sd-1) > 1e-9 {
			t.Errorf("sample sd of z = %v, want 1", sd)
		}
	}
}

func TestZScores_AllEqual(t *testing.T) {
	for _, z := range ZScores(ptrs(4, 4, 4)) {
		if z != nil {
			t.Fatalf("expected all missing, got %v", *z)
		}
	}
}

func TestZScores_Degenerate(t *testing.T) {
	if z := ZScores(ptrs(5)); z[0] != nil {
		t.Error("single value should be missing (sd undefined)")
	}
	if z := ZScores([]*float64{nil, nil}); z[0] != nil || z[1] != nil {
		t.Error("all-missing input should stay missing")
	}
	if z := ZScores(nil); len(z) != 0 {
		t.Error("nil input should give empty output")
	}
}

func TestFill_ComputesAbsentColumn(t *testing.T) {
	recs := []county.Record{
		{Key: "1", Spend: floatPtr(1)},
		{Key: "2", Spend: floatPtr(2)},
		{Key: "3", Spend: nil},
		{Key: "4", Spend: floatPtr(3)},
	}

	if !Fill(recs, Column{Source: county.MetricSpend, Target: county.MetricZSpend}) {
		t.Fatal("expected column to be computed")
	}
	if recs[0].ZSpend == nil || math.Abs(*recs[0].ZSpend+1) > 1e-12 {
		t.Errorf("z[0] = %v, want -1", recs[0].ZSpend)
	}
	if recs[1].ZSpend == nil || *recs[1].ZSpend != 0 {
		t.Errorf("z[1] = %v, want 0", recs[1].ZSpend)
	}
	if recs[2].ZSpend != nil {
		t.Error("missing spend should give missing z")
	}
}

func TestFill_SkipsWhenAnyValuePresent(t *testing.T) {
	recs := []county.Record{
		{Key: "1", Spend: floatPtr(1), ZSpend: nil},
		{Key: "2", Spend: floatPtr(2), ZSpend: floatPtr(0.7)},
		{Key: "3", Spend: floatPtr(3), ZSpend: nil},
	}

	if Fill(recs, Column{Source: county.MetricSpend, Target: county.MetricZSpend}) {
		t.Fatal("column with an existing value must not be recomputed")
	}
	if recs[0].ZSpend != nil || recs[2].ZSpend != nil {
		t.Error("records without a value must stay missing")
	}
	if *recs[1].ZSpend != 0.7 {
		t.Error("existing value overwritten")
	}
}

func TestFillAll(t *testing.T) {
	recs := []county.Record{
		{Key: "1", Spend: floatPtr(1), Quality: floatPtr(5), ZQuality: floatPtr(0.2)},
		{Key: "2", Spend: floatPtr(3), Quality: floatPtr(6)},
	}

	computed := FillAll(recs, DefaultColumns...)
	if len(computed) != 1 || computed[0] != county.MetricZSpend {
		t.Fatalf("computed = %v, want [z_spend]", computed)
	}
	if recs[1].ZQuality != nil {
		t.Error("z_quality must not be filled when the source supplied it")
	}
}
