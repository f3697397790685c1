package numeric

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"integer", "42", Of(42)},
		{"real", "3.25", Of(3.25)},
		{"padded", " 7.5 ", Of(7.5)},
		{"negative", "-1.5", Of(-1.5)},
		{"garbage", "n/a", nil},
		{"nan", "NaN", nil},
		{"inf", "Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestOr(t *testing.T) {
	if Or(nil, 3) != 3 {
		t.Error("Or(nil, 3) should return default")
	}
	if Or(Of(1), 3) != 1 {
		t.Error("Or(1, 3) should return value")
	}
}

func TestPresent(t *testing.T) {
	got := Present([]*float64{Of(1), nil, Of(2)})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Present() = %v", got)
	}
}

func TestMeanAndStdDev(t *testing.T) {
	vs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if m := Mean(vs); m == nil || *m != 5 {
		t.Fatalf("Mean() = %v, want 5", m)
	}
	sd := SampleStdDev(vs)
	if sd == nil {
		t.Fatal("SampleStdDev() = nil")
	}
	if want := math.Sqrt(32.0 / 7.0); math.Abs(*sd-want) > 1e-12 {
		t.Errorf("SampleStdDev() = %v, want %v", *sd, want)
	}
}

func TestMeanAndStdDev_Degenerate(t *testing.T) {
	if Mean(nil) != nil {
		t.Error("Mean(nil) should be nil")
	}
	if SampleStdDev([]float64{1}) != nil {
		t.Error("SampleStdDev of one value should be nil")
	}
}
