package view

import (
	"fmt"
	"math"
	"strconv"
)

// sequential is the yellow-orange-red ramp used for standardized spend.
var sequential = []string{
	"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c",
	"#fc4e2a", "#e31a1c", "#bd0026", "#800026",
}

// categorical is the ten-color palette for ownership categories.
var categorical = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// normalize maps v onto [0,1] over [lo,hi], clamped.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	t := (v - lo) / (hi - lo)
	return math.Max(0, math.Min(1, t))
}

// SequentialColor interpolates the sequential ramp at t in [0,1].
func SequentialColor(t float64) string {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(sequential)-1)
	i := int(math.Floor(pos))
	if i >= len(sequential)-1 {
		return sequential[len(sequential)-1]
	}
	return mix(sequential[i], sequential[i+1], pos-float64(i))
}

// CategoryColor returns the palette color for the category at position rank
// of an ordered domain. Categories outside the domain take the slot after it.
func CategoryColor(rank int) string {
	return categorical[rank%len(categorical)]
}

func mix(a, b string, f float64) string {
	ar, ag, ab := rgb(a)
	br, bg, bb := rgb(b)
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return fmt.Sprintf("#%02x%02x%02x", lerp(ar, br), lerp(ag, bg), lerp(ab, bb))
}

func rgb(hex string) (r, g, b uint8) {
	v, _ := strconv.ParseUint(hex[1:], 16, 32)
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
