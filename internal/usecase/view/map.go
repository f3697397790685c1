package view

import (
	"fmt"

	"github.com/kailas-cloud/carelens/internal/domain/geo"
)

// RegionClass classifies a map region against the dataset and the top-N set.
type RegionClass string

const (
	// RegionNoData means no county record matches the feature.
	RegionNoData RegionClass = "no_data"
	// RegionOutsideTopN means the county is not in the current top-N set.
	RegionOutsideTopN RegionClass = "outside_top_n"
	// RegionTopN means the county is in the current top-N set.
	RegionTopN RegionClass = "top_n"
)

// legendSteps is the number of gradient stops in the map legend.
const legendSteps = 11

// MapRegion is one geography feature with its resolved county data.
type MapRegion struct {
	Key         string       `json:"fips"`
	Name        string       `json:"county_name"`
	RegionGroup string       `json:"state"`
	Class       RegionClass  `json:"class"`
	ZSpend      *float64     `json:"z_spend"`
	ZQuality    *float64     `json:"z_quality"`
	Color       *RegionColor `json:"color,omitempty"`
}

// RegionColor is the fill of a top-N region with a known standardized spend.
type RegionColor struct {
	Value float64 `json:"value"`
	T     float64 `json:"t"`
	Hex   string  `json:"hex"`
}

// LegendStop is one gradient stop of the map legend.
type LegendStop struct {
	Offset float64 `json:"offset"`
	Value  float64 `json:"value"`
	Hex    string  `json:"hex"`
}

// Legend describes the sequential spend scale.
type Legend struct {
	Min        float64      `json:"min"`
	Max        float64      `json:"max"`
	Caption    string       `json:"caption"`
	Subcaption string       `json:"subcaption"`
	Stops      []LegendStop `json:"stops"`
}

// MapView is the choropleth view-model.
type MapView struct {
	Title        string      `json:"title"`
	TopN         int         `json:"topN"`
	Regions      []MapRegion `json:"regions"`
	HighlightKey string      `json:"highlightFips,omitempty"`
	Labels       []geo.Label `json:"labels"`
	Legend       Legend      `json:"legend"`
}

// BuildMap classifies every feature and colors the top-N counties by
// standardized spend. The selected county is highlighted only when a
// feature carries its key.
func BuildMap(in Input) MapView {
	s := in.Settings
	features := in.Index.Features()
	selected := in.State.Selection.CountyKey

	v := MapView{
		Title:   fmt.Sprintf("Top %d counties per state by total discharges", in.State.Filter.TopN),
		TopN:    in.State.Filter.TopN,
		Regions: make([]MapRegion, 0, len(features)),
		Labels:  in.Index.RegionLabels(),
		Legend:  buildLegend(s.ColorMin, s.ColorMax),
	}

	for _, f := range features {
		if selected != "" && f.Key == selected {
			v.HighlightKey = selected
		}

		c, ok := in.Index.County(f.Key)
		if !ok {
			v.Regions = append(v.Regions, MapRegion{
				Key:         f.Key,
				Name:        f.Name,
				RegionGroup: f.RegionGroup,
				Class:       RegionNoData,
			})
			continue
		}

		r := MapRegion{
			Key:         c.Key,
			Name:        c.Name,
			RegionGroup: c.RegionGroup,
			Class:       RegionOutsideTopN,
			ZSpend:      c.ZSpend,
			ZQuality:    c.ZQuality,
		}
		if in.TopN.Has(c.Key) {
			r.Class = RegionTopN
			if c.ZSpend != nil {
				t := normalize(*c.ZSpend, s.ColorMin, s.ColorMax)
				r.Color = &RegionColor{Value: *c.ZSpend, T: t, Hex: SequentialColor(t)}
			}
		}
		v.Regions = append(v.Regions, r)
	}
	return v
}

func buildLegend(lo, hi float64) Legend {
	l := Legend{
		Min:        lo,
		Max:        hi,
		Caption:    "County z_spend",
		Subcaption: "(standardized spend)",
		Stops:      make([]LegendStop, legendSteps),
	}
	for i := range l.Stops {
		t := float64(i) / float64(legendSteps-1)
		l.Stops[i] = LegendStop{Offset: t, Value: lo + t*(hi-lo), Hex: SequentialColor(t)}
	}
	return l
}
