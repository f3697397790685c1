package view

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/carelens/internal/domain/numeric"
)

const (
	scatterHalfWidth = 1.5
	scatterMaxStars  = 5
	emptyScatterHint = "No hospitals match the current filters. " +
		"Try clearing Ownership or Search, or click a different county on the map."
)

// ScatterPoint is one hospital. Horizontal placement is XCenter; any jitter
// belongs to the renderer.
type ScatterPoint struct {
	ProviderKey string   `json:"provider_id"`
	Name        string   `json:"name"`
	CountyKey   string   `json:"fips"`
	Stars       *float64 `json:"stars"`
	Beds        *float64 `json:"beds"`
	Ownership   string   `json:"ownership,omitempty"`
	Color       string   `json:"color"`
}

// LegendEntry pairs an ownership category with its color.
type LegendEntry struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// ScatterView is the hospital quality-vs-market view-model.
// When Status is StatusEmpty only Message is meaningful.
type ScatterView struct {
	Status     Status         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Title      string         `json:"title,omitempty"`
	XCenter    float64        `json:"xCenter"`
	XDomain    [2]float64     `json:"xDomain"`
	YDomain    [2]float64     `json:"yDomain"`
	BedsExtent [2]float64     `json:"bedsExtent"`
	Points     []ScatterPoint `json:"points"`
	Legend     []LegendEntry  `json:"legend"`
}

// BuildScatter keeps hospitals located in a top-N county, then narrows by
// selected county, ownership filter and case-insensitive name search.
func BuildScatter(in Input) ScatterView {
	sel := in.State.Selection
	f := in.State.Filter
	owners := f.OwnershipSet()
	search := strings.ToLower(f.SearchText)

	var points []ScatterPoint
	for _, h := range in.Index.Hospitals() {
		if !in.TopN.Has(h.CountyKey) {
			continue
		}
		if sel.HasCounty() && h.CountyKey != sel.CountyKey {
			continue
		}
		if owners != nil {
			if _, ok := owners[h.Ownership]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(h.Name), search) {
			continue
		}
		points = append(points, ScatterPoint{
			ProviderKey: h.ProviderKey,
			Name:        h.Name,
			CountyKey:   h.CountyKey,
			Stars:       h.Stars,
			Beds:        h.Beds,
			Ownership:   h.Ownership,
			Color:       ownershipColor(in, h.Ownership),
		})
	}

	if len(points) == 0 {
		return ScatterView{Status: StatusEmpty, Message: emptyScatterHint}
	}

	v := ScatterView{
		Status:  StatusReady,
		Title:   fmt.Sprintf("Top-N counties (%d-state region)", len(in.Settings.RegionGroups)),
		YDomain: [2]float64{0, scatterMaxStars},
		Points:  points,
		Legend:  ownershipLegend(in),
	}
	if sel.HasCounty() {
		if c, ok := in.Index.County(sel.CountyKey); ok {
			v.Title = fmt.Sprintf("%s, %s", c.Name, c.RegionGroup)
			v.XCenter = numeric.Or(c.ZSpend, 0)
		}
	}
	v.XDomain = [2]float64{v.XCenter - scatterHalfWidth, v.XCenter + scatterHalfWidth}
	v.BedsExtent = bedsExtent(points)
	return v
}

// bedsExtent is the radius-scale domain; missing or zero beds count as 1.
func bedsExtent(points []ScatterPoint) [2]float64 {
	lo, hi := 0.0, 0.0
	for i, p := range points {
		b := numeric.Or(p.Beds, 0)
		if b == 0 {
			b = 1
		}
		if i == 0 || b < lo {
			lo = b
		}
		if i == 0 || b > hi {
			hi = b
		}
	}
	return [2]float64{lo, hi}
}

func ownershipColor(in Input, category string) string {
	if rank, ok := in.Index.OwnershipRank(category); ok {
		return CategoryColor(rank)
	}
	return CategoryColor(len(in.Index.OwnershipCategories()))
}

func ownershipLegend(in Input) []LegendEntry {
	cats := in.Index.OwnershipCategories()
	out := make([]LegendEntry, len(cats))
	for i, c := range cats {
		out[i] = LegendEntry{Category: c, Color: CategoryColor(i)}
	}
	return out
}
