package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/kailas-cloud/carelens/internal/domain/key"
)

// Property names read from each GeoJSON feature.
const (
	PropKey         = "fips"
	PropKeyFallback = "GEOID"
	PropName        = "county_name"
	PropRegionGroup = "state"
)

// Feature is one county polygon keyed by the normalized county key.
// The geometry is opaque to the engine apart from centroid placement.
type Feature struct {
	Key         string
	Name        string
	RegionGroup string
	Geometry    orb.Geometry
}

// Point is a lon/lat position.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Label is a region-group caption placed at the mean of its features' centroids.
type Label struct {
	RegionGroup string `json:"state"`
	Position    Point  `json:"position"`
}

// Parse decodes a GeoJSON feature collection. Feature keys are normalized
// like county keys so they join against county records.
func Parse(data []byte) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		raw := propString(f.Properties, PropKey)
		if raw == "" {
			raw = propString(f.Properties, PropKeyFallback)
		}
		features = append(features, Feature{
			Key:         key.County(raw),
			Name:        propString(f.Properties, PropName),
			RegionGroup: propString(f.Properties, PropRegionGroup),
			Geometry:    f.Geometry,
		})
	}
	return features, nil
}

// Centroid returns the planar centroid of the feature geometry.
// ok is false for empty geometries and non-finite or out-of-range results.
func Centroid(f Feature) (Point, bool) {
	if f.Geometry == nil {
		return Point{}, false
	}
	c, _ := planar.CentroidArea(f.Geometry)
	p := Point{Lon: c.Lon(), Lat: c.Lat()}
	if !finite(p.Lon) || !finite(p.Lat) || !ValidateCoordinates(p.Lat, p.Lon) {
		return Point{}, false
	}
	return p, true
}

// RegionLabels groups features by region group in first-seen order and
// averages the valid centroids of each group. Groups without a valid
// centroid get no label.
func RegionLabels(features []Feature) []Label {
	type acc struct {
		lon, lat float64
		n        int
	}
	order := make([]string, 0)
	sums := make(map[string]*acc)
	for _, f := range features {
		a, seen := sums[f.RegionGroup]
		if !seen {
			a = &acc{}
			sums[f.RegionGroup] = a
			order = append(order, f.RegionGroup)
		}
		if p, ok := Centroid(f); ok {
			a.lon += p.Lon
			a.lat += p.Lat
			a.n++
		}
	}

	labels := make([]Label, 0, len(order))
	for _, g := range order {
		a := sums[g]
		if a.n == 0 {
			continue
		}
		labels = append(labels, Label{
			RegionGroup: g,
			Position:    Point{Lon: a.lon / float64(a.n), Lat: a.lat / float64(a.n)},
		})
	}
	return labels
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// propString reads a property as text; numeric codes are formatted without
// a fractional part so 26081 and "26081" normalize the same way.
func propString(props geojson.Properties, name string) string {
	switch v := props[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
