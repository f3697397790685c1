// Package index builds the read-only lookup structures shared by every view.
package index

import (
	"slices"

	"github.com/kailas-cloud/carelens/internal/domain/county"
	"github.com/kailas-cloud/carelens/internal/domain/geo"
	"github.com/kailas-cloud/carelens/internal/domain/hospital"
	"github.com/kailas-cloud/carelens/internal/domain/procedure"
	"github.com/kailas-cloud/carelens/internal/usecase/ingest"
)

// Index is the immutable, indexed dataset. It must not be modified after Build.
type Index struct {
	counties   []county.Record
	hospitals  []hospital.Record
	features   []geo.Feature
	labels     []geo.Label
	byCounty   map[string]*county.Record
	byProvider map[string]*hospital.Record
	shares     map[string][]procedure.Share
	ownership  []string
}

// Build indexes a dataset. Duplicate county or provider keys resolve to the
// last record seen. Procedure shares are grouped in input order, not sorted.
func Build(ds ingest.Dataset) *Index {
	idx := &Index{
		counties:   ds.Counties,
		hospitals:  ds.Hospitals,
		features:   ds.Features,
		labels:     geo.RegionLabels(ds.Features),
		byCounty:   make(map[string]*county.Record, len(ds.Counties)),
		byProvider: make(map[string]*hospital.Record, len(ds.Hospitals)),
		shares:     make(map[string][]procedure.Share),
	}

	for i := range idx.counties {
		idx.byCounty[idx.counties[i].Key] = &idx.counties[i]
	}

	seen := make(map[string]struct{})
	for i := range idx.hospitals {
		h := &idx.hospitals[i]
		idx.byProvider[h.ProviderKey] = h
		if h.HasOwnership() {
			if _, ok := seen[h.Ownership]; !ok {
				seen[h.Ownership] = struct{}{}
				idx.ownership = append(idx.ownership, h.Ownership)
			}
		}
	}
	slices.Sort(idx.ownership)

	for _, s := range ds.Procedures {
		idx.shares[s.ProviderKey] = append(idx.shares[s.ProviderKey], s)
	}

	return idx
}

// Counties returns all county records in input order.
func (i *Index) Counties() []county.Record { return i.counties }

// Hospitals returns all hospital records in input order.
func (i *Index) Hospitals() []hospital.Record { return i.hospitals }

// Features returns the geography features in input order.
func (i *Index) Features() []geo.Feature { return i.features }

// RegionLabels returns the region-group label positions.
func (i *Index) RegionLabels() []geo.Label { return i.labels }

// County looks up a county by key.
func (i *Index) County(key string) (county.Record, bool) {
	c, ok := i.byCounty[key]
	if !ok {
		return county.Record{}, false
	}
	return *c, true
}

// Hospital looks up a hospital by provider key.
func (i *Index) Hospital(providerKey string) (hospital.Record, bool) {
	h, ok := i.byProvider[providerKey]
	if !ok {
		return hospital.Record{}, false
	}
	return *h, true
}

// Shares returns a copy of the provider's procedure shares in input order.
func (i *Index) Shares(providerKey string) []procedure.Share {
	return slices.Clone(i.shares[providerKey])
}

// OwnershipCategories returns the sorted, distinct, non-empty ownership categories.
func (i *Index) OwnershipCategories() []string { return slices.Clone(i.ownership) }

// OwnershipRank returns the position of a category in OwnershipCategories.
func (i *Index) OwnershipRank(category string) (int, bool) {
	n, ok := slices.BinarySearch(i.ownership, category)
	return n, ok
}
