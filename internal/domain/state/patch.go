package state

import (
	"fmt"

	"github.com/kailas-cloud/carelens/internal/domain"
	"github.com/kailas-cloud/carelens/internal/domain/key"
)

// Fields are the raw inputs of a patch. Nil fields are unchanged.
// An empty CountyKey or ProviderKey clears that part of the selection.
type Fields struct {
	CountyKey   *string
	ProviderKey *string
	TopN        *int
	Ownership   *[]string
	SearchText  *string
}

// Patch is a validated partial state update.
type Patch struct {
	countyKey    *string
	providerKey  *string
	topN         *int
	ownership    []string
	hasOwnership bool
	searchText   *string
}

// New validates and creates a Patch. At least one field must be provided;
// topN must lie in [MinTopN, MaxTopN]. Keys are normalized and search text
// is case-folded.
func New(f Fields) (Patch, error) {
	if f.CountyKey == nil && f.ProviderKey == nil && f.TopN == nil && f.Ownership == nil && f.SearchText == nil {
		return Patch{}, fmt.Errorf("%w: at least one field must be provided", domain.ErrInvalidPatch)
	}
	if f.TopN != nil && (*f.TopN < MinTopN || *f.TopN > MaxTopN) {
		return Patch{}, fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrInvalidTopN, *f.TopN, MinTopN, MaxTopN)
	}

	var p Patch
	if f.CountyKey != nil {
		p.countyKey = normalized(*f.CountyKey, key.County)
	}
	if f.ProviderKey != nil {
		p.providerKey = normalized(*f.ProviderKey, key.Provider)
	}
	if f.TopN != nil {
		n := *f.TopN
		p.topN = &n
	}
	if f.Ownership != nil {
		p.hasOwnership = true
		p.ownership = make([]string, 0, len(*f.Ownership))
		seen := make(map[string]struct{}, len(*f.Ownership))
		for _, o := range *f.Ownership {
			if _, dup := seen[o]; o == "" || dup {
				continue
			}
			seen[o] = struct{}{}
			p.ownership = append(p.ownership, o)
		}
	}
	if f.SearchText != nil {
		s := FoldSearch(*f.SearchText)
		p.searchText = &s
	}
	return p, nil
}

// SelectCounty selects a county and clears the provider, as a map click does.
func SelectCounty(countyKey string) Patch {
	p, _ := New(Fields{CountyKey: &countyKey, ProviderKey: new(string)})
	return p
}

// SelectHospital selects a hospital together with its county, as a scatter click does.
func SelectHospital(countyKey, providerKey string) Patch {
	p, _ := New(Fields{CountyKey: &countyKey, ProviderKey: &providerKey})
	return p
}

// ClearSelection clears both selection keys.
func ClearSelection() Patch {
	p, _ := New(Fields{CountyKey: new(string), ProviderKey: new(string)})
	return p
}

// CountyKey returns the new county key, or nil if unchanged.
func (p Patch) CountyKey() *string { return p.countyKey }

// ProviderKey returns the new provider key, or nil if unchanged.
func (p Patch) ProviderKey() *string { return p.providerKey }

// TopN returns the new topN, or nil if unchanged.
func (p Patch) TopN() *int { return p.topN }

// Ownership returns the new ownership filter (valid when HasOwnership).
func (p Patch) Ownership() []string { return p.ownership }

// HasOwnership reports whether the patch replaces the ownership filter.
func (p Patch) HasOwnership() bool { return p.hasOwnership }

// SearchText returns the new folded search text, or nil if unchanged.
func (p Patch) SearchText() *string { return p.searchText }

// TouchesSelection reports whether the patch changes the selection.
func (p Patch) TouchesSelection() bool { return p.countyKey != nil || p.providerKey != nil }

// TouchesFilter reports whether the patch changes any filter.
func (p Patch) TouchesFilter() bool {
	return p.topN != nil || p.hasOwnership || p.searchText != nil
}

func normalized(raw string, norm func(string) string) *string {
	if raw == "" {
		return &raw
	}
	v := norm(raw)
	return &v
}
