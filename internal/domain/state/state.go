// Package state defines the shared selection and filter state of a
// dashboard session.
package state

import (
	"slices"
	"strings"
)

// TopN bounds and default.
const (
	MinTopN     = 1
	MaxTopN     = 50
	DefaultTopN = 10
)

// Selection is the current drill-down target. An empty key means nothing
// is selected. ProviderKey is not required to belong to CountyKey.
type Selection struct {
	CountyKey   string `json:"countyFips,omitempty"`
	ProviderKey string `json:"providerId,omitempty"`
}

// HasCounty reports whether a county is selected.
func (s Selection) HasCounty() bool { return s.CountyKey != "" }

// HasProvider reports whether a provider is selected.
func (s Selection) HasProvider() bool { return s.ProviderKey != "" }

// Filter holds the user-controlled filters. SearchText is stored case-folded.
type Filter struct {
	TopN       int      `json:"topN"`
	Ownership  []string `json:"ownership"`
	SearchText string   `json:"search"`
}

// OwnershipSet returns the ownership filter as a lookup set; nil means no filter.
func (f Filter) OwnershipSet() map[string]struct{} {
	if len(f.Ownership) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(f.Ownership))
	for _, o := range f.Ownership {
		set[o] = struct{}{}
	}
	return set
}

// Snapshot is a consistent copy of the whole state at one version.
type Snapshot struct {
	Version   uint64    `json:"version"`
	Selection Selection `json:"selection"`
	Filter    Filter    `json:"filter"`
}

// Initial returns the default state: nothing selected, default topN, no filters.
func Initial() Snapshot {
	return Snapshot{Filter: Filter{TopN: DefaultTopN, Ownership: []string{}}}
}

// Clone returns a deep copy so callers cannot alias the ownership slice.
func (s Snapshot) Clone() Snapshot {
	s.Filter.Ownership = slices.Clone(s.Filter.Ownership)
	if s.Filter.Ownership == nil {
		s.Filter.Ownership = []string{}
	}
	return s
}

// Apply returns the snapshot with the patch shallow-merged in.
// Fields absent from the patch keep their current values.
func (s Snapshot) Apply(p Patch) Snapshot {
	out := s.Clone()
	if v := p.CountyKey(); v != nil {
		out.Selection.CountyKey = *v
	}
	if v := p.ProviderKey(); v != nil {
		out.Selection.ProviderKey = *v
	}
	if v := p.TopN(); v != nil {
		out.Filter.TopN = *v
	}
	if p.HasOwnership() {
		out.Filter.Ownership = slices.Clone(p.Ownership())
		if out.Filter.Ownership == nil {
			out.Filter.Ownership = []string{}
		}
	}
	if v := p.SearchText(); v != nil {
		out.Filter.SearchText = *v
	}
	return out
}

// FoldSearch normalizes free-text search input.
func FoldSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
