// Package topn selects the highest-ranked counties within each region group.
package topn

import (
	"slices"

	"github.com/kailas-cloud/carelens/internal/domain/county"
	"github.com/kailas-cloud/carelens/internal/domain/numeric"
)

// KeySet is a set of county keys.
type KeySet map[string]struct{}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of keys.
func (s KeySet) Len() int { return len(s) }

// Sorted returns the keys in ascending order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Keys returns the union, over every region group in groups, of the first n
// counties of that group ranked descending by metric. Missing metric values
// rank as 0. Ties keep input order. n must already be validated (n >= 1).
func Keys(counties []county.Record, metric county.Metric, n int, groups []string) KeySet {
	allowed := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		allowed[g] = struct{}{}
	}

	type ranked struct {
		key   string
		value float64
	}
	partitions := make(map[string][]ranked)
	for i := range counties {
		c := &counties[i]
		if _, ok := allowed[c.RegionGroup]; !ok {
			continue
		}
		partitions[c.RegionGroup] = append(partitions[c.RegionGroup], ranked{
			key:   c.Key,
			value: numeric.Or(c.Value(metric), 0),
		})
	}

	keep := make(KeySet)
	for _, part := range partitions {
		slices.SortStableFunc(part, func(a, b ranked) int {
			switch {
			case a.value > b.value:
				return -1
			case a.value < b.value:
				return 1
			default:
				return 0
			}
		})
		for _, r := range part[:min(n, len(part))] {
			keep[r.key] = struct{}{}
		}
	}
	return keep
}
