// Package diff implements the Difference Analyzer and Column Diff
// Engine (spec.md §4.3, §4.4): per-category structural comparison of
// two schema.Schema values, keyed by canonical text equality.
package diff

import "sort"

// MapDifference is a Guava-Maps.difference-style three-way split of two
// maps sharing a key space: entries present only on the left, only on
// the right, and present on both sides but unequal by canonical text.
// The maps are unordered; use SortedKeys for deterministic iteration.
type MapDifference[V any] struct {
	OnlyLeft  map[string]V
	OnlyRight map[string]V
	Differing map[string]ValueDiff[V]
}

type ValueDiff[V any] struct {
	Left  V
	Right V
}

// Diff computes the three-way split of left and right, using canon to
// render each value's comparison text.
func Diff[V any](left, right map[string]V, canon func(V) string) MapDifference[V] {
	d := MapDifference[V]{
		OnlyLeft:  make(map[string]V),
		OnlyRight: make(map[string]V),
		Differing: make(map[string]ValueDiff[V]),
	}
	for k, lv := range left {
		rv, ok := right[k]
		if !ok {
			d.OnlyLeft[k] = lv
			continue
		}
		if canon(lv) != canon(rv) {
			d.Differing[k] = ValueDiff[V]{Left: lv, Right: rv}
		}
	}
	for k, rv := range right {
		if _, ok := left[k]; !ok {
			d.OnlyRight[k] = rv
		}
	}
	return d
}

// SortedKeys returns m's keys in ascending order, for deterministic
// iteration over a non-order-preserving map (spec.md §9).
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
