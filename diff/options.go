package diff

import (
	"sort"
	"strings"
)

// OptionsDiff is the three-bucket split spec.md §4.6 describes for a
// single pair of key/value-literal maps: keys dropped (rendered NULL),
// keys whose value literal changed, and keys newly present.
type OptionsDiff struct {
	Cleared map[string]bool   // present in old, absent in new -> "key=NULL"
	Changed map[string]string // present in both, new value literal
	Added   map[string]string // present only in new
}

func DiffOptions(oldOpts, newOpts map[string]string) OptionsDiff {
	d := OptionsDiff{
		Cleared: make(map[string]bool),
		Changed: make(map[string]string),
		Added:   make(map[string]string),
	}
	for k, ov := range oldOpts {
		nv, ok := newOpts[k]
		if !ok {
			d.Cleared[k] = true
			continue
		}
		if nv != ov {
			d.Changed[k] = nv
		}
	}
	for k, nv := range newOpts {
		if _, ok := oldOpts[k]; !ok {
			d.Added[k] = nv
		}
	}
	return d
}

func (d OptionsDiff) Empty() bool {
	return len(d.Cleared) == 0 && len(d.Changed) == 0 && len(d.Added) == 0
}

// CanonicalText renders the combined diff in ascending key order,
// comma-joined, `key=value` pairs with cleared keys rendered as
// `key=NULL` (spec.md §4.6). Returns "" if the diff is empty.
func (d OptionsDiff) CanonicalText() string {
	if d.Empty() {
		return ""
	}
	entries := make(map[string]string, len(d.Cleared)+len(d.Changed)+len(d.Added))
	for k := range d.Cleared {
		entries[k] = "NULL"
	}
	for k, v := range d.Changed {
		entries[k] = v
	}
	for k, v := range d.Added {
		entries[k] = v
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+entries[k])
	}
	return strings.Join(parts, ", ")
}
