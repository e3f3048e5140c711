// Package merge combines normalized records from all sources into one
// table, deduplicated on the (name, county, date) identity key.
package merge

import (
	"sort"

	"github.com/dnafl/scraper/internal/model"
)

type identityKey struct {
	name   string
	county string
	date   string
}

// Merge deduplicates and orders a table of canonical records. The table is
// sorted by date descending (byte-wise on the canonical date string, so
// the Unknown sentinel groups above all ISO dates), then the first record
// of each (name, county, date) key is kept. The sort is stable and the
// function is idempotent: Merge(Merge(t)) == Merge(t).
//
// Equality is case-sensitive on already-normalized strings; the normalizer
// has upper-cased names, so this is effectively case-insensitive on the
// original input.
func Merge(records []model.CanonicalRecord) []model.CanonicalRecord {
	sorted := make([]model.CanonicalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	seen := make(map[identityKey]bool, len(sorted))
	out := sorted[:0]
	for _, rec := range sorted {
		key := identityKey{name: rec.Name, county: rec.County, date: rec.Date}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}
