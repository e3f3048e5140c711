// Package normalize maps raw source records into the canonical schema:
// sentinel-filled fields, collapsed whitespace, "First Last" uppercase
// names, and ISO dates or the Unknown sentinel. It runs before
// deduplication, always.
package normalize

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dnafl/scraper/internal/model"
)

// Records normalizes one source's raw output. A corrupt batch yields an
// empty table, never a crash: the run has already branched by source, so
// this is the second layer of containment.
func Records(raw []model.RawRecord, cfg model.SourceConfig) (records []model.CanonicalRecord) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("normalization failed, dropping batch", "source", cfg.ID, "panic", fmt.Sprint(r))
			records = nil
		}
	}()

	for _, rr := range raw {
		rec, ok := one(rr, cfg)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func one(raw model.RawRecord, cfg model.SourceConfig) (model.CanonicalRecord, bool) {
	rec := model.CanonicalRecord{
		County:          cfg.County,
		Source:          cfg.Label,
		RecordType:      cfg.RecordType,
		DateOfBirth:     model.ValueMissing,
		Address:         model.ValueMissing,
		CaseNumber:      model.ValueMissing,
		Charges:         model.ValueMissing,
		RegistrationEnd: model.ValueMissing,
		Link:            model.ValueMissing,
		Details:         model.ValueMissing,
	}

	used := map[string]bool{}
	for _, field := range model.CanonicalFields {
		native, ok := cfg.FieldMap[field]
		if !ok {
			continue
		}
		used[native] = true
		if value, ok := raw.Get(native); ok {
			rec.SetField(field, value)
		}
	}

	// Anything the field map does not claim lands in the details
	// catch-all, sorted by key so output is deterministic.
	var leftovers []string
	for key, value := range raw {
		if used[key] || strings.TrimSpace(value) == "" {
			continue
		}
		leftovers = append(leftovers, key+": "+value)
	}
	if len(leftovers) > 0 {
		sort.Strings(leftovers)
		extra := strings.Join(leftovers, " | ")
		if rec.Details == model.ValueMissing || rec.Details == "" {
			rec.Details = extra
		} else {
			rec.Details = rec.Details + " | " + extra
		}
	}

	for _, field := range model.CanonicalFields {
		rec.SetField(field, CollapseSpace(rec.Field(field)))
	}

	rec.Name = Name(rec.Name)
	if rec.Name == "" || rec.County == "" || rec.Source == "" {
		return model.CanonicalRecord{}, false
	}
	rec.Date = Date(rec.Date)

	for _, field := range []string{"dateOfBirth", "address", "caseNumber", "charges", "registrationEnd", "link", "details"} {
		if rec.Field(field) == "" {
			rec.SetField(field, model.ValueMissing)
		}
	}
	return rec, true
}

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseSpace trims a value and collapses internal whitespace runs to a
// single space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

var lastFirstRe = regexp.MustCompile(`^([^,]+),\s*(.+)$`)

// Name normalizes a person name: "Last, First" order is rewritten to
// "First Last", everything is upper-cased, and periods and commas are
// stripped. Normalizing an already-normalized name is a no-op.
func Name(name string) string {
	name = CollapseSpace(name)
	if m := lastFirstRe.FindStringSubmatch(name); m != nil {
		name = m[2] + " " + m[1]
	}
	name = strings.ToUpper(name)
	name = strings.NewReplacer(".", "", ",", "").Replace(name)
	return CollapseSpace(name)
}

var (
	weekdayRe = regexp.MustCompile(`(?i)\b(?:mon|tues?|wednes|thurs?|fri|satur|sun)day,?\s*`)
	ordinalRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
)

// Date parses a free-text date into canonical "2006-01-02" form. Strict
// US-style and ISO formats are tried first, then a permissive parse that
// tolerates day names, ordinal suffixes and stray tokens. Anything
// unparseable is the Unknown sentinel — never a partial string, never an
// error.
func Date(value string) string {
	value = CollapseSpace(value)
	if value == "" || value == model.DateUnknown || value == model.ValueMissing {
		return model.DateUnknown
	}
	if t, err := time.Parse("01/02/2006", value); err == nil {
		return t.Format("2006-01-02")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01-02")
	}

	loose := weekdayRe.ReplaceAllString(value, "")
	loose = ordinalRe.ReplaceAllString(loose, "$1")
	loose = CollapseSpace(loose)
	if t, err := dateparse.ParseAny(loose); err == nil {
		return t.Format("2006-01-02")
	}
	return model.DateUnknown
}
