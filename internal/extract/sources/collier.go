package sources

import (
	"context"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/model"
)

// Collier's registry is a static table (fetched with the TLS-verify
// opt-out — the host's chain is routinely broken). Registration expiration
// stands in for the record date, stamped under its own key so a blank
// expiration still publishes as missing while the date falls back to the
// run date.
type Collier struct {
	extract.Base
}

func (s Collier) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	records, err := staticRows(ctx, deps, s.Cfg)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if v, ok := rec.Get("Registration End"); ok && v != model.ValueMissing {
			rec["Record Date"] = v
		} else {
			rec["Record Date"] = deps.RunDate()
		}
	}
	return records, nil
}
