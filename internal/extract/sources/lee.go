package sources

import (
	"context"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/model"
)

// LeeEnjoined is Lee County's static page of civil enjoinment orders.
type LeeEnjoined struct {
	extract.Base
}

func (s LeeEnjoined) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	return staticRows(ctx, deps, s.Cfg)
}

// LeeRegistry is Lee County's rendered conviction registry. The table has
// no date column, so each record is stamped with the run date as its
// date-added proxy.
type LeeRegistry struct {
	extract.Base
}

func (s LeeRegistry) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	records, err := renderedRows(ctx, deps, s.Cfg)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		rec["Date Added"] = deps.RunDate()
	}
	return records, nil
}
