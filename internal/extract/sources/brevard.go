package sources

import (
	"context"
	"fmt"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/model"
)

// Brevard's database search renders nothing until a query is submitted; an
// empty search (Enter on the defendant-name input) returns the full list.
type Brevard struct {
	extract.Base
}

func (s Brevard) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	sess, err := deps.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open render session: %w", err)
	}
	defer sess.Close()

	if err := sess.Navigate(s.Cfg.URL); err != nil {
		return nil, err
	}
	if err := sess.SubmitEnter(s.Cfg.SearchInput); err != nil {
		return nil, err
	}

	records, err := snapshotRows(sess, s.Cfg)
	if err != nil {
		return nil, err
	}

	// The table lists last and first name in separate columns.
	for _, rec := range records {
		composeFullName(rec)
	}
	return records, nil
}
