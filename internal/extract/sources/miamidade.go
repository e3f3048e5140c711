package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/model"
	"github.com/dnafl/scraper/internal/render"
)

// MiamiDade pages through the cruelty registry. Pagination ends when the
// next control is absent or disabled, or when the old first row never goes
// stale after a click — both mean the last page, not a failure.
type MiamiDade struct {
	extract.Base
}

func (s MiamiDade) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	sess, err := deps.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open render session: %w", err)
	}
	defer sess.Close()

	if err := sess.Navigate(s.Cfg.URL); err != nil {
		return nil, err
	}

	maxPages := deps.Render.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var all []model.RawRecord
	for page := 0; page < maxPages; page++ {
		records, err := snapshotRows(sess, s.Cfg)
		if err != nil {
			return all, err
		}
		if records == nil && page == 0 {
			// Initial readiness wait timed out: zero records.
			return nil, nil
		}
		all = append(all, records...)

		if !s.nextPage(sess, deps.Render.WaitTimeout) {
			break
		}
	}
	return all, nil
}

// nextPage advances the table and reports whether a new page rendered.
func (s MiamiDade) nextPage(sess *render.Session, staleWait time.Duration) bool {
	if sess.NextControl(s.Cfg.NextSelector) != render.ControlEnabled {
		return false
	}
	oldFirst, ok := sess.Text(s.Cfg.RowSelector)
	if !ok {
		return false
	}
	// Let the freshly rendered control settle before acting on it.
	sess.Settle()
	if err := sess.Click(s.Cfg.NextSelector); err != nil {
		return false
	}
	return sess.WaitStale(s.Cfg.RowSelector, oldFirst, staleWait)
}
