// Package sources holds one extraction procedure per jurisdiction list.
// Column positions, selectors and field maps live in configuration; only
// each site's interaction flow lives here.
package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/fetch"
	"github.com/dnafl/scraper/internal/model"
	"github.com/dnafl/scraper/internal/render"
)

// StaticTable extracts a plain HTML table: fetch, locate rows, map cells
// positionally. The fallback for configured sources with no bespoke flow.
type StaticTable struct {
	extract.Base
}

func (s StaticTable) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	return staticRows(ctx, deps, s.Cfg)
}

func staticRows(ctx context.Context, deps extract.Deps, cfg model.SourceConfig) ([]model.RawRecord, error) {
	page, err := deps.Fetcher.Text(ctx, cfg.URL, fetch.Options{SkipCertVerify: cfg.SkipCertVerify})
	if err != nil {
		return nil, err
	}
	rows, err := extract.TableRows(page, cfg.RowSelector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ID, err)
	}
	return extract.MapRows(rows, cfg), nil
}

// composeFullName folds a record's split name columns into one "Name" key
// in first-last order. Sources that list last and first names separately
// call this before normalization.
func composeFullName(rec model.RawRecord) {
	last, _ := rec.Get("Last Name")
	first, _ := rec.Get("First Name")
	if first != "" || last != "" {
		rec["Name"] = strings.TrimSpace(first + " " + last)
	}
	delete(rec, "First Name")
	delete(rec, "Last Name")
}

// RenderedTable extracts a JavaScript-rendered table: open a session, wait
// for the readiness marker, snapshot the DOM, map rows. A readiness wait
// that times out means zero records, not a failure.
type RenderedTable struct {
	extract.Base
}

func (s RenderedTable) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	return renderedRows(ctx, deps, s.Cfg)
}

func renderedRows(ctx context.Context, deps extract.Deps, cfg model.SourceConfig) ([]model.RawRecord, error) {
	sess, err := deps.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open render session: %w", err)
	}
	defer sess.Close()

	if err := sess.Navigate(cfg.URL); err != nil {
		return nil, err
	}
	return snapshotRows(sess, cfg)
}

// snapshotRows waits for the table, then reads the whole rendered document
// at once. Parsing a snapshot instead of walking the live DOM sidesteps
// the stale-element race between locating a row and reading it.
func snapshotRows(sess *render.Session, cfg model.SourceConfig) ([]model.RawRecord, error) {
	if !sess.WaitFor(cfg.WaitSelector) {
		return nil, nil
	}
	page, err := sess.HTML()
	if err != nil {
		return nil, err
	}
	rows, err := extract.TableRows(page, cfg.RowSelector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ID, err)
	}
	return extract.MapRows(rows, cfg), nil
}
