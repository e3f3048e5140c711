package sources

import (
	"context"
	"regexp"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/fetch"
	"github.com/dnafl/scraper/internal/model"
)

var (
	marionAnchorRe = regexp.MustCompile(`(?i)Name:`)
	marionNameRe   = regexp.MustCompile(`(?i)Name:\s*([^|]+)`)
	marionDateRe   = regexp.MustCompile(`(?i)Conviction Date:\s*([^|]+)`)
)

// Marion publishes unstructured text blocks instead of a table. Every
// paragraph or div mentioning "Name:" is a candidate record; the whole
// block text is kept as details.
type Marion struct {
	extract.Base
}

func (s Marion) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	page, err := deps.Fetcher.Text(ctx, s.Cfg.URL, fetch.Options{SkipCertVerify: s.Cfg.SkipCertVerify})
	if err != nil {
		return nil, err
	}

	blocks, err := extract.TextBlocks(page, []string{"p", "div"}, marionAnchorRe)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for _, block := range blocks {
		name := marionNameRe.FindStringSubmatch(block)
		if name == nil {
			continue
		}
		rec := model.RawRecord{
			"Name":    name[1],
			"Details": block,
		}
		if date := marionDateRe.FindStringSubmatch(block); date != nil {
			rec["Conviction Date"] = date[1]
		}
		records = append(records, rec)
	}
	return records, nil
}
