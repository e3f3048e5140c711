package sources

import (
	"context"
	"regexp"
	"strings"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/fetch"
	"github.com/dnafl/scraper/internal/model"
)

var (
	volusiaLineRe = regexp.MustCompile(`^[A-Z][a-zA-Z]+,\s*[A-Z]`)
	volusiaDateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
)

// Volusia publishes its registry as a PDF. Three passes, most structured
// first: row-grouped table extraction keyed on a "Last Name" header, then
// "Key: Value" record blocks anchored on the name key, then a line scan
// for "Last, First ..." entries.
type Volusia struct {
	extract.Base
}

func (s Volusia) Extract(ctx context.Context, deps extract.Deps) ([]model.RawRecord, error) {
	data, err := deps.Fetcher.Fetch(ctx, s.Cfg.URL, fetch.Options{AsStream: true})
	if err != nil {
		return nil, err
	}

	if records := s.tabular(data); len(records) > 0 {
		return records, nil
	}

	pages, err := extract.PageTexts(data)
	if err != nil {
		return nil, err
	}
	text := strings.Join(pages, "\n")

	if records := extract.KeyValueRecords(text, s.Cfg.AnchorKey); len(records) > 0 {
		return records, nil
	}
	return s.lineScan(text), nil
}

// tabular extracts pages that carry a real header row. Repeated headers
// (the PDF restates them on every page) are skipped as data.
func (s Volusia) tabular(data []byte) []model.RawRecord {
	pages, err := extract.PageRows(data)
	if err != nil {
		return nil
	}

	headerLabels := []string{"Last Name", "First Name"}
	var records []model.RawRecord
	for _, rows := range pages {
		var header []string
		for _, cells := range rows {
			if _, ok := extract.HeaderIndex(cells, headerLabels); ok {
				header = cells
				continue
			}
			if header == nil || len(cells) < len(headerLabels) {
				continue
			}
			rec := model.RawRecord{}
			for i, label := range header {
				if i < len(cells) {
					rec[label] = cells[i]
				}
			}
			if last, _ := rec.Get("Last Name"); last == "" {
				continue
			}
			composeFullName(rec)
			records = append(records, rec)
		}
	}
	return records
}

// lineScan is the crudest pass: names start a line as "Last, First" and a
// date-like token may appear anywhere after.
func (s Volusia) lineScan(text string) []model.RawRecord {
	var records []model.RawRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !volusiaLineRe.MatchString(line) {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) < 2 {
			continue
		}
		first := strings.Fields(parts[1])
		if len(first) == 0 {
			continue
		}
		rec := model.RawRecord{
			"Name":    parts[0] + ", " + first[0],
			"Details": line,
		}
		if date := volusiaDateRe.FindString(line); date != "" {
			rec["Conviction Date"] = date
		}
		records = append(records, rec)
	}
	return records
}
