package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dnafl/scraper/internal/model"
)

// KeyAdditional collects trailing cells a source's column map does not
// name. The normalizer folds it into the details catch-all.
const KeyAdditional = "Additional"

// TableRows parses htmlContent and returns the td text of every row
// matched by rowSelector. Header rows built from th cells come back empty
// and fall to the minimum-column gate downstream.
func TableRows(htmlContent, rowSelector string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if rowSelector == "" {
		rowSelector = "table tr"
	}

	var rows [][]string
	doc.Find(rowSelector).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, cells)
	})
	return rows, nil
}

// MapRows maps positional cells to the source's native field names. Rows
// with fewer than MinColumns cells are skipped, not errors: registries pad
// tables with notes and partial rows. Extra cells beyond the configured
// columns are preserved under KeyAdditional.
func MapRows(rows [][]string, cfg model.SourceConfig) []model.RawRecord {
	if cfg.HeaderRows > 0 && len(rows) >= cfg.HeaderRows {
		rows = rows[cfg.HeaderRows:]
	}

	var records []model.RawRecord
	for _, cells := range rows {
		if len(cells) < cfg.MinColumns {
			continue
		}
		rec := model.RawRecord{}
		for i, name := range cfg.Columns {
			if i < len(cells) {
				rec[name] = cells[i]
			}
		}
		if len(cells) > len(cfg.Columns) {
			extra := strings.Join(cells[len(cfg.Columns):], " | ")
			if strings.TrimSpace(extra) != "" {
				rec[KeyAdditional] = extra
			}
		}
		records = append(records, rec)
	}
	return records
}
