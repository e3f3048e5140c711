// Package publish delivers final tables to their sink. Each run fully
// replaces a table's prior contents; there are no append semantics.
package publish

import (
	"context"

	"github.com/dnafl/scraper/internal/model"
)

// Sink receives a named table and replaces its full contents.
type Sink interface {
	Publish(ctx context.Context, table string, header []string, rows [][]string) error
}

// Rows converts canonical records to published rows in header order.
func Rows(records []model.CanonicalRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	return rows
}
