package publish

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVSink is the rehearsal-mode fallback: the same tables, written to
// local delimited files instead of the spreadsheet.
type CSVSink struct {
	// Path receives the master table; other tables land beside it as
	// <table>.csv.
	Path      string
	MasterTab string
}

func (s CSVSink) Publish(_ context.Context, table string, header []string, rows [][]string) error {
	path := s.pathFor(table)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func (s CSVSink) pathFor(table string) string {
	if table == s.MasterTab || table == "" {
		return s.Path
	}
	return filepath.Join(filepath.Dir(s.Path), sanitize(table)+".csv")
}

func sanitize(table string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, table)
	return strings.ToLower(mapped)
}
