package publish

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnafl/scraper/internal/model"
)

func TestCSVSink_MasterTable(t *testing.T) {
	dir := t.TempDir()
	sink := CSVSink{Path: filepath.Join(dir, "out.csv"), MasterTab: "DNA List"}

	records := []model.CanonicalRecord{
		{Name: "JOHN DOE", Date: "2023-01-15", County: "Lee", Source: "Lee Sheriff Enjoined"},
	}
	err := sink.Publish(context.Background(), "DNA List", model.Header(), Rows(records))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := os.Open(sink.Path)
	if err != nil {
		t.Fatalf("Expected output file, got %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Expected valid CSV, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "name" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][0] != "JOHN DOE" || rows[1][1] != "2023-01-15" {
		t.Errorf("Unexpected row: %v", rows[1])
	}
}

func TestCSVSink_SecondaryTablesLandBesideMaster(t *testing.T) {
	dir := t.TempDir()
	sink := CSVSink{Path: filepath.Join(dir, "out.csv"), MasterTab: "DNA List"}

	err := sink.Publish(context.Background(), "Lee Sheriff Enjoined", []string{"name"}, [][]string{{"JOHN DOE"}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "lee_sheriff_enjoined.csv")); err != nil {
		t.Errorf("Expected sanitized sibling file, got %v", err)
	}
}

func TestCSVSink_ReplacesPriorContents(t *testing.T) {
	dir := t.TempDir()
	sink := CSVSink{Path: filepath.Join(dir, "out.csv"), MasterTab: "DNA List"}
	ctx := context.Background()

	header := []string{"name"}
	if err := sink.Publish(ctx, "DNA List", header, [][]string{{"A"}, {"B"}, {"C"}}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := sink.Publish(ctx, "DNA List", header, [][]string{{"D"}}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := os.Open(sink.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected full replacement (header plus 1 row), got %d rows", len(rows))
	}
}
