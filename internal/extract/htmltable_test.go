package extract

import (
	"regexp"
	"testing"

	"github.com/dnafl/scraper/internal/model"
)

const sampleTable = `
<html><body>
<table>
  <tr><th>Name</th><th>Case</th><th>Date</th></tr>
  <tr><td>Doe, John</td><td>23-CA-001</td><td>01/15/2023</td></tr>
  <tr><td>Note: list updated monthly</td></tr>
  <tr><td>Roe, Jane</td><td>22-CA-987</td><td>06/01/2022</td><td>3 counts</td></tr>
</table>
</body></html>`

func TestTableRows(t *testing.T) {
	rows, err := TableRows(sampleTable, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	// th-only header row yields no td cells
	if len(rows[0]) != 0 {
		t.Errorf("Expected empty header row, got %v", rows[0])
	}
	if rows[1][0] != "Doe, John" {
		t.Errorf("Unexpected first cell: %q", rows[1][0])
	}
}

func TestMapRows(t *testing.T) {
	rows, err := TableRows(sampleTable, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cfg := model.SourceConfig{
		Columns:    []string{"Name", "Case Number", "Order Date"},
		MinColumns: 3,
	}
	records := MapRows(rows, cfg)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records (header and note rows skipped), got %d", len(records))
	}
	if records[0]["Name"] != "Doe, John" {
		t.Errorf("Unexpected name: %q", records[0]["Name"])
	}
	if records[0]["Order Date"] != "01/15/2023" {
		t.Errorf("Unexpected date: %q", records[0]["Order Date"])
	}
	// The fourth cell has no configured column; it lands in the catch-all.
	if records[1][KeyAdditional] != "3 counts" {
		t.Errorf("Expected extra cell under %q, got %q", KeyAdditional, records[1][KeyAdditional])
	}
}

func TestMapRows_HeaderRowsDropped(t *testing.T) {
	rows := [][]string{
		{"Name", "Date"},
		{"Doe, John", "01/15/2023"},
	}
	cfg := model.SourceConfig{
		Columns:    []string{"Name", "Conviction Date"},
		MinColumns: 2,
		HeaderRows: 1,
	}
	records := MapRows(rows, cfg)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0]["Name"] != "Doe, John" {
		t.Errorf("Header row survived: %v", records[0])
	}
}

func TestTextBlocks(t *testing.T) {
	page := `
<html><body>
<div><p>Intro text with no records.</p></div>
<p><strong>Name:</strong> Doe, John<br>Conviction Date: 01/15/2023</p>
<p><b>Name:</b> Roe, Jane</p>
</body></html>`

	blocks, err := TextBlocks(page, []string{"p"}, regexp.MustCompile(`(?i)Name:`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d: %v", len(blocks), blocks)
	}
	if !regexp.MustCompile(`Doe, John`).MatchString(blocks[0]) {
		t.Errorf("First block missing name: %q", blocks[0])
	}
}
