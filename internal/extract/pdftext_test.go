package extract

import "testing"

const volusiaSample = `Volusia County Animal Abuser Registry
Updated quarterly.

Name: Doe, John
Conviction Date: 01/15/2023
Address: 123 Main St
  DeLand FL 32720

Name: Roe, Jane
Conviction Date: 06/01/2022
`

func TestSplitBlocks(t *testing.T) {
	blocks := SplitBlocks(volusiaSample, "Name")
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0][:4] != "Name" {
		t.Errorf("Block must start at the anchor line, got %q", blocks[0][:20])
	}
}

func TestSplitBlocks_NoAnchor(t *testing.T) {
	if blocks := SplitBlocks("just a preamble\nno records here", "Name"); len(blocks) != 0 {
		t.Errorf("Expected no blocks, got %v", blocks)
	}
}

func TestParseBlock(t *testing.T) {
	kv := ParseBlock("Name: Doe, John\nAddress: 123 Main St\nDeLand FL 32720\nCharges: cruelty")
	if kv["Name"] != "Doe, John" {
		t.Errorf("Unexpected name: %q", kv["Name"])
	}
	// A line without a key continues the previous value.
	if kv["Address"] != "123 Main St DeLand FL 32720" {
		t.Errorf("Continuation line not folded: %q", kv["Address"])
	}
	if kv["Charges"] != "cruelty" {
		t.Errorf("Unexpected charges: %q", kv["Charges"])
	}
}

func TestKeyValueRecords(t *testing.T) {
	records := KeyValueRecords(volusiaSample, "Name")
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0]["Name"] != "Doe, John" {
		t.Errorf("Unexpected name: %q", records[0]["Name"])
	}
	if records[1]["Conviction Date"] != "06/01/2022" {
		t.Errorf("Unexpected date: %q", records[1]["Conviction Date"])
	}
	if records[0]["Details"] == "" {
		t.Error("Expected the full block preserved under Details")
	}
}

func TestKeyValueRecords_AnchorRequired(t *testing.T) {
	text := "Name:\nConviction Date: 01/15/2023"
	if records := KeyValueRecords(text, "Name"); len(records) != 0 {
		t.Errorf("Block without an anchor value must be dropped, got %v", records)
	}
}

func TestHeaderIndex(t *testing.T) {
	cells := []string{"Last Name", "First Name", "DOB", "Conviction Date"}
	index, ok := HeaderIndex(cells, []string{"Last Name", "First Name"})
	if !ok {
		t.Fatal("Expected header match")
	}
	if index["Last Name"] != 0 || index["First Name"] != 1 {
		t.Errorf("Unexpected index: %v", index)
	}

	if _, ok := HeaderIndex([]string{"Doe", "John"}, []string{"Last Name", "First Name"}); ok {
		t.Error("Data row must not match as header")
	}
}
