package normalize

import (
	"testing"

	"github.com/dnafl/scraper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leeConfig() model.SourceConfig {
	return model.SourceConfig{
		ID:         "lee-enjoined",
		County:     "Lee",
		Label:      "Lee Sheriff Enjoined",
		RecordType: "Enjoined",
		FieldMap: map[string]string{
			"name":       "Name",
			"date":       "Order Date",
			"caseNumber": "Case Number",
		},
	}
}

func TestRecords_CanonicalShape(t *testing.T) {
	raw := []model.RawRecord{
		{"Name": "Doe, John", "Order Date": "01/15/2023", "Case Number": "23-CA-001"},
	}
	records := Records(raw, leeConfig())
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "JOHN DOE", rec.Name)
	assert.Equal(t, "2023-01-15", rec.Date)
	assert.Equal(t, "Lee", rec.County)
	assert.Equal(t, "Enjoined", rec.RecordType)
	assert.Equal(t, "Lee Sheriff Enjoined", rec.Source)
	assert.Equal(t, "23-CA-001", rec.CaseNumber)
	assert.Equal(t, model.ValueMissing, rec.Address)
	assert.Equal(t, model.ValueMissing, rec.Charges)
	assert.Equal(t, model.ValueMissing, rec.Details)
}

func TestRecords_MissingDateBecomesUnknown(t *testing.T) {
	raw := []model.RawRecord{
		{"Name": "ROE, JANE", "Order Date": ""},
	}
	records := Records(raw, leeConfig())
	require.Len(t, records, 1)
	assert.Equal(t, "JANE ROE", records[0].Name)
	assert.Equal(t, model.DateUnknown, records[0].Date)
}

func TestRecords_SkipsNamelessRows(t *testing.T) {
	raw := []model.RawRecord{
		{"Order Date": "01/15/2023"},
		{"Name": "   ", "Order Date": "01/15/2023"},
		{"Name": "Doe, John"},
	}
	records := Records(raw, leeConfig())
	require.Len(t, records, 1)
	assert.Equal(t, "JOHN DOE", records[0].Name)
}

func TestRecords_UnmappedFieldsFoldIntoDetails(t *testing.T) {
	raw := []model.RawRecord{
		{"Name": "Doe, John", "Species": "canine", "Disposition": "surrendered"},
	}
	records := Records(raw, leeConfig())
	require.Len(t, records, 1)
	// Leftovers are sorted by key so the output is deterministic.
	assert.Equal(t, "Disposition: surrendered | Species: canine", records[0].Details)
}

func TestRecords_CorruptBatchYieldsEmptyTable(t *testing.T) {
	var raw []model.RawRecord
	raw = append(raw, nil) // nil map reads are fine; guard is for worse
	records := Records(raw, leeConfig())
	assert.Empty(t, records)
}

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Doe, John", "JOHN DOE"},
		{"JOHN DOE", "JOHN DOE"},
		{"  smith ,  jane  ", "JANE SMITH"},
		{"O. Henry", "O HENRY"},
		{"van der Berg, Anna Maria", "ANNA MARIA VAN DER BERG"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	for _, in := range []string{"Doe, John", "Mc.Donald, Ronald", "JANE ROE"} {
		once := Name(in)
		assert.Equal(t, once, Name(once))
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01/15/2023", "2023-01-15"},
		{"2023-01-15", "2023-01-15"},
		{"March 3, 2021", "2021-03-03"},
		{"Monday, March 3rd, 2021", "2021-03-03"},
		{"Jan 2 2020", "2020-01-02"},
		{"", model.DateUnknown},
		{"N/A", model.DateUnknown},
		{"Unknown", model.DateUnknown},
		{"pending sentencing", model.DateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpace("  a \t b\n\nc  "))
	assert.Equal(t, "", CollapseSpace(" \t\n "))
}
