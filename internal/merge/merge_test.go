package merge

import (
	"testing"

	"github.com/dnafl/scraper/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name, county, date, source string) model.CanonicalRecord {
	return model.CanonicalRecord{Name: name, County: county, Date: date, Source: source}
}

func TestMerge_DeduplicatesOnIdentityKey(t *testing.T) {
	in := []model.CanonicalRecord{
		rec("JOHN DOE", "Lee", "2023-01-15", "Lee Sheriff Enjoined"),
		rec("JOHN DOE", "Lee", "2023-01-15", "Lee Sheriff Registry"),
		rec("JOHN DOE", "Collier", "2023-01-15", "Collier Sheriff"),
		rec("JOHN DOE", "Lee", "2022-06-01", "Lee Sheriff Enjoined"),
	}
	out := Merge(in)
	require.Len(t, out, 3)

	// Same name in another county or on another date is a distinct record.
	counties := map[string]bool{}
	for _, r := range out {
		counties[r.County] = true
	}
	assert.True(t, counties["Collier"])
	assert.True(t, counties["Lee"])
}

func TestMerge_KeepsFirstDuplicate(t *testing.T) {
	in := []model.CanonicalRecord{
		rec("JANE ROE", "Pasco", "2021-09-09", "Pasco Clerk"),
		rec("JANE ROE", "Pasco", "2021-09-09", "Pasco Clerk Archive"),
	}
	out := Merge(in)
	require.Len(t, out, 1)
	assert.Equal(t, "Pasco Clerk", out[0].Source)
}

func TestMerge_SortsDateDescendingUnknownFirst(t *testing.T) {
	in := []model.CanonicalRecord{
		rec("A", "Lee", "2020-01-01", "s"),
		rec("B", "Lee", model.DateUnknown, "s"),
		rec("C", "Lee", "2023-05-05", "s"),
	}
	out := Merge(in)
	require.Len(t, out, 3)
	// Byte-wise descending: the Unknown sentinel sorts above ISO dates.
	assert.Equal(t, "B", out[0].Name)
	assert.Equal(t, "C", out[1].Name)
	assert.Equal(t, "A", out[2].Name)
}

func TestMerge_Idempotent(t *testing.T) {
	in := []model.CanonicalRecord{
		rec("A", "Lee", "2020-01-01", "s"),
		rec("A", "Lee", "2020-01-01", "s2"),
		rec("B", "Marion", model.DateUnknown, "s"),
		rec("C", "Lee", "2023-05-05", "s"),
	}
	once := Merge(in)
	twice := Merge(once)
	assert.Equal(t, once, twice)
}

func TestMerge_EmptyInput(t *testing.T) {
	assert.Empty(t, Merge(nil))
}
