package model

// Sentinel values marking "field present but no data". These are literal cell
// contents in the published table, distinct from an absent field.
const (
	ValueMissing = "N/A"
	DateUnknown  = "Unknown"
)

// RawRecord is one record as a source emits it: an open mapping from the
// source's own field names to text values. Raw records never leave the
// extractor invocation that produced them.
type RawRecord map[string]string

// Get returns the value for a raw field, reporting whether it was present
// and non-empty.
func (r RawRecord) Get(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// CanonicalRecord is the fixed shape every record is normalized into before
// merging. Name, County and Source are always non-empty; Date is either an
// ISO calendar date or DateUnknown; the remaining optional fields hold
// ValueMissing when the source had nothing for them.
type CanonicalRecord struct {
	Name            string
	Date            string
	County          string
	RecordType      string
	Source          string
	DateOfBirth     string
	Address         string
	CaseNumber      string
	Charges         string
	RegistrationEnd string
	Link            string
	Details         string
}

// CanonicalFields lists the canonical field names in published column order.
// The names double as the keys of a source's field map.
var CanonicalFields = []string{
	"name",
	"date",
	"county",
	"recordType",
	"source",
	"dateOfBirth",
	"address",
	"caseNumber",
	"charges",
	"registrationEnd",
	"link",
	"details",
}

// Header returns the column headers for a published table.
func Header() []string {
	return append([]string(nil), CanonicalFields...)
}

// Row returns the record's values in Header order.
func (c CanonicalRecord) Row() []string {
	return []string{
		c.Name,
		c.Date,
		c.County,
		c.RecordType,
		c.Source,
		c.DateOfBirth,
		c.Address,
		c.CaseNumber,
		c.Charges,
		c.RegistrationEnd,
		c.Link,
		c.Details,
	}
}

// Field returns the value of a canonical field by name.
func (c CanonicalRecord) Field(name string) string {
	switch name {
	case "name":
		return c.Name
	case "date":
		return c.Date
	case "county":
		return c.County
	case "recordType":
		return c.RecordType
	case "source":
		return c.Source
	case "dateOfBirth":
		return c.DateOfBirth
	case "address":
		return c.Address
	case "caseNumber":
		return c.CaseNumber
	case "charges":
		return c.Charges
	case "registrationEnd":
		return c.RegistrationEnd
	case "link":
		return c.Link
	case "details":
		return c.Details
	}
	return ""
}

// SetField assigns a canonical field by name. Unknown names are ignored.
func (c *CanonicalRecord) SetField(name, value string) {
	switch name {
	case "name":
		c.Name = value
	case "date":
		c.Date = value
	case "county":
		c.County = value
	case "recordType":
		c.RecordType = value
	case "source":
		c.Source = value
	case "dateOfBirth":
		c.DateOfBirth = value
	case "address":
		c.Address = value
	case "caseNumber":
		c.CaseNumber = value
	case "charges":
		c.Charges = value
	case "registrationEnd":
		c.RegistrationEnd = value
	case "link":
		c.Link = value
	case "details":
		c.Details = value
	}
}
