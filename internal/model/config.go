package model

import "time"

// Config is the full process configuration. It is built once at startup
// (defaults, then config file, env and flags layered by viper) and passed
// down explicitly; nothing below the CLI reads ambient state.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Politeness  PolitenessConfig  `yaml:"politeness" mapstructure:"politeness"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Render      RenderConfig      `yaml:"render" mapstructure:"render"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Publish     PublishConfig     `yaml:"publish" mapstructure:"publish"`
	Alert       AlertConfig       `yaml:"alert" mapstructure:"alert"`
	Sources     []SourceConfig    `yaml:"sources" mapstructure:"sources"`
}

// HTTPConfig controls the document fetcher.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RetryCount    int           `yaml:"retry_count" mapstructure:"retry_count"`
	RetryWait     time.Duration `yaml:"retry_wait" mapstructure:"retry_wait"`
	RetryWaitMax  time.Duration `yaml:"retry_wait_max" mapstructure:"retry_wait_max"`
}

// PolitenessConfig gates robots.txt checks and per-domain rate limiting.
type PolitenessConfig struct {
	RespectRobots     bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls the fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RenderConfig controls headless browser sessions.
type RenderConfig struct {
	PageLoadTimeout time.Duration `yaml:"page_load_timeout" mapstructure:"page_load_timeout"`
	WaitTimeout     time.Duration `yaml:"wait_timeout" mapstructure:"wait_timeout"`
	SettleDelay     time.Duration `yaml:"settle_delay" mapstructure:"settle_delay"`
	MaxPages        int           `yaml:"max_pages" mapstructure:"max_pages"`
	UserAgent       string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// ConcurrencyConfig bounds how many sources run at once. Each rendered
// source costs a full browser process, so this stays well below the
// source count.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// PublishConfig controls the tabular sink. SpreadsheetID and the
// credentials come from the environment in practice; Rehearsal diverts the
// final table to a local CSV instead.
type PublishConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	MasterTab     string `yaml:"master_tab" mapstructure:"master_tab"`
	PerSourceTabs bool   `yaml:"per_source_tabs" mapstructure:"per_source_tabs"`
	Rehearsal     bool   `yaml:"rehearsal" mapstructure:"rehearsal"`
	RehearsalPath string `yaml:"rehearsal_path" mapstructure:"rehearsal_path"`
}

// AlertConfig points at the notification webhook. An empty URL disables
// alerting entirely.
type AlertConfig struct {
	WebhookURL string        `yaml:"webhook_url" mapstructure:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SourceConfig describes one jurisdiction's list. Column order, selectors
// and field maps are deliberately configuration: they are best-guess
// mappings against live markup and change with every site redesign, so
// corrections must never require a code change.
type SourceConfig struct {
	ID         string `yaml:"id" mapstructure:"id"`
	County     string `yaml:"county" mapstructure:"county"`
	Label      string `yaml:"label" mapstructure:"label"`
	RecordType string `yaml:"record_type" mapstructure:"record_type"`
	Kind       string `yaml:"kind" mapstructure:"kind"`
	URL        string `yaml:"url" mapstructure:"url"`
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`

	// Tabular extraction: native field name per cell position, minimum
	// column gate, and leading header rows to drop.
	Columns    []string `yaml:"columns" mapstructure:"columns"`
	MinColumns int      `yaml:"min_columns" mapstructure:"min_columns"`
	HeaderRows int      `yaml:"header_rows" mapstructure:"header_rows"`

	// FieldMap maps canonical field names to this source's native keys.
	// Native keys not referenced here end up in the details catch-all.
	FieldMap map[string]string `yaml:"field_map" mapstructure:"field_map"`

	// Selectors. Selector locates the table (or, for free-text sources,
	// the record blocks); WaitSelector is the rendered-page readiness
	// marker; RowSelector overrides the default "tr" walk.
	Selector     string `yaml:"selector" mapstructure:"selector"`
	RowSelector  string `yaml:"row_selector" mapstructure:"row_selector"`
	WaitSelector string `yaml:"wait_selector" mapstructure:"wait_selector"`

	// Rendered-page interaction knobs.
	SearchInput    string `yaml:"search_input" mapstructure:"search_input"`
	DisclaimerText string `yaml:"disclaimer_text" mapstructure:"disclaimer_text"`
	Paginate       bool   `yaml:"paginate" mapstructure:"paginate"`
	NextSelector   string `yaml:"next_selector" mapstructure:"next_selector"`

	// Free-text extraction: the repeating anchor that starts a record
	// block (HTML blocks and free-text PDFs both key on it).
	AnchorKey string `yaml:"anchor_key" mapstructure:"anchor_key"`

	// Some sites run with broken TLS chains; per-source opt-out only.
	SkipCertVerify bool `yaml:"skip_cert_verify" mapstructure:"skip_cert_verify"`
}

// Source kinds.
const (
	KindStatic   = "static"
	KindRendered = "rendered"
	KindPDF      = "pdf"
)

// DefaultConfig returns the built-in configuration, including the known
// jurisdiction roster with the column positions observed on each site.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      45 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
			MaxBodyBytes: 20_000_000,
			RetryCount:   2, // 3 attempts total
			RetryWait:    4 * time.Second,
			RetryWaitMax: 10 * time.Second,
		},
		Politeness: PolitenessConfig{
			RespectRobots:     false,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     "",
			TTL:     time.Hour,
		},
		Render: RenderConfig{
			PageLoadTimeout: 90 * time.Second,
			WaitTimeout:     25 * time.Second,
			SettleDelay:     500 * time.Millisecond,
			MaxPages:        50,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 3,
		},
		Publish: PublishConfig{
			MasterTab:     "DNA List",
			PerSourceTabs: false,
			RehearsalPath: "dnafl_rehearsal.csv",
		},
		Alert: AlertConfig{
			Timeout: 5 * time.Second,
		},
		Sources: DefaultSources(),
	}
}

// DefaultSources returns the jurisdiction roster. Column orders are
// best-guess mappings; fix them here (or in the config file), not in the
// extractors.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			ID:           "brevard",
			County:       "Brevard",
			Label:        "Brevard County",
			RecordType:   "Convicted",
			Kind:         KindRendered,
			URL:          "https://www.brevardfl.gov/AnimalAbuseDatabaseSearch",
			Enabled:      true,
			Columns:      []string{"Last Name", "First Name", "Conviction Date", "DOB", "Case Number"},
			MinColumns:   5,
			Selector:     "table",
			RowSelector:  "table tbody tr",
			WaitSelector: "table tbody tr",
			SearchInput:  `input[name="defendantName"]`,
			FieldMap: map[string]string{
				"name":        "Name", // composed by the extractor from the two name columns
				"date":        "Conviction Date",
				"dateOfBirth": "DOB",
				"caseNumber":  "Case Number",
			},
		},
		{
			ID:         "lee-enjoined",
			County:     "Lee",
			Label:      "Lee Sheriff Enjoined",
			RecordType: "Enjoined",
			Kind:       KindStatic,
			URL:        "https://www.sheriffleefl.org/animal-abuser-registry-enjoined/",
			Enabled:    true,
			Columns:    []string{"Name", "Case Number", "Order Date", "Charges"},
			MinColumns: 3,
			HeaderRows: 1,
			Selector:   "table",
			FieldMap: map[string]string{
				"name":       "Name",
				"date":       "Order Date",
				"caseNumber": "Case Number",
				"charges":    "Charges",
			},
		},
		{
			ID:           "lee-registry",
			County:       "Lee",
			Label:        "Lee Sheriff Registry",
			RecordType:   "Convicted",
			Kind:         KindRendered,
			URL:          "https://www.sheriffleefl.org/animal-abuser-search/",
			Enabled:      true,
			Columns:      []string{"Name", "DOB", "Address", "Charges"},
			MinColumns:   4,
			HeaderRows:   1,
			Selector:     "table",
			WaitSelector: "table",
			FieldMap: map[string]string{
				"name":        "Name",
				"date":        "Date Added",
				"dateOfBirth": "DOB",
				"address":     "Address",
				"charges":     "Charges",
			},
		},
		{
			ID:             "collier",
			County:         "Collier",
			Label:          "Collier Sheriff",
			RecordType:     "Convicted",
			Kind:           KindStatic,
			URL:            "https://www2.colliersheriff.org/animalabusesearch",
			Enabled:        true,
			SkipCertVerify: true, // recurring bad TLS chain on this host
			Columns:        []string{"Type", "Name", "DOB", "Address", "Case Number", "Registration End", "Charges"},
			MinColumns:     7,
			HeaderRows:     1,
			Selector:       "table",
			FieldMap: map[string]string{
				"name":            "Name",
				"date":            "Record Date", // stamped by the extractor: expiration when present, run date when blank
				"recordType":      "Type",
				"dateOfBirth":     "DOB",
				"address":         "Address",
				"caseNumber":      "Case Number",
				"registrationEnd": "Registration End",
				"charges":         "Charges",
			},
		},
		{
			ID:           "hillsborough",
			County:       "Hillsborough",
			Label:        "Hillsborough County",
			RecordType:   "Convicted",
			Kind:         KindRendered,
			URL:          "https://hcfl.gov/residents/animals-and-pets/animal-abuser-registry",
			Enabled:      true,
			Columns:      []string{"Name", "Conviction Date"},
			MinColumns:   2,
			HeaderRows:   1,
			Selector:     "table",
			RowSelector:  "table tr",
			WaitSelector: "table",
			FieldMap: map[string]string{
				"name":    "Name",
				"date":    "Conviction Date",
				"details": "Additional",
			},
		},
		{
			ID:           "miami-dade",
			County:       "Miami-Dade",
			Label:        "Miami-Dade ASD",
			RecordType:   "Convicted",
			Kind:         KindRendered,
			URL:          "https://www.miamidade.gov/Apps/ASD/crueltyweb/",
			Enabled:      true,
			Columns:      []string{"Name", "Case Details", "Conviction Date"},
			MinColumns:   3,
			Selector:     "table",
			RowSelector:  "table tbody tr",
			WaitSelector: "tbody",
			Paginate:     true,
			NextSelector: `a[rel="next"], button.next, li.next > a`,
			FieldMap: map[string]string{
				"name":    "Name",
				"date":    "Conviction Date",
				"details": "Case Details",
			},
		},
		{
			ID:         "marion",
			County:     "Marion",
			Label:      "Marion Animal Services",
			RecordType: "Convicted",
			Kind:       KindStatic,
			URL:        "https://animalservices.marionfl.org/animal-control/animal-control-and-pet-laws/animal-abuser-registry",
			Enabled:    true,
			AnchorKey:  "Name",
			FieldMap: map[string]string{
				"name":    "Name",
				"date":    "Conviction Date",
				"details": "Details",
			},
		},
		{
			ID:             "pasco",
			County:         "Pasco",
			Label:          "Pasco Clerk",
			RecordType:     "Convicted",
			Kind:           KindRendered,
			URL:            "https://www.pascoclerk.com/153/Animal-Abuser-Search",
			Enabled:        true,
			Columns:        []string{"Name", "Case Number", "Conviction Date"},
			MinColumns:     3,
			HeaderRows:     1,
			Selector:       "table",
			RowSelector:    "table tr",
			WaitSelector:   "table",
			DisclaimerText: "Continue",
			FieldMap: map[string]string{
				"name":       "Name",
				"date":       "Conviction Date",
				"caseNumber": "Case Number",
			},
		},
		{
			ID:           "seminole",
			County:       "Seminole",
			Label:        "Seminole County",
			RecordType:   "Convicted",
			Kind:         KindRendered,
			URL:          "https://www.seminolecountyfl.gov/departments-services/prepare-seminole/animal-services/animal-abuse-registry",
			Enabled:      true,
			Columns:      []string{"Name", "Conviction Date"},
			MinColumns:   2,
			HeaderRows:   1,
			Selector:     "table",
			RowSelector:  "table tr",
			WaitSelector: "table",
			FieldMap: map[string]string{
				"name":    "Name",
				"date":    "Conviction Date",
				"details": "Additional",
			},
		},
		{
			ID:         "volusia",
			County:     "Volusia",
			Label:      "Volusia PDF",
			RecordType: "Convicted",
			Kind:       KindPDF,
			URL:        "https://vcservices.vcgov.org/AnimalControlAttachments/VolusiaAnimalAbuse.pdf",
			Enabled:    true,
			AnchorKey:  "Name",
			FieldMap: map[string]string{
				"name":    "Name",
				"date":    "Conviction Date",
				"details": "Details",
			},
		},
	}
}

// SourceByID returns the configured source with the given id.
func (c *Config) SourceByID(id string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return SourceConfig{}, false
}
