package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dnafl/scraper/internal/alert"
	"github.com/dnafl/scraper/internal/cache"
	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/extract/sources"
	"github.com/dnafl/scraper/internal/fetch"
	"github.com/dnafl/scraper/internal/model"
	"github.com/dnafl/scraper/internal/publish"
	"github.com/dnafl/scraper/internal/render"
	"github.com/dnafl/scraper/internal/run"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rehearsal     bool
	perSourceTabs bool
	workers       int
	runTimeout    time.Duration
	onlySources   []string
	useCache      bool
	credsFile     string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape every registry and republish the merged dataset",
	Long: `Run executes one full collection cycle:
- Fetch every enabled registry concurrently
- Normalize rows into the canonical schema
- Merge, deduplicate, and sort the combined table
- Replace the published spreadsheet tabs (or local CSV in rehearsal mode)

Example:
  dnafl run
  dnafl run --rehearsal
  dnafl run --only brevard --only volusia -v`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&rehearsal, "rehearsal", false, "write CSV files instead of the spreadsheet")
	runCmd.Flags().BoolVar(&perSourceTabs, "per-source-tabs", false, "also publish one tab per source")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent sources (default from config)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "overall run deadline (0 = none; a slow registry is bounded by its own waits)")
	runCmd.Flags().StringSliceVar(&onlySources, "only", nil, "restrict the run to these source ids")
	runCmd.Flags().BoolVar(&useCache, "cache", false, "cache fetched documents (development aid)")
	runCmd.Flags().StringVar(&credsFile, "credentials", "credentials.json", "service-account credentials file (GOOGLE_CREDENTIALS env overrides)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// No deadline by default: every wait inside a source is already
	// bounded, and a long run that finishes must still publish.
	ctx := context.Background()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if rehearsal {
		cfg.Publish.Rehearsal = true
	}
	if perSourceTabs {
		cfg.Publish.PerSourceTabs = true
	}
	if useCache {
		cfg.Cache.Enabled = true
	}
	if len(onlySources) > 0 {
		if err := restrictSources(cfg, onlySources); err != nil {
			return err
		}
	}

	alerter := alert.New(cfg.Alert.WebhookURL, cfg.Alert.Timeout, cfg.Publish.Rehearsal)

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		alerter.Failure(ctx, fmt.Sprintf("startup failed: %s", err))
		return err
	}

	srcs, err := sources.FromConfig(cfg)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	fetcher := fetch.New(cfg, buildCache(cfg))
	deps := extract.Deps{
		Fetcher: fetcher,
		Render:  cfg.Render,
		NewSession: func(ctx context.Context) (*render.Session, error) {
			return render.NewSession(ctx, cfg.Render)
		},
	}
	defer render.Shutdown()

	coord := run.New(cfg, srcs, deps, alerter, sink)
	report, err := coord.Run(ctx)
	if err != nil {
		return err
	}

	succeeded := 0
	for _, o := range report.Outcomes {
		if o.Err == nil && o.Records > 0 {
			succeeded++
		}
	}
	fmt.Fprintf(os.Stderr, "✓ %d/%d sources, %d records published in %s\n",
		succeeded, len(report.Outcomes), len(report.Table), report.FinishedAt.Sub(report.StartedAt).Round(time.Second))
	return nil
}

// loadConfig layers the config file over built-in defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if v := os.Getenv("SHEET_ID"); v != "" {
		cfg.Publish.SpreadsheetID = v
	}
	if v := os.Getenv("ALERT_WEBHOOK_URL"); v != "" {
		cfg.Alert.WebhookURL = v
	}
	return cfg, nil
}

func restrictSources(cfg *model.Config, ids []string) error {
	keep := make([]model.SourceConfig, 0, len(ids))
	for _, id := range ids {
		src, ok := cfg.SourceByID(id)
		if !ok {
			return fmt.Errorf("unknown source id %q", id)
		}
		src.Enabled = true
		keep = append(keep, src)
	}
	cfg.Sources = keep
	return nil
}

// buildSink selects the publishing target. Missing credentials outside
// rehearsal mode are a startup error, not a mid-run surprise.
func buildSink(ctx context.Context, cfg *model.Config) (publish.Sink, error) {
	if cfg.Publish.Rehearsal {
		return publish.CSVSink{Path: cfg.Publish.RehearsalPath, MasterTab: cfg.Publish.MasterTab}, nil
	}

	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}
	if cfg.Publish.SpreadsheetID == "" {
		return nil, fmt.Errorf("no spreadsheet configured: set SHEET_ID or publish.spreadsheet_id")
	}
	return publish.NewSheetsSink(ctx, creds, cfg.Publish.SpreadsheetID)
}

func loadCredentials() ([]byte, error) {
	if v := os.Getenv("GOOGLE_CREDENTIALS"); v != "" {
		return []byte(v), nil
	}
	data, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("no credentials: set GOOGLE_CREDENTIALS or provide %s", credsFile)
	}
	return data, nil
}

func buildCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cache.NewMemory(cfg.Cache.TTL, 10*time.Minute)
		}
		dir = home + "/.dnafl/cache"
	}
	return cache.NewLayered(cfg.Cache.TTL, dir, cfg.Cache.TTL)
}
