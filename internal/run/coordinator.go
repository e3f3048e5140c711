// Package run orchestrates one full scrape: dispatch every source on a
// bounded worker pool, collect outcomes, normalize, merge, publish.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dnafl/scraper/internal/alert"
	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/merge"
	"github.com/dnafl/scraper/internal/model"
	"github.com/dnafl/scraper/internal/normalize"
	"github.com/dnafl/scraper/internal/publish"
	"github.com/dnafl/scraper/internal/worker"
)

// State is the coordinator's phase within a run.
type State string

const (
	StateIdle        State = "idle"
	StateDispatching State = "dispatching"
	StateCollecting  State = "collecting"
	StateMerging     State = "merging"
	StatePublishing  State = "publishing"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// SourceOutcome is one source's result: a record count or a contained
// failure, never both.
type SourceOutcome struct {
	SourceID string
	County   string
	Records  int
	Err      error
	Duration time.Duration
}

// Report is the run-level result. State is Failed only when every source
// yielded zero records: partial data always beats all-or-nothing. Done
// means the run collected data, not that it was delivered — a run whose
// sink rejected the tables still ends Done, with the delivery failure in
// PublishErr and in Run's returned error.
type Report struct {
	State        State
	StartedAt    time.Time
	FinishedAt   time.Time
	Outcomes     []SourceOutcome
	Table        []model.CanonicalRecord
	SourceTables map[string][]model.CanonicalRecord
	PublishErr   error
}

// Coordinator executes runs. It owns no mutable state between runs.
type Coordinator struct {
	cfg     *model.Config
	sources []extract.Source
	deps    extract.Deps
	alerter *alert.Alerter
	sink    publish.Sink
}

// New assembles a coordinator. sink may be nil (collect and merge only).
func New(cfg *model.Config, srcs []extract.Source, deps extract.Deps, alerter *alert.Alerter, sink publish.Sink) *Coordinator {
	return &Coordinator{cfg: cfg, sources: srcs, deps: deps, alerter: alerter, sink: sink}
}

// Run executes one full scrape. The returned error reflects the run-level
// outcome only: all sources empty, or publishing failed.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		State:        StateIdle,
		StartedAt:    time.Now(),
		SourceTables: make(map[string][]model.CanonicalRecord),
	}
	defer func() { report.FinishedAt = time.Now() }()

	c.transition(report, StateDispatching)
	pool := worker.NewPool(ctx, c.cfg.Concurrency.Workers)
	pool.Start()
	for _, src := range c.sources {
		pool.Submit(&sourceJob{source: src, deps: c.deps})
	}

	c.transition(report, StateCollecting)
	results := pool.Wait() // completion order

	c.transition(report, StateMerging)
	var all []model.CanonicalRecord
	for _, res := range results {
		sr := res.(*sourceResult)
		outcome := SourceOutcome{
			SourceID: sr.cfg.ID,
			County:   sr.cfg.County,
			Err:      sr.err,
			Duration: sr.duration,
		}
		if sr.err != nil {
			c.alerter.Failure(ctx, fmt.Sprintf("[%s] failed: %s", sr.cfg.ID, truncate(sr.err.Error(), 200)))
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		records := normalize.Records(sr.raw, sr.cfg)
		outcome.Records = len(records)
		report.Outcomes = append(report.Outcomes, outcome)
		if len(records) == 0 {
			slog.WarnContext(ctx, "source yielded no records", "source", sr.cfg.ID)
			continue
		}
		slog.InfoContext(ctx, "source complete", "source", sr.cfg.ID, "records", len(records), "duration", sr.duration)
		report.SourceTables[sr.cfg.Label] = append(report.SourceTables[sr.cfg.Label], records...)
		all = append(all, records...)
	}

	report.Table = merge.Merge(all)
	if len(report.Table) == 0 {
		c.transition(report, StateFailed)
		c.alerter.Failure(ctx, "global failure: no data scraped from any source")
		return report, errors.New("no source produced any records")
	}
	slog.InfoContext(ctx, "merged table ready", "records", len(report.Table))

	if c.sink != nil {
		c.transition(report, StatePublishing)
		report.PublishErr = c.publishTables(ctx, report)
	}

	// Done even when publishing failed: the collected table is in the
	// report, and the error return carries the delivery failure.
	c.transition(report, StateDone)
	if report.PublishErr != nil {
		return report, fmt.Errorf("publish: %w", report.PublishErr)
	}
	return report, nil
}

// publishTables writes the master table and, when configured, each
// source's own table. A failed table is alerted and does not block the
// rest.
func (c *Coordinator) publishTables(ctx context.Context, report *Report) error {
	header := model.Header()
	var errs []error

	if err := c.sink.Publish(ctx, c.cfg.Publish.MasterTab, header, publish.Rows(report.Table)); err != nil {
		c.alerter.Failure(ctx, fmt.Sprintf("publishing %q failed: %s", c.cfg.Publish.MasterTab, truncate(err.Error(), 200)))
		errs = append(errs, err)
	}

	if c.cfg.Publish.PerSourceTabs {
		for label, records := range report.SourceTables {
			if err := c.sink.Publish(ctx, label, header, publish.Rows(records)); err != nil {
				c.alerter.Failure(ctx, fmt.Sprintf("publishing %q failed: %s", label, truncate(err.Error(), 200)))
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Coordinator) transition(report *Report, next State) {
	report.State = next
	slog.Debug("run state", "state", next)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sourceJob adapts one source to the worker pool, containing both errors
// and panics at the source boundary so no jurisdiction can abort another.
type sourceJob struct {
	source extract.Source
	deps   extract.Deps
}

type sourceResult struct {
	cfg      model.SourceConfig
	raw      []model.RawRecord
	err      error
	duration time.Duration
}

func (r *sourceResult) GetError() error { return r.err }

func (j *sourceJob) Execute(ctx context.Context) worker.Result {
	start := time.Now()
	out := &sourceResult{cfg: j.source.Config()}

	func() {
		defer func() {
			if p := recover(); p != nil {
				out.err = fmt.Errorf("extractor crashed: %v", p)
			}
		}()
		out.raw, out.err = j.source.Extract(ctx, j.deps)
	}()

	out.duration = time.Since(start)
	return out
}
