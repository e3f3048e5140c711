package extract

import (
	"context"
	"time"

	"github.com/dnafl/scraper/internal/fetch"
	"github.com/dnafl/scraper/internal/model"
	"github.com/dnafl/scraper/internal/render"
)

// Source is one jurisdiction's extraction procedure. Implementations are
// stateless; everything they need arrives through Deps and their own
// config. Adding a jurisdiction means adding one implementation, not
// touching shared logic.
type Source interface {
	ID() string
	Config() model.SourceConfig
	Extract(ctx context.Context, deps Deps) ([]model.RawRecord, error)
}

// Deps carries the collaborators a source may use. NewSession is a factory
// so tests (and PDF/static sources) never pay for a browser.
type Deps struct {
	Fetcher    *fetch.Fetcher
	Render     model.RenderConfig
	NewSession func(ctx context.Context) (*render.Session, error)
	Now        func() time.Time
}

// RunDate returns today's date in canonical form, for sources whose tables
// carry no date column.
func (d Deps) RunDate() string {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return now().Format("2006-01-02")
}

// Base carries the configured identity shared by all source
// implementations.
type Base struct {
	Cfg model.SourceConfig
}

func (b Base) ID() string                 { return b.Cfg.ID }
func (b Base) Config() model.SourceConfig { return b.Cfg }
