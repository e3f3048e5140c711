package sources

import (
	"fmt"

	"github.com/dnafl/scraper/internal/extract"
	"github.com/dnafl/scraper/internal/model"
)

// builders maps source ids to their bespoke flows. Ids not listed here
// fall back to the generic extractor for their kind, so a new plain
// table source is config-only.
var builders = map[string]func(model.SourceConfig) extract.Source{
	"brevard":      func(c model.SourceConfig) extract.Source { return Brevard{extract.Base{Cfg: c}} },
	"lee-enjoined": func(c model.SourceConfig) extract.Source { return LeeEnjoined{extract.Base{Cfg: c}} },
	"lee-registry": func(c model.SourceConfig) extract.Source { return LeeRegistry{extract.Base{Cfg: c}} },
	"collier":      func(c model.SourceConfig) extract.Source { return Collier{extract.Base{Cfg: c}} },
	"miami-dade":   func(c model.SourceConfig) extract.Source { return MiamiDade{extract.Base{Cfg: c}} },
	"marion":       func(c model.SourceConfig) extract.Source { return Marion{extract.Base{Cfg: c}} },
	"pasco":        func(c model.SourceConfig) extract.Source { return Pasco{extract.Base{Cfg: c}} },
	"volusia":      func(c model.SourceConfig) extract.Source { return Volusia{extract.Base{Cfg: c}} },
}

// FromConfig builds the enabled sources from configuration.
func FromConfig(cfg *model.Config) ([]extract.Source, error) {
	var out []extract.Source
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			continue
		}
		if build, ok := builders[sc.ID]; ok {
			out = append(out, build(sc))
			continue
		}
		switch sc.Kind {
		case model.KindStatic:
			out = append(out, StaticTable{extract.Base{Cfg: sc}})
		case model.KindRendered:
			out = append(out, RenderedTable{extract.Base{Cfg: sc}})
		default:
			return nil, fmt.Errorf("source %q: no extractor for kind %q", sc.ID, sc.Kind)
		}
	}
	return out, nil
}
