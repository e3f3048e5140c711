// Package alert pushes short diagnostics to an external webhook. Alerting
// is best-effort by contract: its own failures never change a run's
// outcome.
package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Alerter posts failure diagnostics. A nil *Alerter or an empty webhook
// URL silently skips delivery, so call sites never branch.
type Alerter struct {
	client     *resty.Client
	webhookURL string
	rehearsal  bool
}

// New creates an Alerter. url may be empty (alerting disabled).
func New(url string, timeout time.Duration, rehearsal bool) *Alerter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Alerter{
		client:     resty.New().SetTimeout(timeout),
		webhookURL: url,
		rehearsal:  rehearsal,
	}
}

// Failure logs the message and forwards it to the webhook when one is
// configured and the run is not a rehearsal.
func (a *Alerter) Failure(ctx context.Context, message string) {
	slog.ErrorContext(ctx, message)
	if a == nil || a.webhookURL == "" || a.rehearsal {
		return
	}
	_, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": "🚨 DNAFL Scraper Alert 🚨\n" + message}).
		Post(a.webhookURL)
	if err != nil {
		slog.DebugContext(ctx, "alert delivery failed", "err", err)
	}
}
