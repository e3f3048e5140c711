package render

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/dnafl/scraper/internal/model"
)

var (
	allocOnce   sync.Once
	allocCtx    context.Context
	allocCancel context.CancelFunc
)

// allocator returns the shared browser allocator, initialized once for the
// whole process. Sessions are per-task; only the allocator is shared.
func allocator(userAgent string) context.Context {
	allocOnce.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", "new"),
			chromedp.NoSandbox,
			chromedp.DisableGPU,
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1920, 1080),
			chromedp.UserAgent(userAgent),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	})
	return allocCtx
}

// Shutdown releases the shared allocator. Call once, at process exit.
func Shutdown() {
	if allocCancel != nil {
		allocCancel()
	}
}

// Session is one headless browser tab. Each source task gets its own; a
// hung page is bounded only by the session's own timeouts.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	waitTimeout time.Duration
	loadTimeout time.Duration
	settleDelay time.Duration
}

// NewSession opens a fresh browser context under the shared allocator.
func NewSession(parent context.Context, cfg model.RenderConfig) (*Session, error) {
	ctx, cancel := chromedp.NewContext(allocator(cfg.UserAgent))
	// Fail fast if the browser cannot start at all.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return &Session{
		ctx:         ctx,
		cancel:      cancel,
		waitTimeout: cfg.WaitTimeout,
		loadTimeout: cfg.PageLoadTimeout,
		settleDelay: cfg.SettleDelay,
	}, nil
}

// Close tears the browser context down.
func (s *Session) Close() {
	s.cancel()
}

// Navigate loads the URL, bounded by the page-load timeout.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.loadTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// WaitFor waits for an element matching sel to become ready. A timeout is
// an expected outcome (zero records for the page), not an error.
func (s *Session) WaitFor(sel string) bool {
	ctx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitReady(sel, chromedp.ByQuery)) == nil
}

// SubmitEnter sends the Enter key to the element matching sel, the way a
// user submits an empty search form.
func (s *Session) SubmitEnter(sel string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	defer cancel()
	if err := chromedp.Run(ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, kb.Enter, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("submit %s: %w", sel, err)
	}
	return nil
}

// ClickLinkByText clicks the first link whose text contains the given
// fragment. Absence within the bounded wait is fine — disclaimer banners
// come and go.
func (s *Session) ClickLinkByText(text string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	xpath := fmt.Sprintf(`//a[contains(text(), %s)]`, strconv.Quote(text))
	return chromedp.Run(ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	) == nil
}

// HTML returns the current rendered document.
func (s *Session) HTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	defer cancel()
	var out string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return out, nil
}

// Text returns the text content of the first element matching sel.
func (s *Session) Text(sel string) (string, bool) {
	ctx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	defer cancel()
	var out string
	if err := chromedp.Run(ctx, chromedp.Text(sel, &out, chromedp.ByQuery)); err != nil {
		return "", false
	}
	return out, true
}

// ControlState describes a pagination control probe.
type ControlState int

const (
	ControlAbsent ControlState = iota
	ControlDisabled
	ControlEnabled
)

// NextControl probes for a "next page" control without treating absence as
// a failure — a missing or disabled control just means the last page.
func (s *Session) NextControl(sel string) ControlState {
	ctx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	defer cancel()
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return "absent";
		if (el.disabled || el.getAttribute("aria-disabled") === "true" || el.classList.contains("disabled")) return "disabled";
		return "enabled";
	})()`, strconv.Quote(sel))
	var state string
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &state)); err != nil {
		return ControlAbsent
	}
	switch state {
	case "enabled":
		return ControlEnabled
	case "disabled":
		return ControlDisabled
	default:
		return ControlAbsent
	}
}

// Click clicks the first element matching sel.
func (s *Session) Click(sel string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.waitTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

// WaitStale polls the element matching sel until its text differs from
// oldText, reporting whether the change happened before the deadline. This
// is how we detect that pagination actually replaced the table.
func (s *Session) WaitStale(sel, oldText string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		current, ok := s.Text(sel)
		if !ok || current != oldText {
			return true
		}
		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(250 * time.Millisecond):
		}
	}
	return false
}

// Settle pauses briefly so a freshly rendered page can finish mutating
// before we read or click anything.
func (s *Session) Settle() {
	select {
	case <-s.ctx.Done():
	case <-time.After(s.settleDelay):
	}
}
