package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"

	"github.com/dnafl/scraper/internal/cache"
	"github.com/dnafl/scraper/internal/model"
	"github.com/dnafl/scraper/internal/util"
	"github.com/dnafl/scraper/internal/worker"
	"github.com/go-resty/resty/v2"
)

// Options select per-request fetch behavior. Defaults are the right choice
// for HTML pages; PDF sources set AsStream, sources with broken TLS chains
// set SkipCertVerify (from their config, never globally).
type Options struct {
	AsStream       bool
	SkipCertVerify bool
}

// Fetcher retrieves raw documents with bounded retries. Transient failures
// (timeouts, resets, 5xx) are retried with exponential backoff; 4xx
// responses are permanent misconfiguration and fail immediately.
type Fetcher struct {
	client   *resty.Client
	insecure *resty.Client
	limiter  *worker.Limiter
	robots   *util.RobotsChecker
	cache    cache.Cache
	maxBytes int64
}

// New creates a Fetcher from the process configuration. The cache may be
// nil (caching disabled).
func New(cfg *model.Config, c cache.Cache) *Fetcher {
	f := &Fetcher{
		client:   newClient(cfg, false),
		insecure: newClient(cfg, true),
		limiter:  worker.NewLimiter(cfg.Politeness.RequestsPerSecond, cfg.Politeness.Burst),
		cache:    c,
		maxBytes: cfg.HTTP.MaxBodyBytes,
	}
	if cfg.Politeness.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}
	return f
}

func newClient(cfg *model.Config, skipVerify bool) *resty.Client {
	client := resty.New().
		SetTimeout(cfg.HTTP.Timeout).
		SetHeader("User-Agent", cfg.HTTP.UserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetRetryCount(cfg.HTTP.RetryCount).
		SetRetryWaitTime(cfg.HTTP.RetryWait).
		SetRetryMaxWaitTime(cfg.HTTP.RetryWaitMax).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		})
	if skipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return client
}

// Fetch retrieves the document at url and returns its bytes. The error, if
// any, is a *TransientError or *PermanentError.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(cache.Key(url)); ok {
			slog.DebugContext(ctx, "fetch cache hit", "url", url)
			return body, nil
		}
	}

	if err := f.limiter.Wait(ctx, url); err != nil {
		return nil, &TransientError{URL: url, Err: err}
	}
	if f.robots != nil {
		allowed, _, err := f.robots.CanFetch(ctx, url)
		if err == nil && !allowed {
			return nil, &PermanentError{URL: url, Err: fmt.Errorf("disallowed by robots.txt")}
		}
	}

	var body []byte
	var err error
	if opts.AsStream {
		body, err = f.fetchStream(ctx, url, opts)
	} else {
		body, err = f.fetchBuffered(ctx, url, opts)
	}
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(cache.Key(url), body, 0); err != nil {
			slog.DebugContext(ctx, "fetch cache store failed", "url", url, "err", err)
		}
	}
	return body, nil
}

// Text retrieves the document at url as a string.
func (f *Fetcher) Text(ctx context.Context, url string, opts Options) (string, error) {
	body, err := f.Fetch(ctx, url, opts)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (f *Fetcher) fetchBuffered(ctx context.Context, url string, opts Options) ([]byte, error) {
	resp, err := f.clientFor(opts).R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &TransientError{URL: url, Err: err}
	}
	if err := classifyStatus(url, resp.StatusCode()); err != nil {
		return nil, err
	}
	body := resp.Body()
	if int64(len(body)) > f.maxBytes {
		body = body[:f.maxBytes]
	}
	return body, nil
}

// fetchStream avoids buffering the payload inside the HTTP client before
// its size is known. The bytes still land in memory: PDF parsing needs a
// seekable buffer.
func (f *Fetcher) fetchStream(ctx context.Context, url string, opts Options) ([]byte, error) {
	resp, err := f.clientFor(opts).R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return nil, &TransientError{URL: url, Err: err}
	}
	raw := resp.RawBody()
	defer raw.Close()

	if err := classifyStatus(url, resp.StatusCode()); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(raw, f.maxBytes))
	if err != nil {
		return nil, &TransientError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func (f *Fetcher) clientFor(opts Options) *resty.Client {
	if opts.SkipCertVerify {
		return f.insecure
	}
	return f.client
}

func classifyStatus(url string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500:
		// Retries are already exhausted when we get here.
		return &TransientError{URL: url, Err: fmt.Errorf("status %d after retries", status)}
	default:
		return &PermanentError{URL: url, Status: status}
	}
}
