package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dnafl/scraper/internal/cache"
	"github.com/dnafl/scraper/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.RetryWait = time.Millisecond
	cfg.HTTP.RetryWaitMax = 5 * time.Millisecond
	cfg.Politeness.RequestsPerSecond = 1000
	cfg.Politeness.Burst = 100
	cfg.Politeness.RespectRobots = false
	return cfg
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	f := New(testConfig(), nil)
	body, err := f.Text(context.Background(), server.URL, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if body != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	f := New(testConfig(), nil)
	body, err := f.Text(context.Background(), server.URL, Options{})
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if body != "<html>OK</html>" {
		t.Errorf("Unexpected body: %s", body)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_PermanentNoRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(testConfig(), nil)
	_, err := f.Fetch(context.Background(), server.URL, Options{})
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	var perm *PermanentError
	if !errors.As(err, &perm) {
		t.Fatalf("Expected *PermanentError, got %T: %v", err, err)
	}
	if perm.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", perm.Status)
	}
	if IsTransient(err) {
		t.Error("404 must not classify as transient")
	}
	if attempts.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", attempts.Load())
	}
}

func TestFetch_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := New(testConfig(), nil)
	_, err := f.Fetch(context.Background(), server.URL, Options{})
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if !IsTransient(err) {
		t.Errorf("Expected transient classification, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_BodyTruncatedAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.HTTP.MaxBodyBytes = 4
	f := New(cfg, nil)

	body, err := f.Fetch(context.Background(), server.URL, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != "0123" {
		t.Errorf("Expected truncated body, got %q", body)
	}

	body, err = f.Fetch(context.Background(), server.URL, Options{AsStream: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != "0123" {
		t.Errorf("Expected truncated stream body, got %q", body)
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, "cached")
	}))
	defer server.Close()

	f := New(testConfig(), cache.NewMemory(time.Minute, time.Minute))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		body, err := f.Fetch(ctx, server.URL, Options{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if string(body) != "cached" {
			t.Errorf("Unexpected body: %q", body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 network hit, got %d", hits.Load())
	}
}
