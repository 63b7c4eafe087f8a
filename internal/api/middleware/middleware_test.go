package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ─── fake cache ──────────────────────────────────────────────────────────────

type fakeCache struct {
	counts  map[string]int64
	incrErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: map[string]int64{}}
}

func (c *fakeCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (c *fakeCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (c *fakeCache) Delete(_ context.Context, _ string) error                         { return nil }
func (c *fakeCache) Ping(_ context.Context) error                                     { return nil }

func (c *fakeCache) IncrWithExpiry(_ context.Context, key string, _ time.Duration) (int64, error) {
	if c.incrErr != nil {
		return 0, c.incrErr
	}
	c.counts[key]++
	return c.counts[key], nil
}

// ─── rate limit ──────────────────────────────────────────────────────────────

func limitedOK(t *testing.T, rl *RateLimit, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil)
	req.RemoteAddr = remoteAddr
	rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimit(newFakeCache(), 3)

	for i := 0; i < 3; i++ {
		rec := limitedOK(t, rl, "10.0.0.1:1234")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	rl := NewRateLimit(newFakeCache(), 2)

	limitedOK(t, rl, "10.0.0.1:1234")
	limitedOK(t, rl, "10.0.0.1:1234")
	rec := limitedOK(t, rl, "10.0.0.1:1234")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After: got %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimit_KeyedByClientIP(t *testing.T) {
	rl := NewRateLimit(newFakeCache(), 1)

	limitedOK(t, rl, "10.0.0.1:1234")
	rec := limitedOK(t, rl, "10.0.0.2:1234")

	if rec.Code != http.StatusOK {
		t.Errorf("different client should not be limited, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpenOnCacheError(t *testing.T) {
	c := newFakeCache()
	c.incrErr = errors.New("redis down")
	rl := NewRateLimit(c, 1)

	rec := limitedOK(t, rl, "10.0.0.1:1234")
	if rec.Code != http.StatusOK {
		t.Errorf("expected fail-open 200, got %d", rec.Code)
	}
}

// ─── recovery ────────────────────────────────────────────────────────────────

func TestRecovery_CatchesPanic(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Recovery(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

// ─── logger ──────────────────────────────────────────────────────────────────

func TestLogger_PassesThroughStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}
