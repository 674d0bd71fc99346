package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestProber() *Prober {
	p := NewProber(2 * time.Second)
	p.BackoffUnit = time.Millisecond
	return p
}

func countingServer(t *testing.T, status int, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestValidate_OKStopsImmediately(t *testing.T) {
	var calls int32
	server := countingServer(t, http.StatusOK, &calls)

	ok := newTestProber().Validate(context.Background(), server.URL, 3)

	assert.True(t, ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestValidate_NotFoundNeverRetries(t *testing.T) {
	var calls int32
	server := countingServer(t, http.StatusNotFound, &calls)

	ok := newTestProber().Validate(context.Background(), server.URL, 5)

	assert.False(t, ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestValidate_ServerErrorRetriesUntilCap(t *testing.T) {
	var calls int32
	server := countingServer(t, http.StatusInternalServerError, &calls)

	ok := newTestProber().Validate(context.Background(), server.URL, 3)

	assert.False(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestValidate_RecoversOnLaterAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ok := newTestProber().Validate(context.Background(), server.URL, 3)

	assert.True(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestValidate_RetryDelaysGrow(t *testing.T) {
	var mu sync.Mutex
	var stamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	unit := 60 * time.Millisecond
	p := NewProber(2 * time.Second)
	p.BackoffUnit = unit

	ok := p.Validate(context.Background(), server.URL, 3)

	assert.False(t, ok)
	mu.Lock()
	defer mu.Unlock()
	if !assert.Len(t, stamps, 3) {
		return
	}
	// Attempt i sleeps i units, so the second gap spans at least twice
	// the unit while the first spans at least one.
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), unit)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 2*unit)
}

func TestValidate_EmptyURL(t *testing.T) {
	ok := newTestProber().Validate(context.Background(), "", 3)
	assert.False(t, ok)
}

func TestValidate_ConnectionErrorExhaustsAttempts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing is listening anymore

	ok := newTestProber().Validate(context.Background(), url, 2)
	assert.False(t, ok)
}

func TestValidate_FollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	ok := newTestProber().Validate(context.Background(), redirecting.URL, 1)
	assert.True(t, ok)
}
