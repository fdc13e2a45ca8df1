package verifier

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxvaer/linkguard/internal/urlguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAll_Empty(t *testing.T) {
	results := testVerifier(t).VerifyAll(context.Background(), nil, BatchOptions{})
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestVerifyAll_PreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(rand.IntN(20)) * time.Millisecond)
		code, _ := strconv.Atoi(r.URL.Query().Get("code"))
		w.WriteHeader(code)
	}))
	defer srv.Close()

	var urls []string
	for i := range 30 {
		code := http.StatusOK
		if i%3 == 0 {
			code = http.StatusNotFound
		}
		urls = append(urls, fmt.Sprintf("%s/item/%d?code=%d", srv.URL, i, code))
	}

	results := testVerifier(t).VerifyAll(context.Background(), urls, BatchOptions{Concurrency: 4})
	require.Len(t, results, len(urls))
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL)
		if i%3 == 0 {
			assert.False(t, r.Valid, urls[i])
			assert.Equal(t, "HTTP 404", r.Error)
		} else {
			assert.True(t, r.Valid, urls[i])
		}
	}
}

func TestVerifyAll_ConcurrencyBound(t *testing.T) {
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}))
	defer srv.Close()

	urls := make([]string, 20)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/%d", srv.URL, i)
	}

	results := testVerifier(t).VerifyAll(context.Background(), urls, BatchOptions{Concurrency: 3})
	require.Len(t, results, len(urls))
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, len(urls), Summarize(results).Valid)
}

func TestVerifyAll_BlockedAddresses(t *testing.T) {
	urls := []string{"http://localhost", "http://127.0.0.1", "http://10.0.0.1"}

	results := VerifyURLs(context.Background(), urls, BatchOptions{Concurrency: 2})
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL)
		assert.False(t, r.Valid)
		assert.Contains(t, r.Error, "Internal/private")
	}
}

func TestVerifyAll_MixedFailuresIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	v := New(Config{Client: &http.Client{}, Validator: func(raw string) error {
		if raw == "not-a-url" {
			return urlguard.Validate(raw)
		}
		return nil
	}})
	urls := []string{srv.URL, "not-a-url", closedURL, srv.URL + "/again"}

	results := v.VerifyAll(context.Background(), urls, BatchOptions{Concurrency: 2, Timeout: time.Second})
	require.Len(t, results, 4)
	assert.True(t, results[0].Valid)
	assert.Equal(t, KindInvalidFormat, results[1].Kind)
	assert.Equal(t, KindNetwork, results[2].Kind)
	assert.True(t, results[3].Valid)
}

func TestVerifyAll_OnResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	var mu sync.Mutex
	seen := make(map[int]string)

	testVerifier(t).VerifyAll(context.Background(), urls, BatchOptions{
		Concurrency: 2,
		OnResult: func(i int, r Result) {
			mu.Lock()
			seen[i] = r.URL
			mu.Unlock()
		},
	})

	require.Len(t, seen, 3)
	for i, u := range urls {
		assert.Equal(t, u, seen[i])
	}
}

func TestVerifyAll_ConcurrencyLargerThanBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	results := testVerifier(t).VerifyAll(context.Background(), []string{srv.URL}, BatchOptions{Concurrency: 50})
	require.Len(t, results, 1)
	assert.True(t, results[0].Valid)
}

func TestVerifyAll_CancelledResolvesEverySlot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{srv.URL + "/1", srv.URL + "/2", srv.URL + "/3"}
	results := testVerifier(t).VerifyAll(ctx, urls, BatchOptions{Concurrency: 2})
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL)
		assert.False(t, r.Valid)
		assert.NotEmpty(t, r.Error)
	}
}
