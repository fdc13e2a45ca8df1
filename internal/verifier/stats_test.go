package verifier

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestSummarize(t *testing.T) {
	results := []Result{
		{URL: "https://a.example", Valid: true, Status: 200},
		{URL: "https://b.example", Valid: true, Status: 204},
		{URL: "http://localhost", Error: "Internal/private address blocked"},
		{URL: "http://10.0.0.1", Error: "Internal/private address blocked"},
		{URL: "https://c.example/gone", Status: 404, Error: "HTTP 404"},
	}

	s := Summarize(results)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Valid)
	assert.Equal(t, 3, s.Invalid)
	assert.Equal(t, 40, s.ValidPercent)
	assert.Equal(t, map[string]int{"Internal/private": 2, "HTTP 404": 1}, s.ErrorBreakdown)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.ValidPercent)
	assert.NotNil(t, s.ErrorBreakdown)
	assert.Empty(t, s.ErrorBreakdown)
}

func TestSummarize_Rounding(t *testing.T) {
	results := []Result{{Valid: true}, {Valid: true}, {Error: "HTTP 500"}}
	assert.Equal(t, 67, Summarize(results).ValidPercent)

	results = []Result{{Valid: true}, {Error: "HTTP 500"}, {Error: "HTTP 500"}}
	assert.Equal(t, 33, Summarize(results).ValidPercent)
}

func TestFilterValid(t *testing.T) {
	results := []Result{
		{URL: "https://a.example", Valid: true},
		{URL: "http://localhost", Error: "Internal/private address blocked"},
		{URL: "https://b.example", Valid: true},
	}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, FilterValid(results))
	assert.Empty(t, FilterValid(nil))
}

func TestErrorCategory(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"HTTP 404", "HTTP 404"},
		{"HTTP 503", "HTTP 503"},
		{"Internal/private address blocked", "Internal/private"},
		{"Timeout after 5000ms", "Timeout"},
		{"Network error: connection refused", "Network error"},
		{"Invalid URL format", "Invalid URL format"},
		{"Only HTTP/HTTPS schemes are allowed", "Only HTTP/HTTPS"},
		{"Blocked URL scheme detected: file:", "Blocked URL scheme"},
		{"Double-encoded characters detected in URL", "Double-encoded"},
		{"Percent-encoded hostname blocked: localhost", "Percent-encoded hostname blocked"},
		{"something odd: details", "something odd"},
		{"plain", "plain"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCategory(tt.msg))
		})
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThrottler_NilIsUnlimited(t *testing.T) {
	var th *Throttler
	assert.Nil(t, NewThrottler(0, nil))
	assert.NoError(t, th.Wait(context.Background()))
	assert.Equal(t, rate.Inf, th.Limit())
	th.RecordStatus(429) // must not panic
}

func TestThrottler_BackoffAndRecovery(t *testing.T) {
	th := NewThrottler(16, quietLogger())
	assert.Equal(t, rate.Limit(16), th.Limit())

	th.RecordStatus(429)
	assert.Equal(t, rate.Limit(8), th.Limit())
	th.RecordStatus(503)
	assert.Equal(t, rate.Limit(4), th.Limit())

	for range 10 {
		th.RecordStatus(429)
	}
	assert.Equal(t, rate.Limit(1), th.Limit(), "rate never drops below a sixteenth of the base")

	th.RecordStatus(200)
	assert.Equal(t, rate.Limit(2), th.Limit())
	th.RecordStatus(200)
	assert.Equal(t, rate.Limit(4), th.Limit())
}

func TestThrottler_RecoversToBase(t *testing.T) {
	th := NewThrottler(16, quietLogger())
	for range 4 {
		th.RecordStatus(429)
	}
	assert.Equal(t, rate.Limit(1), th.Limit())

	for range 100 {
		th.RecordStatus(200)
	}
	assert.Equal(t, rate.Limit(16), th.Limit(), "healthy responses restore the configured rate")

	th.RecordStatus(429)
	th.RecordStatus(404)
	assert.Equal(t, rate.Limit(16), th.Limit(), "non-throttle errors count as healthy")
}

func TestThrottler_WaitHonoursContext(t *testing.T) {
	th := NewThrottler(0.5, quietLogger())
	assert.NoError(t, th.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, th.Wait(ctx))
}
