// Package verifier confirms that URLs which pass urlguard validation are
// actually reachable, one bounded request per URL, with a bounded number of
// probes in flight.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/maxvaer/linkguard/internal/netutil"
	"github.com/maxvaer/linkguard/internal/urlguard"
	"github.com/maxvaer/linkguard/pkg/version"
)

const (
	// DefaultTimeout bounds a single probe.
	DefaultTimeout = 5 * time.Second
	// DefaultConcurrency bounds probes in flight during a batch.
	DefaultConcurrency = 5
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
var DefaultUserAgent = "linkguard/" + version.Version

// VerifyOptions configures a single probe.
type VerifyOptions struct {
	Timeout time.Duration // <= 0 uses DefaultTimeout
}

func (o VerifyOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Config configures a Verifier. The zero value is ready to use.
type Config struct {
	// Client overrides the hardened default HTTP client.
	Client *http.Client
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// RateLimit caps requests per second across all probes; 0 disables it.
	RateLimit float64
	// Validator replaces urlguard.Validate. Tests use it to reach
	// httptest servers on loopback; production code leaves it nil.
	Validator func(string) error
	Logger    *slog.Logger
}

// Verifier runs reachability probes. It holds no per-call state and is safe
// for concurrent use.
type Verifier struct {
	req       *Requester
	throttler *Throttler
	validate  func(string) error
	logger    *slog.Logger
}

// New creates a Verifier from cfg.
func New(cfg Config) *Verifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	validate := cfg.Validator
	if validate == nil {
		validate = urlguard.Validate
	}
	return &Verifier{
		req:       NewRequester(cfg.Client, cfg.UserAgent),
		throttler: NewThrottler(cfg.RateLimit, logger),
		validate:  validate,
		logger:    logger,
	}
}

// Verify validates rawURL and, if it passes, issues one request bounded by
// opts.Timeout. It never fails: every outcome is reported in the Result.
func (v *Verifier) Verify(ctx context.Context, rawURL string, opts VerifyOptions) Result {
	if err := v.validate(rawURL); err != nil {
		v.logger.Debug("URL rejected", slog.String("url", rawURL), slog.String("reason", err.Error()))
		return invalid(rawURL, kindFromViolation(urlguard.KindOf(err)), err.Error())
	}

	timeout := opts.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result := v.probe(ctx, rawURL, timeout)
	result.Duration = time.Since(start)

	v.logger.Debug("Probe finished",
		slog.String("url", rawURL),
		slog.Bool("valid", result.Valid),
		slog.Int("status", result.Status),
		slog.String("error", result.Error),
		slog.Duration("duration", result.Duration))
	return result
}

func (v *Verifier) probe(ctx context.Context, rawURL string, timeout time.Duration) Result {
	if err := v.throttler.Wait(ctx); err != nil {
		// The limiter refuses early when the deadline cannot be met.
		if errors.Is(ctx.Err(), context.Canceled) {
			return classifyError(ctx, rawURL, ctx.Err(), timeout)
		}
		return invalid(rawURL, KindTimeout, timeoutMessage(timeout))
	}

	resp, err := v.req.Do(ctx, rawURL)
	if err != nil {
		return classifyError(ctx, rawURL, err, timeout)
	}
	v.throttler.RecordStatus(resp.StatusCode)
	if resp.FinalURL != rawURL {
		v.logger.Debug("Redirected", slog.String("url", rawURL), slog.String("final_url", resp.FinalURL))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r := invalid(rawURL, KindHTTP, fmt.Sprintf("HTTP %d", resp.StatusCode))
		r.Status = resp.StatusCode
		return r
	}
	return valid(rawURL, resp.StatusCode)
}

// classifyError turns a transport error into a result. Timeouts are
// reported separately from other network failures.
func classifyError(ctx context.Context, rawURL string, err error, timeout time.Duration) Result {
	var violation *urlguard.Violation
	if errors.As(err, &violation) {
		return invalid(rawURL, kindFromViolation(violation.Kind), violation.Message)
	}
	if errors.Is(err, netutil.ErrBlockedAddress) {
		return invalid(rawURL, KindInternalAddress, netutil.InternalHostReason)
	}

	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return invalid(rawURL, KindTimeout, timeoutMessage(timeout))
	}
	return invalid(rawURL, KindNetwork, "Network error: "+rootCause(err).Error())
}

// rootCause strips the *url.Error and *net.OpError wrappers, which repeat
// the URL and address already present in the result.
func rootCause(err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func timeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Timeout after %dms", timeout.Milliseconds())
}

// Check validates rawURL without any network access. A URL that passes is
// reported Valid with no Status.
func (v *Verifier) Check(rawURL string) Result {
	if err := v.validate(rawURL); err != nil {
		return invalid(rawURL, kindFromViolation(urlguard.KindOf(err)), err.Error())
	}
	return Result{URL: rawURL, Valid: true}
}

// IsReachable reports whether rawURL passes validation and answers with a
// 2xx status within DefaultTimeout.
func (v *Verifier) IsReachable(ctx context.Context, rawURL string) bool {
	return v.Verify(ctx, rawURL, VerifyOptions{}).Valid
}

var defaultVerifier = sync.OnceValue(func() *Verifier { return New(Config{}) })

// VerifyURL probes rawURL with the default Verifier.
func VerifyURL(ctx context.Context, rawURL string, opts VerifyOptions) Result {
	return defaultVerifier().Verify(ctx, rawURL, opts)
}

// VerifyURLs probes urls with the default Verifier.
func VerifyURLs(ctx context.Context, urls []string, opts BatchOptions) []Result {
	return defaultVerifier().VerifyAll(ctx, urls, opts)
}

// IsURLReachable is IsReachable on the default Verifier.
func IsURLReachable(ctx context.Context, rawURL string) bool {
	return defaultVerifier().IsReachable(ctx, rawURL)
}
