package verifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maxvaer/linkguard/internal/netutil"
	"github.com/maxvaer/linkguard/internal/urlguard"
)

// drainLimit caps how much of a response body is read before closing, so
// keep-alive connections can be reused without downloading whole pages.
const drainLimit = 4 << 10

// Response holds what a probe needs from an HTTP response.
type Response struct {
	StatusCode int
	// FinalURL is the URL that answered, after any redirects.
	FinalURL string
}

// Requester issues single GET requests for reachability probes.
type Requester struct {
	client    *http.Client
	userAgent string
}

// NewRequester wraps client, or builds the hardened default client when
// client is nil.
func NewRequester(client *http.Client, userAgent string) *Requester {
	if client == nil {
		client = newSafeClient()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Requester{client: client, userAgent: userAgent}
}

// newSafeClient never dials internal addresses, ignores proxy environment
// variables and re-validates every redirect target.
func newSafeClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           netutil.SafeDialer(10 * time.Second).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			if err := urlguard.Validate(req.URL.String()); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}
}

// Do sends one GET request to rawURL. The caller bounds it through ctx.
func (r *Requester) Do(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	return &Response{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}
