package verifier

import (
	"math"
	"regexp"
	"strings"

	"github.com/maxvaer/linkguard/internal/urlguard"
)

// Stats summarizes a batch of results.
type Stats struct {
	Total          int            `json:"total"`
	Valid          int            `json:"valid"`
	Invalid        int            `json:"invalid"`
	ValidPercent   int            `json:"validPercent"`
	ErrorBreakdown map[string]int `json:"errorBreakdown"`
}

// Summarize counts valid and invalid results and groups failures by
// ErrorCategory. ValidPercent is 0 for an empty batch.
func Summarize(results []Result) Stats {
	s := Stats{
		Total:          len(results),
		ErrorBreakdown: make(map[string]int),
	}
	for _, r := range results {
		if r.Valid {
			s.Valid++
			continue
		}
		s.Invalid++
		s.ErrorBreakdown[ErrorCategory(r.Error)]++
	}
	if s.Total > 0 {
		s.ValidPercent = int(math.Round(100 * float64(s.Valid) / float64(s.Total)))
	}
	return s
}

// FilterValid returns the URLs of valid results in their original order.
func FilterValid(results []Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		if r.Valid {
			urls = append(urls, r.URL)
		}
	}
	return urls
}

var httpStatusRe = regexp.MustCompile(`^HTTP \d{3}`)

// categoryPrefixes are the leading clauses of the messages this module
// produces.
var categoryPrefixes = []string{
	"Internal/private",
	urlguard.MsgInvalidFormat,
	"Only HTTP/HTTPS",
	"Blocked URL scheme",
	"Double-encoded",
	urlguard.MsgPercentEncodedHost,
	"Timeout",
	"Network error",
}

// ErrorCategory normalizes an error message to its leading clause:
// "HTTP 404" stays "HTTP 404", "Internal/private address blocked" becomes
// "Internal/private", "Timeout after 5000ms" becomes "Timeout". Unknown
// messages are cut at the first colon.
func ErrorCategory(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "Unknown"
	}
	if m := httpStatusRe.FindString(msg); m != "" {
		return m
	}
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(msg, p) {
			return p
		}
	}
	if i := strings.IndexByte(msg, ':'); i > 0 {
		return strings.TrimSpace(msg[:i])
	}
	return msg
}
