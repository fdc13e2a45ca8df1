package verifier

import (
	"time"

	"github.com/maxvaer/linkguard/internal/urlguard"
)

// Kind classifies the outcome of a probe.
type Kind string

const (
	KindNone                  Kind = ""
	KindInvalidFormat         Kind = "invalid_format"
	KindBlockedScheme         Kind = "blocked_scheme"
	KindEmbeddedBlockedScheme Kind = "embedded_blocked_scheme"
	KindDoubleEncoded         Kind = "double_encoded"
	KindPercentEncodedHost    Kind = "percent_encoded_host"
	KindInternalAddress       Kind = "internal_address"
	KindNetwork               Kind = "network_unreachable"
	KindHTTP                  Kind = "http_error"
	KindTimeout               Kind = "timeout"
)

// kindFromViolation maps a validator rejection onto the probe taxonomy.
func kindFromViolation(k urlguard.Kind) Kind {
	switch k {
	case urlguard.KindInvalidFormat:
		return KindInvalidFormat
	case urlguard.KindBlockedScheme:
		return KindBlockedScheme
	case urlguard.KindEmbeddedBlockedScheme:
		return KindEmbeddedBlockedScheme
	case urlguard.KindDoubleEncoded:
		return KindDoubleEncoded
	case urlguard.KindPercentEncodedHost:
		return KindPercentEncodedHost
	case urlguard.KindInternalAddress:
		return KindInternalAddress
	default:
		return KindInvalidFormat
	}
}

// Result holds the outcome of verifying a single URL. A valid result has a
// 2xx Status and no Error; an invalid one always has an Error.
type Result struct {
	URL      string        `json:"url"`
	Valid    bool          `json:"valid"`
	Status   int           `json:"status,omitempty"`
	Error    string        `json:"error,omitempty"`
	Kind     Kind          `json:"kind,omitempty"`
	Duration time.Duration `json:"-"`
}

func valid(url string, status int) Result {
	return Result{URL: url, Valid: true, Status: status}
}

func invalid(url string, kind Kind, msg string) Result {
	return Result{URL: url, Kind: kind, Error: msg}
}
