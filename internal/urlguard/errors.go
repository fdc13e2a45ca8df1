package urlguard

import (
	"errors"

	"github.com/maxvaer/linkguard/internal/netutil"
)

// Kind classifies why a URL was rejected.
type Kind int

const (
	KindInvalidFormat Kind = iota + 1
	KindBlockedScheme
	KindEmbeddedBlockedScheme
	KindDoubleEncoded
	KindPercentEncodedHost
	KindInternalAddress
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid_format"
	case KindBlockedScheme:
		return "blocked_scheme"
	case KindEmbeddedBlockedScheme:
		return "embedded_blocked_scheme"
	case KindDoubleEncoded:
		return "double_encoded"
	case KindPercentEncodedHost:
		return "percent_encoded_host"
	case KindInternalAddress:
		return "internal_address"
	default:
		return "unknown"
	}
}

// Rejection messages. Callers match on their leading words, keep them stable.
const (
	MsgInvalidFormat      = "Invalid URL format"
	MsgBlockedScheme      = "Only HTTP/HTTPS schemes are allowed"
	MsgEmbeddedScheme     = "Blocked URL scheme detected"
	MsgDoubleEncoded      = "Double-encoded characters detected in URL"
	MsgPercentEncodedHost = "Percent-encoded hostname blocked"
	MsgInternalAddress    = netutil.InternalHostReason
)

// ErrBlocked matches every *Violation with errors.Is.
var ErrBlocked = errors.New("url blocked")

// Violation is the error returned by Validate.
type Violation struct {
	Kind    Kind
	Message string
}

func (v *Violation) Error() string { return v.Message }

// Is lets errors.Is(err, ErrBlocked) succeed for any violation.
func (v *Violation) Is(target error) bool { return target == ErrBlocked }

// KindOf returns the violation kind carried by err, or 0 if err is not a
// *Violation.
func KindOf(err error) Kind {
	var v *Violation
	if errors.As(err, &v) {
		return v.Kind
	}
	return 0
}

func violation(kind Kind, msg string) *Violation {
	return &Violation{Kind: kind, Message: msg}
}
