package urlguard

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/maxvaer/linkguard/internal/netutil"
)

// doubleEncodedRe matches an encoded '%' followed by a hex pair, e.g. the
// %252e in %252e%252e (../ encoded twice).
var doubleEncodedRe = regexp.MustCompile(`%25[0-9A-Fa-f]{2}`)

// maxDecodeRounds bounds iterative host decoding.
const maxDecodeRounds = 5

// checkDoubleEncoding looks at the path and query only. Fragments and
// userinfo are never inspected.
func checkDoubleEncoding(rest string) *Violation {
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	if doubleEncodedRe.MatchString(rest) {
		return violation(KindDoubleEncoded, MsgDoubleEncoded)
	}
	return nil
}

// checkEncodedHost rejects an authority whose host is percent-encoded and
// decodes to an internal host.
func checkEncodedHost(authority string) *Violation {
	host := hostPart(authority)
	if !strings.Contains(host, "%") {
		return nil
	}
	decoded := decodeHost(host)
	if isInternalDecoded(decoded) {
		return violation(KindPercentEncodedHost, MsgPercentEncodedHost+": "+hostPrefix(decoded))
	}
	return nil
}

// isInternalDecoded classifies a decoded host both whole and cut at its
// first non-hostname byte, so trailing junk such as a NUL cannot hide an
// internal host from the classifier.
func isInternalDecoded(host string) bool {
	if netutil.IsInternalHost(host) {
		return true
	}
	if p := hostPrefix(host); p != host {
		return netutil.IsInternalHost(p)
	}
	return false
}

// hostPrefix returns host up to the first ASCII byte that cannot appear in
// a hostname, IP literal or bracketed IPv6 address. Non-ASCII bytes are
// kept for IDNA mapping.
func hostPrefix(host string) string {
	for i := 0; i < len(host); i++ {
		c := host[i]
		switch {
		case c >= 0x80,
			'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '.', c == '-', c == ':', c == '[', c == ']':
		default:
			return host[:i]
		}
	}
	return host
}

// decodeHost percent-decodes host until it stops changing, so %256c
// (an encoded %6c) still ends up as "l".
func decodeHost(host string) string {
	for range maxDecodeRounds {
		decoded, err := url.PathUnescape(host)
		if err != nil || decoded == host {
			break
		}
		host = decoded
	}
	return host
}

// hostPart strips userinfo and port from a raw authority.
func hostPart(authority string) string {
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}
	if strings.HasPrefix(authority, "[") {
		if i := strings.IndexByte(authority, ']'); i >= 0 {
			return authority[:i+1]
		}
		return authority
	}
	if i := strings.IndexByte(authority, ':'); i >= 0 {
		return authority[:i]
	}
	return authority
}
