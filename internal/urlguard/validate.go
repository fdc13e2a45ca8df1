// Package urlguard decides whether a URL is safe to fetch on behalf of
// untrusted content. It never touches the network.
package urlguard

import (
	"net/url"
	"strings"
)

// Validate runs every security check against raw in a fixed order and
// returns the first *Violation found, or nil if the URL may be fetched:
//
//  1. syntactic parse
//  2. scheme allow-list (http, https)
//  3. embedded blocked scheme
//  4. double encoding in path or query
//  5. percent-encoded internal hostname
//  6. internal/private host
func Validate(raw string) error {
	u, authority, rest, v := parse(raw)
	if v != nil {
		return v
	}
	if v := checkScheme(u); v != nil {
		return v
	}
	if u.Hostname() == "" {
		return violation(KindInvalidFormat, MsgInvalidFormat)
	}
	if v := checkEmbeddedScheme(userinfoPart(authority) + rest); v != nil {
		return v
	}
	if v := checkDoubleEncoding(rest); v != nil {
		return v
	}
	if v := checkEncodedHost(authority); v != nil {
		return v
	}
	if isInternalDecoded(decodeHost(u.Hostname())) {
		return violation(KindInternalAddress, MsgInternalAddress)
	}
	return nil
}

// parse returns the parsed URL plus the raw authority and everything after
// it. Go rejects most percent-escapes in hosts, so when parsing fails and
// the authority carries a '%', the host is decoded and parsing retried;
// the encoded-host check still sees the original authority.
func parse(raw string) (*url.URL, string, string, *Violation) {
	invalid := violation(KindInvalidFormat, MsgInvalidFormat)
	if raw == "" {
		return nil, "", "", invalid
	}

	authority, rest := splitRaw(raw)
	u, err := url.Parse(raw)
	if err != nil && strings.Contains(authority, "%") {
		u, err = url.Parse(rebuildDecoded(raw, authority, rest))
	}
	if err != nil || u == nil || u.Scheme == "" {
		return nil, "", "", invalid
	}
	return u, authority, rest, nil
}

// splitRaw splits "scheme://authority/rest" into authority and rest. Both
// are empty when raw has no "://".
func splitRaw(raw string) (authority, rest string) {
	i := strings.Index(raw, "://")
	if i < 0 {
		return "", ""
	}
	after := raw[i+3:]
	end := strings.IndexAny(after, "/?#")
	if end < 0 {
		return after, ""
	}
	return after[:end], after[end:]
}

// userinfoPart returns the raw userinfo of authority including its '@',
// or "" when there is none.
func userinfoPart(authority string) string {
	return authority[:strings.LastIndexByte(authority, '@')+1]
}

func rebuildDecoded(raw, authority, rest string) string {
	host := hostPart(authority)
	decoded := decodeHost(host)
	if strings.ContainsAny(decoded, "/?#@\\ ") {
		return ""
	}
	at := strings.LastIndexByte(authority, '@')
	userinfo := authority[:at+1]
	port := strings.TrimPrefix(authority[at+1:], host)
	scheme := raw[:strings.Index(raw, "://")]
	return scheme + "://" + userinfo + decoded + port + rest
}
