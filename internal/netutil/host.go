// Package netutil classifies hosts and addresses that point into internal
// or private network space.
package netutil

import (
	"net/netip"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// InternalHostReason is the rejection message for internal hosts.
const InternalHostReason = "Internal/private address blocked"

// IsInternalHost reports whether host (an already percent-decoded hostname
// or IP literal, optionally bracketed) denotes loopback, private, link-local
// or otherwise non-public address space.
func IsInternalHost(host string) bool {
	for _, h := range hostForms(host) {
		if isLocalhostName(h) {
			return true
		}
		if addr, ok := ParseHostAddr(h); ok && IsBlockedAddr(addr) {
			return true
		}
	}
	return false
}

// hostForms returns the lowercase host and, when it differs, its IDNA
// lookup mapping. Both are classified; either one matching blocks the host.
func hostForms(host string) []string {
	h := strings.ToLower(strings.TrimSpace(host))
	h = strings.TrimPrefix(h, "[")
	h = strings.TrimSuffix(h, "]")
	h = strings.TrimSuffix(h, ".")
	forms := []string{h}

	// ToASCII returns a usable mapping alongside most errors.
	if mapped, _ := idna.Lookup.ToASCII(h); mapped != "" && mapped != h {
		forms = append(forms, strings.TrimSuffix(strings.ToLower(mapped), "."))
	}
	return forms
}

func isLocalhostName(h string) bool {
	return h == "localhost" || strings.HasSuffix(h, ".localhost")
}

// ParseHostAddr parses h as an IP literal. Besides the canonical forms it
// accepts the legacy IPv4 spellings many resolvers still honour
// (2130706433, 0x7f000001, 0177.0.0.1, 127.1).
func ParseHostAddr(h string) (netip.Addr, bool) {
	h = strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(strings.TrimPrefix(h, "["), "]"), "."))
	if addr, err := netip.ParseAddr(h); err == nil {
		return addr, true
	}
	return parseLegacyIPv4(h)
}

func parseLegacyIPv4(h string) (netip.Addr, bool) {
	parts := strings.Split(h, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return netip.Addr{}, false
	}

	vals := make([]uint64, len(parts))
	for i, p := range parts {
		v, ok := parseIPv4Part(p)
		if !ok {
			return netip.Addr{}, false
		}
		vals[i] = v
	}

	// All but the last part are single octets; the last fills the rest.
	var n uint64
	for i, v := range vals[:len(vals)-1] {
		if v > 0xff {
			return netip.Addr{}, false
		}
		n |= v << (8 * (3 - uint(i)))
	}
	last := vals[len(vals)-1]
	if last >= 1<<(8*(5-uint(len(vals)))) {
		return netip.Addr{}, false
	}
	n |= last

	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}), true
}

func parseIPv4Part(p string) (uint64, bool) {
	if p == "" {
		return 0, false
	}
	base := 10
	switch {
	case strings.HasPrefix(p, "0x"):
		base, p = 16, p[2:]
		if p == "" {
			return 0, true
		}
	case len(p) > 1 && p[0] == '0':
		base, p = 8, p[1:]
	}
	v, err := strconv.ParseUint(p, base, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}
