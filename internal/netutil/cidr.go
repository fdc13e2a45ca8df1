package netutil

import (
	"fmt"
	"net"
	"net/netip"
)

// blockedPrefixes lists every address range a probe must never reach.
var blockedPrefixes []netip.Prefix

func init() {
	cidrs := []string{
		// IPv4
		"127.0.0.0/8",    // loopback
		"10.0.0.0/8",     // RFC 1918
		"172.16.0.0/12",  // RFC 1918
		"192.168.0.0/16", // RFC 1918
		"169.254.0.0/16", // link-local, cloud metadata
		"0.0.0.0/8",      // "this" network
		"100.64.0.0/10",  // CGNAT

		// IPv6
		"::1/128",   // loopback
		"::/128",    // unspecified
		"fc00::/7",  // unique local
		"fe80::/10", // link-local
	}
	for _, cidr := range cidrs {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid blocked CIDR %q: %v", cidr, err))
		}
		blockedPrefixes = append(blockedPrefixes, p)
	}
}

// IsBlockedAddr reports whether addr falls inside a blocked range.
// IPv4-mapped IPv6 addresses are checked as their IPv4 form.
func IsBlockedAddr(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	addr = addr.WithZone("").Unmap()
	if addr.Is6() && isV4Compatible(addr) {
		addr = netip.AddrFrom4([4]byte(addr.AsSlice()[12:]))
	}
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// IsBlockedIP is IsBlockedAddr for net.IP values, e.g. resolver output.
func IsBlockedIP(ip net.IP) bool {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return false
	}
	return IsBlockedAddr(addr)
}

// isV4Compatible matches the deprecated ::a.b.c.d form. :: and ::1 are
// excluded; they have their own prefixes.
func isV4Compatible(addr netip.Addr) bool {
	b := addr.As16()
	for _, v := range b[:12] {
		if v != 0 {
			return false
		}
	}
	return b[12] != 0 || b[13] != 0
}
