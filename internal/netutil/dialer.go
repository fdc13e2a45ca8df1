package netutil

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"syscall"
	"time"
)

// ErrBlockedAddress is returned by dialers built with SafeDialer when the
// resolved address of a connection is internal.
var ErrBlockedAddress = errors.New(InternalHostReason)

// SafeDialer returns a net.Dialer that refuses to connect to blocked
// addresses. The check runs on the resolved IP right before connect, so a
// public hostname that resolves (or rebinds) to 127.0.0.1 is still refused.
func SafeDialer(timeout time.Duration) *net.Dialer {
	return &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", address, err)
			}
			addr, err := netip.ParseAddr(host)
			if err != nil {
				return fmt.Errorf("unresolved address %q: %w", host, err)
			}
			if IsBlockedAddr(addr) {
				return fmt.Errorf("connect to %s: %w", addr, ErrBlockedAddress)
			}
			return nil
		},
	}
}
