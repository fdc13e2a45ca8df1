package netutil

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInternalHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		// names
		{"localhost", true},
		{"LOCALHOST", true},
		{"localhost.", true},
		{"sub.localhost", true},
		{"a.b.localhost", true},
		{"notlocalhost", false},
		{"localhost.example.com", false},
		{"example.com", false},

		// IPv4 ranges
		{"127.0.0.1", true},
		{"127.255.255.254", true},
		{"10.0.0.1", true},
		{"10.255.255.255", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"172.15.255.255", false},
		{"172.32.0.1", false},
		{"192.168.0.1", true},
		{"192.168.255.255", true},
		{"169.254.169.254", true},
		{"169.254.0.1", true},
		{"0.0.0.0", true},
		{"100.64.0.1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"93.184.216.34", false},

		// IPv6
		{"::1", true},
		{"[::1]", true},
		{"::", true},
		{"fe80::1", true},
		{"fc00::1", true},
		{"::ffff:127.0.0.1", true},
		{"::ffff:169.254.169.254", true},
		{"::ffff:8.8.8.8", false},
		{"2606:4700:4700::1111", false},

		// obfuscated IPv4
		{"2130706433", true},
		{"0x7f000001", true},
		{"0x7F.0.0.1", true},
		{"0177.0.0.1", true},
		{"127.1", true},
		{"10.1", true},
		{"0xa9.0xfe.0xa9.0xfe", true},

		// IDNA fullwidth
		{"ｌｏｃａｌｈｏｓｔ", true},
		{"１２７.０.０.１", true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInternalHost(tt.host), "IsInternalHost(%q)", tt.host)
		})
	}
}

func TestParseHostAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"127.0.0.1", "127.0.0.1", true},
		{"2130706433", "127.0.0.1", true},
		{"0x7f000001", "127.0.0.1", true},
		{"0177.0.0.01", "127.0.0.1", true},
		{"127.1", "127.0.0.1", true},
		{"192.168.257", "192.168.1.1", true},
		{"[::1]", "::1", true},
		{"256.0.0.1", "", false},
		{"1.2.3.4.5", "", false},
		{"example.com", "", false},
		{"", "", false},
		{"08.0.0.1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHostAddr(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, netip.MustParseAddr(tt.want), got)
			}
		})
	}
}

func TestIsBlockedIP(t *testing.T) {
	assert.True(t, IsBlockedIP(net.ParseIP("192.168.1.1")))
	assert.True(t, IsBlockedIP(net.ParseIP("::1")))
	assert.False(t, IsBlockedIP(net.ParseIP("8.8.4.4")))
	assert.False(t, IsBlockedIP(nil))
}

func TestSafeDialerRefusesLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	d := SafeDialer(0)
	_, err = d.Dial("tcp", ln.Addr().String())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlockedAddress)
}
