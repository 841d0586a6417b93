// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
		wantOK     bool
	}{
		{
			name:       "public remote address",
			remoteAddr: "203.0.113.7:443",
			want:       "203.0.113.7",
			wantOK:     true,
		},
		{
			name:       "public remote ignores proxy headers",
			remoteAddr: "203.0.113.7:443",
			headers:    map[string]string{"X-Real-IP": "198.51.100.1"},
			want:       "203.0.113.7",
			wantOK:     true,
		},
		{
			name:       "trusted proxy X-Real-IP",
			remoteAddr: "10.0.0.2:8080",
			headers:    map[string]string{"X-Real-IP": "198.51.100.1", "X-Forwarded-For": "192.0.2.1"},
			want:       "198.51.100.1",
			wantOK:     true,
		},
		{
			name:       "trusted proxy X-Forwarded-For last hop",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Forwarded-For": "192.0.2.1, 198.51.100.9"},
			want:       "198.51.100.9",
			wantOK:     true,
		},
		{
			name:       "malformed forwarded address falls back to remote",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "127.0.0.1",
			wantOK:     true,
		},
		{
			name:       "IPv4-mapped IPv6 is unmapped",
			remoteAddr: "[::ffff:203.0.113.7]:443",
			want:       "203.0.113.7",
			wantOK:     true,
		},
		{
			name:       "IPv6 remote",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
			wantOK:     true,
		},
		{
			name:       "unparsable remote",
			remoteAddr: "@",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr

			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			addr, ok := clientAddr(req)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, addr.String())
			}
		})
	}
}

func TestAddrMatchesList(t *testing.T) {
	t.Parallel()

	list := []string{"192.0.2.10", "198.51.100.0/24", "2001:db8::/32", "garbage", "300.1.1.1/8"}

	tests := []struct {
		addr string
		want bool
	}{
		{"192.0.2.10", true},
		{"192.0.2.11", false},
		{"198.51.100.200", true},
		{"2001:db8:1::5", true},
		{"2001:db9::1", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, addrMatchesList(netip.MustParseAddr(tt.addr), list), tt.addr)
	}

	assert.False(t, addrMatchesList(netip.MustParseAddr("192.0.2.10"), nil))
}

func TestNetworkOf(t *testing.T) {
	t.Parallel()

	v4, err := networkOf(netip.MustParseAddr("203.0.113.77"), 24, 64)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.0/24", v4.String())

	v6, err := networkOf(netip.MustParseAddr("2001:db8:aaaa:bbbb:1::1"), 24, 48)
	require.NoError(t, err)
	assert.Equal(t, "2001:db8:aaaa::/48", v6.String())

	_, err = networkOf(netip.MustParseAddr("203.0.113.77"), 40, 64)
	assert.Error(t, err)
}
