// Package clientip derives the caller address used for per-IP limits and request logs.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the peer address of the request without its port.
// Proxy headers are ignored: the service is reached directly, so they are client-controlled.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// LimiterKey groups callers for rate limiting. IPv4 clients are keyed by address,
// IPv6 clients by their /64 network since one host usually owns the whole prefix.
func LimiterKey(r *http.Request) string {
	ip := RealClientIP(r)
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	addr = addr.Unmap()
	if addr.Is4() {
		return addr.String()
	}
	prefix, err := addr.Prefix(64)
	if err != nil {
		return ip
	}
	return prefix.String()
}
