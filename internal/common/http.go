package common

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller address. The first valid entry of
// X-Forwarded-For or X-Real-IP wins over RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	candidates := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	candidates = append(candidates, r.Header.Get("X-Real-IP"))
	for _, c := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(c)); ip != nil {
			return ip.String()
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// ClientKey returns a rate limit key function scoped by prefix and client IP.
func ClientKey(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		ip := ClientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ip
	}
}
