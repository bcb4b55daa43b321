// Package metadata attaches caller details (client address, User-Agent and a
// wallet client label) to the request context for logs and the audit trail.
package metadata

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"medssi/pkg/requestcontext"
)

// maxForwardedLength caps the X-Forwarded-For header we are willing to parse.
const maxForwardedLength = 512

// ParseTrustedProxies parses CIDR blocks (or bare addresses) of reverse
// proxies allowed to set X-Forwarded-For.
func ParseTrustedProxies(raw []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			addr, err := netip.ParseAddr(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

type Middleware struct {
	trusted []netip.Prefix
}

// NewMiddleware returns a metadata middleware. With no trusted proxies the
// socket peer is always taken as the client.
func NewMiddleware(trusted []netip.Prefix) *Middleware {
	return &Middleware{trusted: trusted}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent := r.Header.Get("User-Agent")

		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), userAgent)
		ctx = requestcontext.WithWalletClient(ctx, ClientLabel(userAgent))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP walks X-Forwarded-For from the right, skipping trusted hops, and
// returns the first address a trusted proxy vouched for. Anything odd falls
// back to the socket peer.
func (m *Middleware) clientIP(r *http.Request) string {
	peer, ok := peerAddr(r.RemoteAddr)
	if !ok {
		return "unknown"
	}
	if !m.isTrusted(peer) {
		return peer.String()
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
			return realIP.Unmap().String()
		}
		return peer.String()
	}
	if len(forwarded) > maxForwardedLength {
		return peer.String()
	}

	hops := strings.Split(forwarded, ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return peer.String()
		}
		client = addr.Unmap()
		if !m.isTrusted(client) {
			break
		}
	}
	return client.String()
}

func (m *Middleware) isTrusted(addr netip.Addr) bool {
	for _, prefix := range m.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// peerAddr parses RemoteAddr, with or without a port.
func peerAddr(remote string) (netip.Addr, bool) {
	if remote == "" {
		return netip.Addr{}, false
	}
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	if addr, err := netip.ParseAddr(strings.Trim(remote, "[]")); err == nil {
		return addr.Unmap(), true
	}
	return netip.Addr{}, false
}
