// Package privacy reduces identifying values before they reach logs or the
// audit trail.
package privacy

import (
	"net/netip"
	"strings"
)

// AnonymizeIP keeps the network part of an address: /24 for IPv4 and /48
// for IPv6. Empty input yields "unknown" and garbage yields "invalid".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// maskKeep is how many trailing characters of a DID identifier stay visible.
const maskKeep = 4

// MaskDID hides the method-specific identifier of a holder DID, keeping the
// method and the last few characters:
//
//	did:example:patient-demo -> did:example:***demo
//
// Values that are not DIDs are masked whole.
func MaskDID(did string) string {
	if did == "" {
		return ""
	}
	parts := strings.SplitN(did, ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[2] == "" {
		return "***"
	}
	ident := parts[2]
	if len(ident) <= maskKeep {
		return "did:" + parts[1] + ":***"
	}
	return "did:" + parts[1] + ":***" + ident[len(ident)-maskKeep:]
}
