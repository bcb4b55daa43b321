package metadata

import (
	"strings"

	"github.com/mssola/useragent"
)

// ClientLabel extracts a human-readable client name from a User-Agent string.
// Returns "Browser on OS" (e.g. "Chrome on Android"); native wallet apps that
// do not identify a browser fall back to their product token.
func ClientLabel(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return "Unknown Client"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" && browser != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		if name, _ := ua.Engine(); name != "" {
			browser = name
		} else if product := strings.Fields(userAgentString); len(product) > 0 {
			browser = product[0]
		}
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
