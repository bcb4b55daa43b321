package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4", "192.168.1.47", "192.168.1.0"},
		{"ipv4 localhost", "127.0.0.1", "127.0.0.0"},
		{"ipv4-mapped ipv6", "::ffff:10.1.2.3", "10.1.2.0"},
		{"ipv6", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"empty", "", "unknown"},
		{"already unknown", "unknown", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestMaskDID(t *testing.T) {
	assert.Equal(t, "did:example:***demo", MaskDID("did:example:patient-demo"))
	assert.Equal(t, "did:web:***", MaskDID("did:web:abc"))
	assert.Equal(t, "***", MaskDID("patient-demo"))
	assert.Equal(t, "***", MaskDID("did:example:"))
	assert.Empty(t, MaskDID(""))
}
