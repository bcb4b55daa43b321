package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medssi/pkg/domain-errors"
)

// TestParseTransactionID_Invariants validates the parsing invariant:
// "transaction IDs used as lookup keys must be UUID strings"
func TestParseTransactionID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTransactionID("  ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTransactionIDInvalid))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseTransactionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTransactionIDInvalid))
	})

	t.Run("normalizes casing", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseTransactionID(strings.ToUpper(raw.String()))
		require.NoError(t, err)
		assert.Equal(t, TransactionID(raw.String()), id)
	})
}

func TestGeneratedIDs(t *testing.T) {
	t.Run("credential ids are prefixed and unique", func(t *testing.T) {
		a, b := NewCredentialID(), NewCredentialID()
		assert.True(t, strings.HasPrefix(a.String(), "cred-"))
		assert.Len(t, a.String(), len("cred-")+32)
		assert.NotEqual(t, a, b)
	})

	t.Run("session and presentation prefixes", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(NewSessionID().String(), "sess-"))
		assert.True(t, strings.HasPrefix(NewPresentationID().String(), "vp-"))
	})

	t.Run("transaction ids parse back", func(t *testing.T) {
		id := NewTransactionID()
		parsed, err := ParseTransactionID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestAssuranceLevel(t *testing.T) {
	cases := []struct {
		have, need AssuranceLevel
		want       bool
	}{
		{IAL1, IAL1, true},
		{IAL2, IAL1, true},
		{IAL3, IAL2, true},
		{IAL1, IAL2, false},
		{IAL2, IAL3, false},
		{AssuranceLevel("IAL9"), IAL1, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.have)+">="+string(tc.need), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.have.Satisfies(tc.need))
		})
	}

	t.Run("parse is case insensitive", func(t *testing.T) {
		l, err := ParseAssuranceLevel(" ial2 ")
		require.NoError(t, err)
		assert.Equal(t, IAL2, l)

		_, err = ParseAssuranceLevel("gold")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
