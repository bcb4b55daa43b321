package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medssi/pkg/domain-errors"
)

type sessionRequest struct {
	VerifierID   string `json:"verifier_id" validate:"notblank"`
	ValidMinutes int    `json:"valid_minutes" validate:"min=1,max=10"`
	Scope        string `json:"scope" validate:"required,oneof=MEDICAL_RECORD MEDICATION_PICKUP RESEARCH_ANALYTICS"`
}

func TestValidate(t *testing.T) {
	valid := sessionRequest{VerifierID: "verifier-1", ValidMinutes: 5, Scope: "MEDICAL_RECORD"}
	require.NoError(t, Validate(valid))

	t.Run("reports json field name", func(t *testing.T) {
		req := valid
		req.VerifierID = "   "
		err := Validate(req)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "verifier_id must not be blank", err.Error())
	})

	t.Run("range bounds", func(t *testing.T) {
		req := valid
		req.ValidMinutes = 11
		assert.EqualError(t, Validate(req), "valid_minutes must be at most 10")
	})

	t.Run("enum", func(t *testing.T) {
		req := valid
		req.Scope = "BILLING"
		assert.Contains(t, Validate(req).Error(), "scope must be one of")
	})
}

func TestLimits(t *testing.T) {
	assert.NoError(t, CheckSliceCount("fields", MaxFields, MaxFields))
	assert.Error(t, CheckSliceCount("fields", MaxFields+1, MaxFields))

	assert.NoError(t, CheckEachStringLength("fields", []string{"condition.recordedDate"}, MaxFieldPathLength))
	err := CheckEachStringLength("fields", []string{strings.Repeat("a", MaxFieldPathLength+1)}, MaxFieldPathLength)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
