package domain

import (
	"strings"

	dErrors "medssi/pkg/domain-errors"
)

// AssuranceLevel is an identity assurance level. Levels are ordered IAL1 < IAL2 < IAL3.
type AssuranceLevel string

const (
	IAL1 AssuranceLevel = "IAL1"
	IAL2 AssuranceLevel = "IAL2"
	IAL3 AssuranceLevel = "IAL3"
)

// IsValid returns true if the level is a known valid value.
func (l AssuranceLevel) IsValid() bool {
	return l.rank() > 0
}

// String returns the string representation of the level.
func (l AssuranceLevel) String() string {
	return string(l)
}

// Description is a human-readable label for wallets.
func (l AssuranceLevel) Description() string {
	switch l {
	case IAL1:
		return "Self-asserted identity"
	case IAL2:
		return "Health card with PIN verification"
	case IAL3:
		return "In-person identity proofing"
	}
	return ""
}

// Satisfies reports whether l is ordinally greater than or equal to required.
// Unknown levels never satisfy anything.
func (l AssuranceLevel) Satisfies(required AssuranceLevel) bool {
	if !l.IsValid() || !required.IsValid() {
		return false
	}
	return l.rank() >= required.rank()
}

func (l AssuranceLevel) rank() int {
	switch l {
	case IAL1:
		return 1
	case IAL2:
		return 2
	case IAL3:
		return 3
	}
	return 0
}

// ParseAssuranceLevel accepts case-insensitive level names.
func ParseAssuranceLevel(s string) (AssuranceLevel, error) {
	l := AssuranceLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "ial must be one of IAL1, IAL2, IAL3")
	}
	return l, nil
}
