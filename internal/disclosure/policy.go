// Package disclosure defines which credential fields an issuer allows a
// holder to disclose, per disclosure scope.
package disclosure

import (
	"slices"
	"strings"

	dErrors "medssi/pkg/domain-errors"
)

// Scope is a closed set of disclosure purposes.
type Scope string

const (
	ScopeMedicalRecord     Scope = "MEDICAL_RECORD"
	ScopeMedicationPickup  Scope = "MEDICATION_PICKUP"
	ScopeResearchAnalytics Scope = "RESEARCH_ANALYTICS"
)

// Scopes lists every scope in declaration order.
var Scopes = []Scope{ScopeMedicalRecord, ScopeMedicationPickup, ScopeResearchAnalytics}

// IsValid returns true if the scope is a known value.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeMedicalRecord, ScopeMedicationPickup, ScopeResearchAnalytics:
		return true
	}
	return false
}

func (s Scope) String() string { return string(s) }

// ParseScope accepts case-insensitive scope names.
func ParseScope(raw string) (Scope, error) {
	s := Scope(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown disclosure scope: "+raw)
	}
	return s, nil
}

// Policy lists the field paths a holder may disclose under one scope.
type Policy struct {
	Scope       Scope    `json:"scope"`
	Fields      []string `json:"fields"`
	Description string   `json:"description,omitempty"`
}

// Validate enforces the policy set invariants: non-empty, one policy per
// scope, and no policy with an empty field list.
func Validate(policies []Policy) error {
	if len(policies) == 0 {
		return dErrors.New(dErrors.CodePolicyEmpty, "at least one disclosure policy is required")
	}
	seen := make(map[Scope]struct{}, len(policies))
	for _, p := range policies {
		if _, dup := seen[p.Scope]; dup {
			return dErrors.New(dErrors.CodePolicyDuplicateScope, "duplicate disclosure scope: "+string(p.Scope))
		}
		seen[p.Scope] = struct{}{}
		if len(p.Fields) == 0 {
			return dErrors.New(dErrors.CodePolicyFieldsEmpty, "disclosure policy "+string(p.Scope)+" has no fields")
		}
	}
	return nil
}

// AllowedFields returns the ordered union of every policy's fields.
func AllowedFields(policies []Policy) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range policies {
		for _, f := range p.Fields {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

// CheckSubset fails with CodeDisclosureInvalid naming every candidate field
// that is not in allowed.
func CheckSubset(candidate, allowed []string) error {
	if offending := Outside(candidate, allowed); len(offending) > 0 {
		return dErrors.WithFields(dErrors.CodeDisclosureInvalid,
			"fields not permitted by disclosure policy: "+strings.Join(offending, ", "), offending)
	}
	return nil
}

// Outside returns the sorted, de-duplicated candidate fields missing from allowed.
func Outside(candidate, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}
	var out []string
	for _, f := range candidate {
		if _, ok := set[f]; !ok {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Clone deep-copies a policy list.
func Clone(policies []Policy) []Policy {
	if policies == nil {
		return nil
	}
	out := make([]Policy, len(policies))
	for i, p := range policies {
		out[i] = Policy{Scope: p.Scope, Fields: slices.Clone(p.Fields), Description: p.Description}
	}
	return out
}
