package disclosure

var defaultPolicies = []Policy{
	{
		Scope: ScopeMedicalRecord,
		Fields: []string{
			"condition.code.coding[0].code",
			"condition.recordedDate",
			"managing_organization.value",
		},
		Description: "Diagnosis summary for cross-hospital referral",
	},
	{
		Scope: ScopeMedicationPickup,
		Fields: []string{
			"medication_dispense[0].medicationCodeableConcept.coding[0].code",
			"medication_dispense[0].days_supply",
			"medication_dispense[0].pickup_window_end",
		},
		Description: "Prescription details for pharmacy pickup",
	},
	{
		Scope: ScopeResearchAnalytics,
		Fields: []string{
			"condition.code.coding[0].code",
			"encounter_summary_hash",
		},
		Description: "De-identified fields for research analytics",
	},
}

// DefaultPolicies returns a fresh copy of the default policy table. It is
// used verbatim when an issuance request omits policies.
func DefaultPolicies() []Policy {
	return Clone(defaultPolicies)
}

// DefaultFields returns the default field list for scope, or nil.
func DefaultFields(scope Scope) []string {
	for _, p := range defaultPolicies {
		if p.Scope == scope {
			return append([]string(nil), p.Fields...)
		}
	}
	return nil
}
