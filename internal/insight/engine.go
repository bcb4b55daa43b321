// Package insight scores verified presentations with a deterministic,
// scope-specific risk model. Scores are illustrative sandbox analytics.
package insight

import (
	"context"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"medssi/internal/disclosure"
	"medssi/internal/presentation/models"
	"medssi/pkg/platform/middleware/requesttime"
)

// Field paths read by the models.
const (
	FieldConditionCode   = "condition.code.coding[0].code"
	FieldRecordedDate    = "condition.recordedDate"
	FieldManagingOrg     = "managing_organization.value"
	FieldMedicationCode  = "medication_dispense[0].medicationCodeableConcept.coding[0].code"
	FieldDaysSupply      = "medication_dispense[0].days_supply"
	FieldPickupWindowEnd = "medication_dispense[0].pickup_window_end"
)

// Factor names reported in Insight.Factors.
const (
	FactorICDFlag       = "icd_flag"
	FactorRecency       = "recency_window"
	FactorOrgSignal     = "org_signal"
	FactorMedCodeHash   = "med_code_hash"
	FactorDaysSupply    = "days_supply"
	FactorPickupUrgency = "pickup_urgency"
)

const (
	medicalRecordBaseline = 0.32
	pickupBaseline        = 0.5
	pickupOffset          = 0.2
	maxScore              = 0.99
	pickupTrendWindowDays = 14
	defaultRecencyWindow  = 21
)

// Engine evaluates presentations. The zero value is ready to use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate scores a presentation at the request time carried by ctx.
// MEDICAL_RECORD presentations use the diagnosis model; every other scope
// uses the medication pickup model.
func (e *Engine) Evaluate(ctx context.Context, p *models.Presentation) (*models.Insight, error) {
	now := requesttime.Now(ctx)
	if p.Scope == disclosure.ScopeMedicalRecord {
		return medicalRecord(p.Disclosed, now), nil
	}
	return medicationPickup(p.Disclosed, now), nil
}

func medicalRecord(disclosed map[string]string, now time.Time) *models.Insight {
	factors := map[string]float64{}

	if code := disclosed[FieldConditionCode]; code != "" {
		if strings.HasPrefix(code, "K29") {
			factors[FactorICDFlag] = 0.28
		} else {
			factors[FactorICDFlag] = -0.12
		}
	}

	window := defaultRecencyWindow
	if recorded := disclosed[FieldRecordedDate]; recorded != "" {
		visit := parseDate(recorded, now)
		daysSince := max(floorDays(now.Sub(visit)), 0)
		window = max(45-daysSince, 7)
	}
	factors[FactorRecency] = float64(window) / 90.0

	if org := disclosed[FieldManagingOrg]; org != "" {
		factors[FactorOrgSignal] = float64(codePointSum(org)%13) / 100
	}

	return &models.Insight{
		Scope:           disclosure.ScopeMedicalRecord,
		RiskScore:       score(medicalRecordBaseline, factors),
		Factors:         factors,
		TrendWindowDays: window,
		GeneratedAt:     now,
	}
}

func medicationPickup(disclosed map[string]string, now time.Time) *models.Insight {
	factors := map[string]float64{}

	if code := disclosed[FieldMedicationCode]; code != "" {
		factors[FactorMedCodeHash] = float64(codePointSum(code)%11) / 100
	}

	if raw := disclosed[FieldDaysSupply]; raw != "" {
		if days, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && days != 0 {
			factors[FactorDaysSupply] = math.Min(float64(days)/60.0, 1.0)
		}
	}

	if raw := disclosed[FieldPickupWindowEnd]; raw != "" {
		deadline := parseDate(raw, now)
		daysLeft := floorDays(deadline.Sub(now))
		factors[FactorPickupUrgency] = clamp(float64(14-daysLeft)/14.0, 0, 1)
	}

	return &models.Insight{
		Scope:           disclosure.ScopeMedicationPickup,
		RiskScore:       score(pickupBaseline-pickupOffset, factors),
		Factors:         factors,
		TrendWindowDays: pickupTrendWindowDays,
		GeneratedAt:     now,
	}
}

// score sums factors in key order so float rounding is reproducible.
func score(baseline float64, factors map[string]float64) float64 {
	total := baseline
	for _, k := range slices.Sorted(maps.Keys(factors)) {
		total += factors[k]
	}
	total = clamp(total, 0, maxScore)
	return math.Round(total*1000) / 1000
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Unparseable
// input counts as now.
func parseDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t
		}
	}
	return now
}

// floorDays counts whole days in d, rounding toward negative infinity.
func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func codePointSum(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
