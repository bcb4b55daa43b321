package models

import (
	"time"

	"medssi/internal/payload"
)

// SamplePayload returns the demo FHIR-style bundle used as the base for
// issuer-supplied payloads and templates. Dates are rendered for the day of now.
func SamplePayload(now time.Time) payload.Node {
	today := now.UTC().Format(time.DateOnly)
	return payload.Map(map[string]payload.Node{
		"fhir_profile": payload.String("https://profiles.iisigroup.com.tw/StructureDefinition/medssi-bundle"),
		"condition": payload.Map(map[string]payload.Node{
			"resourceType": payload.String("Condition"),
			"id":           payload.String("cond-sample"),
			"code": payload.Map(map[string]payload.Node{
				"coding": payload.Seq(payload.Map(map[string]payload.Node{
					"system":  payload.String("http://hl7.org/fhir/sid/icd-10"),
					"code":    payload.String("K29.7"),
					"display": payload.String("Gastritis, unspecified"),
				})),
				"text": payload.String("Gastritis, unspecified"),
			}),
			"recordedDate": payload.String(today),
			"encounter": payload.Map(map[string]payload.Node{
				"system": payload.String("urn:medssi:encounter-id"),
				"value":  payload.String("enc-sample"),
			}),
			"subject": payload.Map(map[string]payload.Node{
				"system": payload.String("did:example"),
				"value":  payload.String(DefaultHolderDID),
			}),
		}),
		"encounter_summary_hash": payload.String("urn:sha256:demo-sample-hash"),
		"managing_organization": payload.Map(map[string]payload.Node{
			"system": payload.String("urn:medssi:org"),
			"value":  payload.String("org:demo-hospital"),
		}),
		"issued_on":          payload.String(today),
		"medication_dispense": payload.Seq(),
	})
}
