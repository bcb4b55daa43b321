package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ResolveSuite struct {
	suite.Suite
	root Node
}

func TestResolveSuite(t *testing.T) {
	suite.Run(t, new(ResolveSuite))
}

func (s *ResolveSuite) SetupTest() {
	root, err := FromJSON([]byte(`{
		"condition": {
			"code": {"coding": [{"system": "http://hl7.org/fhir/sid/icd-10", "code": "K29.7"}]},
			"recordedDate": "2026-10-19",
			"onset": null
		},
		"managing_organization": {"value": "org:demo-hospital"},
		"medication_dispense": [
			{"days_supply": 30, "ratio": 0.50, "refill": false, "medicationCodeableConcept": {"coding": [{"code": "A02BC01"}]}}
		],
		"grid": [[1, 2], [3, {"b": "deep"}]],
		"tags": ["x", "y"]
	}`))
	s.Require().NoError(err)
	s.root = root
}

// =============================================================================
// Resolution
// =============================================================================

func (s *ResolveSuite) TestResolvesNestedPaths() {
	cases := map[string]string{
		"condition.code.coding[0].code":                                 "K29.7",
		"condition.recordedDate":                                        "2026-10-19",
		"managing_organization.value":                                   "org:demo-hospital",
		"medication_dispense[0].days_supply":                            "30",
		"medication_dispense[0].ratio":                                  "0.50",
		"medication_dispense[0].refill":                                 "false",
		"medication_dispense[0].medicationCodeableConcept.coding[0].code": "A02BC01",
		"grid[1][1].b":                                                  "deep",
		"tags[1]":                                                       "y",
	}
	for path, want := range cases {
		s.Run(path, func() {
			got, ok := Resolve(s.root, path)
			s.True(ok)
			s.Equal(want, got)
		})
	}
}

func (s *ResolveSuite) TestEmptySegmentsAreIgnored() {
	got, ok := Resolve(s.root, ".condition..recordedDate.")
	s.True(ok)
	s.Equal("2026-10-19", got)
}

func (s *ResolveSuite) TestNonScalarRendersAsCanonicalJSON() {
	got, ok := Resolve(s.root, "managing_organization")
	s.True(ok)
	s.Equal(`{"value":"org:demo-hospital"}`, got)

	got, ok = Resolve(s.root, "grid[0]")
	s.True(ok)
	s.Equal(`[1,2]`, got)
}

func (s *ResolveSuite) TestMissesResolveAbsent() {
	paths := []string{
		"condition.code.coding[5].code",     // out of range
		"condition.missing.code",            // missing intermediate member
		"managing_organization[0]",          // non-sequence at bracket
		"condition.code.coding[-1].code",    // negative index
		"condition.code.coding[x].code",     // non-integer index
		"condition.code.coding[+0].code",    // signed index
		"condition.code.coding[-0].code",    // signed zero
		"condition.code.coding[00].code",    // leading zero
		"condition.code.coding[ 0].code",    // padded index
		"condition.code.coding[].code",      // empty index
		"tags[01]",                          // leading zero on a valid index
		"condition.code.coding[0.code",      // unterminated bracket
		"condition.onset",                   // explicit null
		"condition.recordedDate.value",      // member of a scalar
		"tags[0][0]",                        // bracket on a scalar
		"nothing",
	}
	for _, path := range paths {
		s.Run(path, func() {
			got, ok := Resolve(s.root, path)
			s.False(ok)
			s.Empty(got)
		})
	}

	s.Run("absent root", func() {
		_, ok := Resolve(Absent(), "condition.recordedDate")
		s.False(ok)
	})
}

func (s *ResolveSuite) TestIdempotent() {
	before, err := s.root.MarshalJSON()
	s.Require().NoError(err)

	first, ok1 := Resolve(s.root, "condition.code.coding[0].code")
	second, ok2 := Resolve(s.root, "condition.code.coding[0].code")
	s.Equal(ok1, ok2)
	s.Equal(first, second)

	after, err := s.root.MarshalJSON()
	s.Require().NoError(err)
	s.JSONEq(string(before), string(after))
}

func (s *ResolveSuite) TestRoundTripCanonicalForm() {
	at := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	values := map[string]Node{
		"text":  String("K29.7"),
		"int":   Int(14),
		"float": Float(2.5),
		"flag":  Bool(true),
		"when":  Time(at),
	}
	want := map[string]string{
		"text":  "K29.7",
		"int":   "14",
		"float": "2.5",
		"flag":  "true",
		"when":  "2026-10-19T08:30:00Z",
	}
	for name, v := range values {
		s.Run(name, func() {
			root := Map(map[string]Node{"wrapper": Seq(Map(map[string]Node{name: v}))})
			got, ok := Resolve(root, "wrapper[0]."+name)
			s.True(ok)
			s.Equal(want[name], got)
		})
	}
}
