package routing

import (
	"errors"
	"strings"
	"testing"
)

func validRequest(intent Intent) Request {
	req := Request{
		Intent:        intent,
		Jurisdictions: []string{"england"},
		Context:       "review medication storage arrangements",
	}
	switch intent {
	case IntentSuggestClause:
		req.TemplateRef = "tpl-1"
	case IntentMapPolicy:
		req.PolicyRef = "pol-1"
		req.StandardCodes = []string{"CQC-R12"}
	case IntentReviewPolicy:
		req.PolicyRef = "pol-1"
	case IntentValidateCompliance:
		req.StandardCodes = []string{"CQC-R12"}
	}
	return req
}

func TestRouteBindsEveryIntentToItsFormat(t *testing.T) {
	want := map[Intent]OutputFormat{
		IntentSuggestClause:      FormatStructuredClause,
		IntentMapPolicy:          FormatMappingTable,
		IntentReviewPolicy:       FormatReviewReport,
		IntentSuggestImprovement: FormatImprovementList,
		IntentValidateCompliance: FormatMappingTable,
	}

	for intent, format := range want {
		routed, err := Route(validRequest(intent))
		if err != nil {
			t.Fatalf("route %s: %v", intent, err)
		}
		if routed.Format != format {
			t.Fatalf("intent %s: expected format %s, got %s", intent, format, routed.Format)
		}
	}
}

func TestRouteRejectsUnknownIntent(t *testing.T) {
	req := validRequest(IntentSuggestImprovement)
	req.Intent = "draft-anything"

	_, err := Route(req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "intent" {
		t.Fatalf("expected intent field, got %s", verr.Field)
	}
}

func TestRouteRejectsMissingIntent(t *testing.T) {
	req := validRequest(IntentSuggestImprovement)
	req.Intent = ""

	var verr *ValidationError
	if _, err := Route(req); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRouteRejectsEmptyJurisdictions(t *testing.T) {
	req := validRequest(IntentSuggestImprovement)
	req.Jurisdictions = nil

	var verr *ValidationError
	if _, err := Route(req); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRouteNamesInvalidJurisdictions(t *testing.T) {
	req := validRequest(IntentSuggestImprovement)
	req.Jurisdictions = []string{"england", "mars", "atlantis"}

	_, err := Route(req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Reason, "mars") || !strings.Contains(verr.Reason, "atlantis") {
		t.Fatalf("expected invalid entries named, got: %s", verr.Reason)
	}
	if strings.Contains(verr.Reason, "england") {
		t.Fatalf("valid jurisdiction should not be named invalid: %s", verr.Reason)
	}
}

func TestRouteRejectsMissingContext(t *testing.T) {
	req := validRequest(IntentSuggestImprovement)
	req.Context = "   "

	var verr *ValidationError
	if _, err := Route(req); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRouteEnforcesCompanionFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"clause without template", func(r *Request) { r.Intent = IntentSuggestClause; r.TemplateRef = "" }, "templateRef"},
		{"map without policy", func(r *Request) { r.Intent = IntentMapPolicy; r.PolicyRef = "" }, "policyRef"},
		{"map without codes", func(r *Request) { r.Intent = IntentMapPolicy; r.StandardCodes = nil }, "standardCodes"},
		{"review without policy", func(r *Request) { r.Intent = IntentReviewPolicy; r.PolicyRef = "" }, "policyRef"},
		{"validate without codes", func(r *Request) { r.Intent = IntentValidateCompliance; r.StandardCodes = nil }, "standardCodes"},
	}

	for _, tc := range cases {
		req := validRequest(IntentMapPolicy)
		tc.mutate(&req)

		_, err := Route(req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
	}
}

func TestJurisdictionSetHasSevenEntries(t *testing.T) {
	if len(Jurisdictions) != 7 {
		t.Fatalf("expected 7 jurisdictions, got %d", len(Jurisdictions))
	}
}
