package guard

import (
	"errors"
	"testing"

	"github.com/claritycare/policysuggest/internal/routing"
)

func TestAuthorizeRoleTable(t *testing.T) {
	g := NewStaticRoleGuard()

	cases := []struct {
		role    string
		intent  routing.Intent
		allowed bool
	}{
		{"admin", routing.IntentValidateCompliance, true},
		{"admin", routing.IntentSuggestClause, true},
		{"quality-lead", routing.IntentMapPolicy, true},
		{"quality-lead", routing.IntentValidateCompliance, true},
		{"manager", routing.IntentSuggestClause, true},
		{"manager", routing.IntentReviewPolicy, true},
		{"manager", routing.IntentMapPolicy, false},
		{"manager", routing.IntentValidateCompliance, false},
		{"carer", routing.IntentSuggestImprovement, true},
		{"carer", routing.IntentSuggestClause, false},
		{"carer", routing.IntentReviewPolicy, false},
		{"visitor", routing.IntentSuggestImprovement, false},
		{"", routing.IntentSuggestImprovement, false},
	}

	for _, tc := range cases {
		err := g.Authorize(User{ID: "u1", Role: tc.role}, tc.intent)
		if tc.allowed && err != nil {
			t.Fatalf("%s/%s: expected allow, got %v", tc.role, tc.intent, err)
		}
		if !tc.allowed && err == nil {
			t.Fatalf("%s/%s: expected denial", tc.role, tc.intent)
		}
	}
}

func TestAuthorizeDenialCarriesRoleAndIntent(t *testing.T) {
	g := NewStaticRoleGuard()

	err := g.Authorize(User{ID: "u1", Role: "carer"}, routing.IntentMapPolicy)
	var aerr *AuthorizationError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if aerr.Role != "carer" || aerr.Intent != routing.IntentMapPolicy {
		t.Fatalf("unexpected error detail: %+v", aerr)
	}
}
