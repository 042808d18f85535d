package fallback

import "testing"

func TestBuildCoversEveryReason(t *testing.T) {
	reasons := []Reason{
		ReasonInsufficientSources,
		ReasonLowConfidence,
		ReasonSafetyFailed,
		ReasonSystemError,
	}

	for _, reason := range reasons {
		resp := Build(reason)
		if resp.Reason != reason {
			t.Fatalf("%s: reason not carried through, got %s", reason, resp.Reason)
		}
		if resp.Message == "" {
			t.Fatalf("%s: empty message", reason)
		}
		if len(resp.NextActions) == 0 {
			t.Fatalf("%s: no next actions", reason)
		}
	}
}

func TestBuildGuardrailReasonsEscalate(t *testing.T) {
	for _, reason := range []Reason{ReasonInsufficientSources, ReasonLowConfidence, ReasonSafetyFailed} {
		if !Build(reason).Escalate {
			t.Fatalf("%s: expected escalation", reason)
		}
	}
	if Build(ReasonSystemError).Escalate {
		t.Fatal("system errors are retryable and should not escalate")
	}
}

func TestBuildUnknownReasonDegradesToSystemError(t *testing.T) {
	resp := Build("quota-exceeded")
	if resp.Reason != ReasonSystemError {
		t.Fatalf("expected system-error, got %s", resp.Reason)
	}
}
