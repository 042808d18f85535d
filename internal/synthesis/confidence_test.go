package synthesis

import (
	"strings"
	"testing"
	"time"

	"github.com/claritycare/policysuggest/internal/knowledge"
	"github.com/claritycare/policysuggest/internal/retrieval"
)

func scoredDoc(id string, relevance float64, verification knowledge.VerificationStatus, age time.Duration) retrieval.Document {
	return retrieval.Document{
		RawDocument: knowledge.RawDocument{
			ID:           id,
			Title:        "Doc " + id,
			Content:      "Content for " + id,
			Verification: verification,
			UpdatedAt:    time.Now().UTC().Add(-age),
		},
		Relevance: relevance,
	}
}

func TestConfidenceZeroDocuments(t *testing.T) {
	if got := confidence(nil, time.Now().UTC()); got != 0 {
		t.Fatalf("expected confidence 0 for zero documents, got %.4f", got)
	}
}

func TestConfidenceFullMarks(t *testing.T) {
	var docs []retrieval.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, scoredDoc(string(rune('a'+i)), 1.0, knowledge.VerificationVerified, 24*time.Hour))
	}

	// 1.0*0.4 + min(5/5,1)*0.3 + 1.0*0.2 + 1.0*0.1 = 1.0
	got := confidence(docs, time.Now().UTC())
	if got != 1.0 {
		t.Fatalf("expected confidence 1.0, got %.4f", got)
	}
}

func TestConfidenceFreshVerifiedFiveDocs(t *testing.T) {
	var docs []retrieval.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, scoredDoc(string(rune('a'+i)), 0.9, knowledge.VerificationVerified, 10*24*time.Hour))
	}

	// 0.9*0.4 + 0.3 + 0.2 + 0.1 = 0.96
	got := confidence(docs, time.Now().UTC())
	if got < 0.959 || got > 0.961 {
		t.Fatalf("expected confidence ~0.96, got %.4f", got)
	}
}

func TestConfidenceMixedSources(t *testing.T) {
	docs := []retrieval.Document{
		scoredDoc("a", 0.5, knowledge.VerificationVerified, 24*time.Hour),
		scoredDoc("b", 0.5, knowledge.VerificationPending, 400*24*time.Hour),
	}

	// relevance 0.5*0.4=0.2; count (2/5)*0.3=0.12; verified (1/2)*0.2=0.1;
	// fresh (1/2)*0.1=0.05 → 0.47
	got := confidence(docs, time.Now().UTC())
	if got < 0.465 || got > 0.475 {
		t.Fatalf("expected confidence ~0.47, got %.4f", got)
	}
}

func TestWarningsLowConfidenceAndStaleness(t *testing.T) {
	docs := []retrieval.Document{
		scoredDoc("a", 0.5, knowledge.VerificationVerified, 24*time.Hour),
		scoredDoc("b", 0.5, knowledge.VerificationDeprecated, 400*24*time.Hour),
	}
	now := time.Now().UTC()
	conf := confidence(docs, now)

	warnings := buildWarnings(docs, conf, now)

	wantFragments := []string{"human review", "deprecated", "over a year"}
	for _, frag := range wantFragments {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected a warning containing %q, got %v", frag, warnings)
		}
	}
}

func TestWarningsFewSources(t *testing.T) {
	docs := []retrieval.Document{
		scoredDoc("a", 0.95, knowledge.VerificationVerified, 24*time.Hour),
	}
	now := time.Now().UTC()

	warnings := buildWarnings(docs, 0.95, now)

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "fewer than 2") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a few-sources warning, got %v", warnings)
	}
}

func TestNoWarningsForStrongAssembly(t *testing.T) {
	var docs []retrieval.Document
	for i := 0; i < 3; i++ {
		docs = append(docs, scoredDoc(string(rune('a'+i)), 0.9, knowledge.VerificationVerified, 24*time.Hour))
	}
	now := time.Now().UTC()
	conf := confidence(docs, now)

	if warnings := buildWarnings(docs, conf, now); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}
