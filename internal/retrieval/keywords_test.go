package retrieval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractKeywordsDropsStopwordsAndShortTokens(t *testing.T) {
	got := ExtractKeywords("Please draft a safeguarding policy for medication handling in our care home")

	// "please"/"policy"/"a"/"for"/"in"/"our" are stopwords; "a"/"for"/"in" also <= 3 chars.
	want := []string{"draft", "safeguarding", "medication", "handling", "care", "home"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keyword mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywordsStripsPunctuationAndLowercases(t *testing.T) {
	got := ExtractKeywords("Safeguarding, MEDICATION; storage!")

	want := []string{"safeguarding", "medication", "storage"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keyword mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractKeywordsCapsAtTen(t *testing.T) {
	got := ExtractKeywords("alpha1 bravo2 charlie3 delta4 echo5 foxtrot6 golf7 hotel8 india9 juliet10 kilo11 lima12")

	if len(got) != maxKeywords {
		t.Fatalf("expected %d keywords, got %d: %v", maxKeywords, len(got), got)
	}
	if got[0] != "alpha1" || got[9] != "juliet10" {
		t.Fatalf("expected original order preserved, got %v", got)
	}
}

func TestExtractKeywordsEmptyAfterFiltering(t *testing.T) {
	got := ExtractKeywords("use a gap map")

	if len(got) != 0 {
		t.Fatalf("expected no keywords, got %v", got)
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	text := "Review the infection prevention and control arrangements for visiting professionals"
	first := ExtractKeywords(text)
	second := ExtractKeywords(text)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("extraction not deterministic (-first +second):\n%s", diff)
	}
}
