package synthesis

// #region imports
import (
	"fmt"
	"strings"

	"github.com/claritycare/policysuggest/internal/knowledge"
	"github.com/claritycare/policysuggest/internal/retrieval"
	"github.com/claritycare/policysuggest/internal/routing"
)

// #endregion

// #region clause-strategy

// maxSupportingRefs caps the supporting references on a structured clause.
const maxSupportingRefs = 2

// buildClause assembles a structured clause. The highest-relevance
// document is the primary source; the next up to two become supporting
// references. Title/body come from keyword-anchored extraction over the
// primary document.
func (s *Synthesizer) buildClause(docs []retrieval.Document, routed routing.Routed) (interface{}, []string) {
	if len(docs) == 0 {
		return ClausePayload{}, nil
	}

	primary := docs[0]
	keywords := retrieval.ExtractKeywords(routed.Context)

	var supporting []string
	sourceIDs := []string{primary.ID}
	for _, d := range docs[1:] {
		if len(supporting) == maxSupportingRefs {
			break
		}
		supporting = append(supporting, fmt.Sprintf("%s (v%s)", d.Title, d.Version))
		sourceIDs = append(sourceIDs, d.ID)
	}

	payload := ClausePayload{
		Title:          primary.Title,
		Body:           extractSentences(primary.Content, keywords),
		Rationale:      clauseRationale(primary, routed),
		SupportingRefs: supporting,
	}
	return payload, sourceIDs
}

func clauseRationale(primary retrieval.Document, routed routing.Routed) string {
	rationale := fmt.Sprintf("Drawn from %q (version %s), applicable to %s.",
		primary.Title, primary.Version, strings.Join(routed.Jurisdictions, ", "))
	if len(primary.StandardCodes) > 0 {
		rationale += fmt.Sprintf(" Addresses standards %s.", strings.Join(primary.StandardCodes, ", "))
	}
	return rationale
}

// #endregion clause-strategy

// #region mapping-strategy

// buildMapping assembles a mapping table from standard-type sources only,
// itemizing each document's clauses and computing requested-standard
// coverage plus the gap list.
func (s *Synthesizer) buildMapping(docs []retrieval.Document, routed routing.Routed) (interface{}, []string) {
	found := make(map[string]bool)
	var rows []MappingRow
	var sourceIDs []string

	for _, d := range docs {
		if d.SourceType != knowledge.SourceStandard {
			continue
		}
		rows = append(rows, MappingRow{
			StandardCodes: d.StandardCodes,
			DocumentID:    d.ID,
			DocumentTitle: d.Title,
			Clauses:       extractListItems(d.Content),
		})
		sourceIDs = append(sourceIDs, d.ID)
		for _, code := range d.StandardCodes {
			found[strings.ToLower(code)] = true
		}
	}

	matched := 0
	var gaps []string
	for _, code := range routed.StandardCodes {
		if found[strings.ToLower(code)] {
			matched++
		} else {
			gaps = append(gaps, code)
		}
	}

	coverage := 0.0
	if len(routed.StandardCodes) > 0 {
		coverage = float64(matched) / float64(len(routed.StandardCodes))
	}

	payload := MappingPayload{Rows: rows, Coverage: coverage, Gaps: gaps}
	return payload, sourceIDs
}

// #endregion mapping-strategy

// #region review-strategy

// maxRecommendations caps the ranked recommendations on a review report.
const maxRecommendations = 3

// Severity bands by relevance score, shared with the improvement impact
// bands.
const (
	highBand   = 0.8
	mediumBand = 0.6
)

func severityFor(relevance float64) string {
	switch {
	case relevance > highBand:
		return "High"
	case relevance > mediumBand:
		return "Medium"
	default:
		return "Low"
	}
}

// buildReview treats every retrieved document as a finding and the top
// ranked ones as recommendations. Status is Compliant when at least as
// many standards were retrieved as requested, else Partial.
func (s *Synthesizer) buildReview(docs []retrieval.Document, routed routing.Routed) (interface{}, []string) {
	var findings []ReviewFinding
	var recommendations []string
	var sourceIDs []string
	retrievedStandards := 0

	for i, d := range docs {
		findings = append(findings, ReviewFinding{
			DocumentID: d.ID,
			Title:      d.Title,
			Severity:   severityFor(d.Relevance),
			Relevance:  d.Relevance,
			Note:       fmt.Sprintf("Compare policy %s against %q (v%s).", routed.PolicyRef, d.Title, d.Version),
		})
		if i < maxRecommendations {
			recommendations = append(recommendations,
				fmt.Sprintf("Align policy with %q (v%s)", d.Title, d.Version))
		}
		if d.SourceType == knowledge.SourceStandard {
			retrievedStandards++
		}
		sourceIDs = append(sourceIDs, d.ID)
	}

	status := "Partial"
	if retrievedStandards >= len(routed.StandardCodes) {
		status = "Compliant"
	}

	payload := ReviewPayload{Findings: findings, Recommendations: recommendations, Status: status}
	return payload, sourceIDs
}

// #endregion review-strategy

// #region improvement-strategy

// maxImprovements caps the prioritized suggestion list.
const maxImprovements = 5

func impactFor(relevance float64) string {
	return severityFor(relevance)
}

// buildImprovements turns the top documents into prioritized suggestions
// with estimated-impact bands.
func (s *Synthesizer) buildImprovements(docs []retrieval.Document, routed routing.Routed) (interface{}, []string) {
	keywords := retrieval.ExtractKeywords(routed.Context)

	var items []ImprovementItem
	var sourceIDs []string
	for i, d := range docs {
		if i == maxImprovements {
			break
		}
		items = append(items, ImprovementItem{
			Priority:   i + 1,
			Suggestion: fmt.Sprintf("Incorporate guidance from %q: %s", d.Title, extractSentences(d.Content, keywords)),
			Impact:     impactFor(d.Relevance),
			SourceID:   d.ID,
		})
		sourceIDs = append(sourceIDs, d.ID)
	}

	payload := ImprovementPayload{Items: items}
	return payload, sourceIDs
}

// #endregion improvement-strategy
