package synthesis

// #region imports
import (
	"fmt"
	"math"
	"time"

	"github.com/claritycare/policysuggest/internal/knowledge"
	"github.com/claritycare/policysuggest/internal/retrieval"
)

// #endregion

// #region weights

// Confidence component weights. Fixed for test reproducibility.
const (
	relevanceWeight = 0.4 // average source relevance
	countWeight     = 0.3 // source count saturating at fullCoverageCount
	verifiedWeight  = 0.2 // fraction of verified sources
	recencyWeight   = 0.1 // fraction of sources updated within a year

	// fullCoverageCount is the document count at which the count component
	// saturates.
	fullCoverageCount = 5
)

// staleAge is the age past which a source is considered stale, both for
// the recency component and the staleness warning.
const staleAge = 365 * 24 * time.Hour

// warnConfidence is the level below which a human-review warning is
// attached to the suggestion itself (distinct from the pipeline's
// confidence guardrail).
const warnConfidence = 0.7

// #endregion weights

// #region confidence

// confidence scores how trustworthy an assembly is:
// avg relevance x 0.4 + min(count/5, 1) x 0.3 + verified fraction x 0.2 +
// fresh fraction x 0.1, clamped to [0,1]. Zero documents scores zero.
func confidence(docs []retrieval.Document, now time.Time) float64 {
	if len(docs) == 0 {
		return 0
	}

	var relevanceSum float64
	verified := 0
	fresh := 0
	for _, d := range docs {
		relevanceSum += d.Relevance
		if d.Verification == knowledge.VerificationVerified {
			verified++
		}
		if now.Sub(d.UpdatedAt) <= staleAge {
			fresh++
		}
	}

	n := float64(len(docs))
	score := (relevanceSum/n)*relevanceWeight +
		math.Min(n/fullCoverageCount, 1)*countWeight +
		(float64(verified)/n)*verifiedWeight +
		(float64(fresh)/n)*recencyWeight

	return math.Max(0, math.Min(1, score))
}

// #endregion confidence

// #region warnings

// buildWarnings appends (never raises) human-readable caveats about the
// assembled suggestion.
func buildWarnings(docs []retrieval.Document, conf float64, now time.Time) []string {
	var warnings []string

	if conf < warnConfidence {
		warnings = append(warnings, fmt.Sprintf(
			"confidence %.2f is below %.2f: human review strongly recommended", conf, warnConfidence))
	}
	if len(docs) < 2 {
		warnings = append(warnings, "fewer than 2 source documents support this suggestion")
	}

	deprecated := 0
	stale := 0
	for _, d := range docs {
		if d.Verification == knowledge.VerificationDeprecated {
			deprecated++
		}
		if now.Sub(d.UpdatedAt) > staleAge {
			stale++
		}
	}
	if deprecated > 0 {
		warnings = append(warnings, fmt.Sprintf("%d deprecated source(s) were used", deprecated))
	}
	if stale > 0 {
		warnings = append(warnings, fmt.Sprintf("%d source(s) have not been updated in over a year", stale))
	}

	return warnings
}

// #endregion warnings
