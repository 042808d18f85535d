package suggest

// #region imports
import (
	"time"

	"github.com/claritycare/policysuggest/internal/fallback"
	"github.com/claritycare/policysuggest/internal/routing"
	"github.com/claritycare/policysuggest/internal/synthesis"
)

// #endregion

// #region request

// Request is the incoming authoring prompt.
type Request = routing.Request

// #endregion request

// #region source-reference

// SourceReference is the citation subset of a retrieved document.
type SourceReference struct {
	ID         string  `json:"id"`
	SourceType string  `json:"sourceType"`
	Title      string  `json:"title"`
	Version    string  `json:"version"`
	Section    string  `json:"section,omitempty"`
	Relevance  float64 `json:"relevance"`
}

// #endregion source-reference

// #region metadata

// Metadata describes how a response was produced.
type Metadata struct {
	GeneratedAt        time.Time     `json:"generatedAt"`
	Duration           time.Duration `json:"duration"`
	DocumentsRetrieved int           `json:"documentsRetrieved"`
	Jurisdictions      []string      `json:"jurisdictions"`
}

// #endregion metadata

// #region response

// Response is what the caller receives for every invocation, fallback or
// not. Guardrail failures never surface as errors; they arrive here with
// FallbackUsed set, a nil Suggestion and no source references.
type Response struct {
	ID                  string                `json:"id"`
	Suggestion          *synthesis.Suggestion `json:"suggestion"`
	SourceReferences    []SourceReference     `json:"sourceReferences"`
	Confidence          float64               `json:"confidence"`
	RequiresHumanReview bool                  `json:"requiresHumanReview"`
	FallbackUsed        bool                  `json:"fallbackUsed"`
	FallbackReason      fallback.Reason       `json:"fallbackReason,omitempty"`
	FallbackMessage     string                `json:"fallbackMessage,omitempty"`
	NextActions         []string              `json:"nextActions,omitempty"`
	Escalate            bool                  `json:"escalate,omitempty"`
	Metadata            Metadata              `json:"metadata"`
}

// #endregion response
