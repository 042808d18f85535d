package synthesis

// #region method

// Method tags how a suggestion was assembled.
type Method string

const (
	MethodSingleSource     Method = "single-source"
	MethodMultiSourceMerge Method = "multi-source-merge"
	MethodTemplateAssembly Method = "template-assembly"
)

// #endregion method

// #region suggestion

// Suggestion is the deterministic assembly of retrieved text. It is held
// only for the duration of one request; nothing in it is free-form
// generated.
type Suggestion struct {
	Content    interface{} `json:"content"` // one of the payload types below
	Confidence float64     `json:"confidence"`
	SourceIDs  []string    `json:"sourceIds"`
	Method     Method      `json:"method"`
	Warnings   []string    `json:"warnings"`
}

// #endregion suggestion

// #region clause-payload

// ClausePayload is the structured-clause output shape.
type ClausePayload struct {
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	Rationale      string   `json:"rationale"`
	SupportingRefs []string `json:"supportingRefs"` // up to 2 next-highest sources
}

// #endregion clause-payload

// #region mapping-payload

// MappingRow links one compliance standard document to its itemized clauses.
type MappingRow struct {
	StandardCodes []string `json:"standardCodes"`
	DocumentID    string   `json:"documentId"`
	DocumentTitle string   `json:"documentTitle"`
	Clauses       []string `json:"clauses"` // top itemized clauses, max 5
}

// MappingPayload is the mapping-table output shape.
type MappingPayload struct {
	Rows     []MappingRow `json:"rows"`
	Coverage float64      `json:"coverage"` // requested standards found / requested
	Gaps     []string     `json:"gaps"`     // requested standards with no match
}

// #endregion mapping-payload

// #region review-payload

// ReviewFinding is a single reviewed source, ranked by relevance.
type ReviewFinding struct {
	DocumentID string  `json:"documentId"`
	Title      string  `json:"title"`
	Severity   string  `json:"severity"` // High | Medium | Low
	Relevance  float64 `json:"relevance"`
	Note       string  `json:"note"`
}

// ReviewPayload is the review-report output shape.
type ReviewPayload struct {
	Findings        []ReviewFinding `json:"findings"`
	Recommendations []string        `json:"recommendations"` // top 3 ranked
	Status          string          `json:"status"`          // Compliant | Partial
}

// #endregion review-payload

// #region improvement-payload

// ImprovementItem is one prioritized suggestion with an impact band.
type ImprovementItem struct {
	Priority   int    `json:"priority"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"` // High | Medium | Low
	SourceID   string `json:"sourceId"`
}

// ImprovementPayload is the improvement-list output shape.
type ImprovementPayload struct {
	Items []ImprovementItem `json:"items"`
}

// #endregion improvement-payload
