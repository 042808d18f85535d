package routing

// #region intent

// Intent is the declared purpose of an authoring request.
type Intent string

const (
	IntentSuggestClause      Intent = "suggest-clause"
	IntentMapPolicy          Intent = "map-policy"
	IntentReviewPolicy       Intent = "review-policy"
	IntentSuggestImprovement Intent = "suggest-improvement"
	IntentValidateCompliance Intent = "validate-compliance"
)

// #endregion intent

// #region output-format

// OutputFormat tags the shape of the synthesized output. Every valid
// intent maps to exactly one format.
type OutputFormat string

const (
	FormatStructuredClause OutputFormat = "structured-clause"
	FormatMappingTable     OutputFormat = "mapping-table"
	FormatReviewReport     OutputFormat = "review-report"
	FormatImprovementList  OutputFormat = "improvement-list"
)

// #endregion output-format

// #region jurisdictions

// Jurisdictions is the fixed set of regulatory regions a request may be
// scoped to.
var Jurisdictions = map[string]bool{
	"england":          true,
	"scotland":         true,
	"wales":            true,
	"northern-ireland": true,
	"ireland":          true,
	"jersey":           true,
	"isle-of-man":      true,
}

// #endregion jurisdictions

// #region request

// Request is the incoming authoring prompt. It lives for exactly one
// pipeline invocation.
type Request struct {
	Intent        Intent
	TemplateRef   string   // required for suggest-clause
	PolicyRef     string   // required for map-policy and review-policy
	Jurisdictions []string // non-empty, values from the fixed set
	Context       string   // free-text authoring context
	StandardCodes []string // required for map-policy and validate-compliance
}

// #endregion request

// #region routed

// Routed is a validated request bound to its output format.
type Routed struct {
	Request
	Format OutputFormat
}

// #endregion routed
