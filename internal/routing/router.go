package routing

// #region imports
import (
	"fmt"
	"strings"
)

// #endregion

// #region validation-error

// ValidationError reports a malformed or incomplete request. It is a
// caller-input error and is raised before any retrieval happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// #endregion validation-error

// #region intent-table

// intentRule declares the companion fields an intent requires and the
// output format it binds to. Adding an intent is a data change here, not
// a control-flow change downstream.
type intentRule struct {
	format        OutputFormat
	needsTemplate bool
	needsPolicy   bool
	needsCodes    bool
}

var intentRules = map[Intent]intentRule{
	IntentSuggestClause:      {format: FormatStructuredClause, needsTemplate: true},
	IntentMapPolicy:          {format: FormatMappingTable, needsPolicy: true, needsCodes: true},
	IntentReviewPolicy:       {format: FormatReviewReport, needsPolicy: true},
	IntentSuggestImprovement: {format: FormatImprovementList},
	IntentValidateCompliance: {format: FormatMappingTable, needsCodes: true},
}

// #endregion intent-table

// #region route

// Route validates the request and binds it to its output format.
func Route(req Request) (Routed, error) {
	if req.Intent == "" {
		return Routed{}, &ValidationError{Field: "intent", Reason: "missing"}
	}
	rule, ok := intentRules[req.Intent]
	if !ok {
		return Routed{}, &ValidationError{Field: "intent", Reason: fmt.Sprintf("unrecognized intent %q", req.Intent)}
	}

	if len(req.Jurisdictions) == 0 {
		return Routed{}, &ValidationError{Field: "jurisdictions", Reason: "at least one jurisdiction is required"}
	}
	var invalid []string
	for _, j := range req.Jurisdictions {
		if !Jurisdictions[j] {
			invalid = append(invalid, j)
		}
	}
	if len(invalid) > 0 {
		return Routed{}, &ValidationError{
			Field:  "jurisdictions",
			Reason: fmt.Sprintf("unknown jurisdictions: %s", strings.Join(invalid, ", ")),
		}
	}

	if strings.TrimSpace(req.Context) == "" {
		return Routed{}, &ValidationError{Field: "context", Reason: "missing"}
	}

	if rule.needsTemplate && req.TemplateRef == "" {
		return Routed{}, &ValidationError{Field: "templateRef", Reason: fmt.Sprintf("required for intent %s", req.Intent)}
	}
	if rule.needsPolicy && req.PolicyRef == "" {
		return Routed{}, &ValidationError{Field: "policyRef", Reason: fmt.Sprintf("required for intent %s", req.Intent)}
	}
	if rule.needsCodes && len(req.StandardCodes) == 0 {
		return Routed{}, &ValidationError{Field: "standardCodes", Reason: fmt.Sprintf("required for intent %s", req.Intent)}
	}

	return Routed{Request: req, Format: rule.format}, nil
}

// #endregion route
