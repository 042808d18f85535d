package guard

// #region imports
import (
	"context"
	"regexp"
	"strings"
)

// #endregion

// #region result

// SafetyResult is the verdict of a content-safety validation.
type SafetyResult struct {
	Safe       bool
	Confidence float64 // [0,1] confidence in the verdict
}

// SafetyValidator checks assembled content before it is released to the
// caller.
type SafetyValidator interface {
	Validate(ctx context.Context, content, requestContext string) (SafetyResult, error)
}

// #endregion result

// #region patterns

// Clinical dosing has no place in a policy suggestion; any match is a
// hard failure.
var dosagePattern = regexp.MustCompile(`\b\d+(\.\d+)?\s?(mg|ml|mcg|µg|units?)\b`)

var prescriptivePhrases = []string{
	"administer",
	"dosage",
	"increase the dose",
	"reduce the dose",
	"withhold medication",
	"double the dose",
}

// Absolute claims are flagged because policy language must leave room for
// professional judgement.
var absolutePhrases = []string{
	"must never",
	"always safe",
	"guaranteed",
	"no risk",
	"cannot fail",
	"under no circumstances is review needed",
	"zero chance",
}

// Hedged phrasing signals content that was not drawn verbatim from a
// verified source.
var speculativePhrases = []string{
	"probably",
	"it is believed",
	"might be the case",
	"we think",
	"possibly correct",
}

// #endregion patterns

// #region pattern-validator

// PatternValidator scores content via string analysis. No model call.
type PatternValidator struct{}

// NewPatternValidator creates the heuristic validator.
func NewPatternValidator() *PatternValidator {
	return &PatternValidator{}
}

// Validate flags prescriptive clinical phrasing (hard failure), and
// degrades confidence for absolute or speculative phrasing.
func (v *PatternValidator) Validate(ctx context.Context, content, requestContext string) (SafetyResult, error) {
	if err := ctx.Err(); err != nil {
		return SafetyResult{}, err
	}

	lower := strings.ToLower(content)

	if dosagePattern.MatchString(lower) || containsAny(lower, prescriptivePhrases) {
		return SafetyResult{Safe: false, Confidence: 0.95}, nil
	}

	confidence := 0.95
	absolutes := countHits(lower, absolutePhrases)
	speculative := countHits(lower, speculativePhrases)

	confidence -= 0.15 * float64(absolutes)
	confidence -= 0.1 * float64(speculative)
	if confidence < 0 {
		confidence = 0
	}

	if absolutes >= 2 {
		return SafetyResult{Safe: false, Confidence: 0.9}, nil
	}

	return SafetyResult{Safe: true, Confidence: confidence}, nil
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func countHits(text string, phrases []string) int {
	count := 0
	for _, p := range phrases {
		count += strings.Count(text, p)
	}
	return count
}

// #endregion pattern-validator
