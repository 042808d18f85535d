package fallback

// #region reason

// Reason identifies which guardrail diverted the pipeline.
type Reason string

const (
	ReasonInsufficientSources Reason = "insufficient-sources"
	ReasonLowConfidence       Reason = "low-confidence"
	ReasonSafetyFailed        Reason = "safety-validation-failed"
	ReasonSystemError         Reason = "system-error"
)

// #endregion reason

// #region response

// Response is the safe, non-authoritative reply returned when a guardrail
// trips. It never fabricates policy content.
type Response struct {
	Reason      Reason
	Message     string
	NextActions []string
	Escalate    bool
}

// #endregion response

// #region table

// responses maps each reason to its fixed fallback content.
var responses = map[Reason]Response{
	ReasonInsufficientSources: {
		Reason: ReasonInsufficientSources,
		Message: "Not enough verified source material was found to assemble a reliable suggestion. " +
			"No content has been generated.",
		NextActions: []string{
			"Broaden the request context or jurisdictions",
			"Check whether relevant templates exist for this topic",
			"Contact your quality lead to add source material",
		},
		Escalate: true,
	},
	ReasonLowConfidence: {
		Reason: ReasonLowConfidence,
		Message: "A suggestion was assembled but its confidence fell below the release threshold, " +
			"so it has been withheld.",
		NextActions: []string{
			"Narrow the request to a single topic",
			"Request a manual draft from your quality lead",
		},
		Escalate: true,
	},
	ReasonSafetyFailed: {
		Reason: ReasonSafetyFailed,
		Message: "The assembled suggestion did not pass content-safety validation and has been withheld.",
		NextActions: []string{
			"Report this request to your quality lead for manual drafting",
		},
		Escalate: true,
	},
	ReasonSystemError: {
		Reason:  ReasonSystemError,
		Message: "An internal error prevented the suggestion from being generated. Please try again.",
		NextActions: []string{
			"Retry the request",
			"Contact support if the problem persists",
		},
		Escalate: false,
	},
}

// #endregion table

// #region build

// Build returns the fixed fallback response for a reason. Unknown reasons
// degrade to the system-error response.
func Build(reason Reason) Response {
	if resp, ok := responses[reason]; ok {
		return resp
	}
	return responses[ReasonSystemError]
}

// #endregion build
