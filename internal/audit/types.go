package audit

// #region imports
import (
	"context"
	"errors"
	"time"
)

// #endregion

// #region errors

var (
	// ErrNotFound means no record exists for the suggestion id.
	ErrNotFound = errors.New("suggestion record not found")
	// ErrNotRequester means the caller is not the record's original
	// requester.
	ErrNotRequester = errors.New("decision may only be recorded by the original requester")
	// ErrAlreadyDecided means a decision was already recorded; the
	// decision region is settable exactly once.
	ErrAlreadyDecided = errors.New("decision already recorded for this suggestion")
)

// #endregion errors

// #region status

// Status is the terminal outcome of a pipeline invocation.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFallback Status = "fallback"
	StatusError    Status = "error"
)

// #endregion status

// #region decision

// Decision is the user's verdict on a delivered suggestion.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionAccepted Decision = "accepted"
	DecisionModified Decision = "modified"
	DecisionRejected Decision = "rejected"
)

// Valid reports whether d is a recordable decision (pending is the
// initial state, not a recordable one).
func (d Decision) Valid() bool {
	return d == DecisionAccepted || d == DecisionModified || d == DecisionRejected
}

// #endregion decision

// #region record

// Record is one row of the suggestion log. Everything outside the
// decision region is write-once at creation; the storage boundary
// enforces this, not convention.
type Record struct {
	SuggestionID      string
	UserID            string
	OrganizationID    string
	Intent            string
	RegulatoryContext string // jurisdiction scope, comma-joined
	Prompt            string // full request, JSON
	Response          string // full response, JSON; empty when nil
	SourceRefs        string // source references, JSON
	Status            Status
	ErrorMessage      string
	Verification      string // source verification summary
	Confidence        float64
	CreatedAt         time.Time

	// Decision region: the only mutable fields, settable exactly once.
	Decision        Decision
	ModifiedContent string
	RejectionReason string
	DecidedAt       *time.Time
}

// #endregion record

// #region history-filter

// HistoryFilter narrows a user's suggestion history query.
type HistoryFilter struct {
	Intent string
	Status Status
	Since  time.Time
	Limit  int
}

// #endregion history-filter

// #region usage

// Usage aggregates an organization's suggestion activity over a time
// range.
type Usage struct {
	Total         int
	Success       int
	Fallback      int
	Errors        int
	FallbackRate  float64
	Accepted      int
	Modified      int
	Rejected      int
	AvgConfidence float64
}

// #endregion usage

// #region sink

// Sink is the append-only suggestion log. Append is write-once;
// RecordDecision touches only the decision region and is serialized per
// suggestion id.
type Sink interface {
	Append(ctx context.Context, rec Record) error
	RecordDecision(ctx context.Context, suggestionID, userID string, decision Decision, modifiedContent, rejectionReason string) error
	History(ctx context.Context, userID string, filter HistoryFilter) ([]Record, error)
	UsageAnalytics(ctx context.Context, organizationID string, from, to time.Time) (Usage, error)
}

// #endregion sink
