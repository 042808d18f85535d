package transparency

// #region imports
import (
	"context"
	"time"

	"go.uber.org/zap"
)

// #endregion

// #region event

// Event carries the decision metadata emitted at every terminal edge of
// the pipeline. It mirrors the audit record but flows to the
// explainability channel, which is best-effort.
type Event struct {
	SuggestionID   string
	UserID         string
	OrganizationID string
	Intent         string
	TerminalState  string // success | fallback | error
	Reason         string // fallback reason or error summary, empty on success
	Confidence     float64
	SourceCount    int
	FallbackUsed   bool
	At             time.Time
}

// #endregion event

// #region logger

// Logger receives decision events. Implementations must be safe for
// concurrent use; failures never fail the pipeline.
type Logger interface {
	LogDecision(ctx context.Context, event Event) error
}

// #endregion logger

// #region zap-logger

// ZapLogger emits decision events as structured log entries.
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger creates a ZapLogger.
func NewZapLogger(log *zap.Logger) *ZapLogger {
	return &ZapLogger{log: log}
}

// LogDecision writes the event at info level. Never fails.
func (l *ZapLogger) LogDecision(ctx context.Context, event Event) error {
	l.log.Info("suggestion decision",
		zap.String("suggestion_id", event.SuggestionID),
		zap.String("user_id", event.UserID),
		zap.String("organization_id", event.OrganizationID),
		zap.String("intent", event.Intent),
		zap.String("terminal_state", event.TerminalState),
		zap.String("reason", event.Reason),
		zap.Float64("confidence", event.Confidence),
		zap.Int("source_count", event.SourceCount),
		zap.Bool("fallback_used", event.FallbackUsed),
		zap.Time("at", event.At),
	)
	return nil
}

// #endregion zap-logger
