package suggest

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/claritycare/policysuggest/internal/audit"
	"github.com/claritycare/policysuggest/internal/config"
	"github.com/claritycare/policysuggest/internal/fallback"
	"github.com/claritycare/policysuggest/internal/guard"
	"github.com/claritycare/policysuggest/internal/knowledge"
	"github.com/claritycare/policysuggest/internal/retrieval"
	"github.com/claritycare/policysuggest/internal/routing"
	"github.com/claritycare/policysuggest/internal/synthesis"
	"github.com/claritycare/policysuggest/internal/transparency"
)

// #endregion

// #region collaborators

// DocumentRetriever is the retrieval stage consumed by the pipeline.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, q retrieval.Query) ([]retrieval.Document, error)
}

// #endregion collaborators

// #region service

// Service is the suggestion pipeline: role check, routing, retrieval,
// guardrails, synthesis, safety validation and audit logging. It is
// stateless; nothing is shared between concurrent invocations except the
// read-only knowledge base and the append-only audit log.
type Service struct {
	roles        guard.RoleGuard
	retriever    DocumentRetriever
	synth        *synthesis.Synthesizer
	safety       guard.SafetyValidator
	sink         audit.Sink
	decisions    transparency.Logger
	guardCfg     config.GuardConfig
	retrievalCfg config.RetrievalConfig
	log          *zap.Logger
}

// NewService creates a fully wired pipeline.
func NewService(
	roles guard.RoleGuard,
	retriever DocumentRetriever,
	synth *synthesis.Synthesizer,
	safety guard.SafetyValidator,
	sink audit.Sink,
	decisions transparency.Logger,
	guardCfg config.GuardConfig,
	retrievalCfg config.RetrievalConfig,
	log *zap.Logger,
) *Service {
	return &Service{
		roles:        roles,
		retriever:    retriever,
		synth:        synth,
		safety:       safety,
		sink:         sink,
		decisions:    decisions,
		guardCfg:     guardCfg,
		retrievalCfg: retrievalCfg,
		log:          log,
	}
}

// #endregion service

// #region generate

// GenerateSuggestion runs the guarded pipeline. It returns an error only
// for authorization and validation failures (caller-input errors, raised
// before any retrieval); every guardrail or internal failure becomes a
// well-formed fallback response. Exactly one audit record is written per
// terminal edge.
func (s *Service) GenerateSuggestion(ctx context.Context, req Request, user guard.User) (resp Response, err error) {
	var id string
	started := time.Now().UTC()

	// Any panic past the caller-input checks becomes a system-error
	// fallback so the caller always receives a well-formed response.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("suggestion pipeline panic", zap.Any("panic", r), zap.String("suggestion_id", id))
			if id == "" {
				id = uuid.NewString()
			}
			routed := routing.Routed{Request: req}
			resp, err = s.terminal(ctx, id, routed, user, fallback.ReasonSystemError,
				fmt.Errorf("panic: %v", r), 0, started)
		}
	}()

	if err := s.roles.Authorize(user, req.Intent); err != nil {
		s.log.Warn("authorization refused",
			zap.String("role", user.Role), zap.String("intent", string(req.Intent)))
		return Response{}, err
	}

	routed, err := routing.Route(req)
	if err != nil {
		return Response{}, err
	}

	id = uuid.NewString()

	query := retrieval.Query{
		Keywords:          retrieval.ExtractKeywords(routed.Context),
		Jurisdictions:     routed.Jurisdictions,
		StandardCodes:     routed.StandardCodes,
		MinRelevance:      s.retrievalCfg.MinRelevance,
		MaxResults:        s.retrievalCfg.MaxResults,
		IncludeDeprecated: s.retrievalCfg.IncludeDeprecated,
	}

	docs, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return s.terminal(ctx, id, routed, user, fallback.ReasonSystemError, err, 0, started)
	}

	// Guardrail 1: minimum source count. High relevance of a lone source
	// does not compensate for missing corroboration.
	if len(docs) < s.guardCfg.MinSources {
		return s.terminal(ctx, id, routed, user, fallback.ReasonInsufficientSources, nil, len(docs), started)
	}

	sugg, err := s.synth.Synthesize(docs, routed)
	if err != nil {
		return s.terminal(ctx, id, routed, user, fallback.ReasonSystemError, err, len(docs), started)
	}

	// Guardrail 2: confidence floor.
	if sugg.Confidence < s.guardCfg.MinConfidence {
		return s.terminal(ctx, id, routed, user, fallback.ReasonLowConfidence, nil, len(docs), started)
	}

	// Guardrail 3: content-safety validation.
	content, err := renderContent(sugg)
	if err != nil {
		return s.terminal(ctx, id, routed, user, fallback.ReasonSystemError, err, len(docs), started)
	}
	verdict, err := s.safety.Validate(ctx, content, routed.Context)
	if err != nil {
		return s.terminal(ctx, id, routed, user, fallback.ReasonSystemError, err, len(docs), started)
	}
	if !verdict.Safe || verdict.Confidence < s.guardCfg.MinSafetyConfidence {
		return s.terminal(ctx, id, routed, user, fallback.ReasonSafetyFailed, nil, len(docs), started)
	}

	resp = Response{
		ID:                  id,
		Suggestion:          &sugg,
		SourceReferences:    sourceReferences(docs),
		Confidence:          sugg.Confidence,
		RequiresHumanReview: sugg.Confidence < s.guardCfg.ReviewConfidence,
		Metadata:            s.metadata(routed, len(docs), started),
	}

	if err := s.appendRecord(ctx, id, routed, user, resp, audit.StatusSuccess, "", docs); err != nil {
		return Response{}, err
	}
	s.emitDecision(ctx, id, routed, user, "success", "", resp.Confidence, len(docs), false)

	s.log.Info("suggestion generated",
		zap.String("suggestion_id", id),
		zap.String("intent", string(routed.Intent)),
		zap.Float64("confidence", resp.Confidence),
		zap.Int("sources", len(docs)),
		zap.Bool("requires_review", resp.RequiresHumanReview),
	)
	return resp, nil
}

// #endregion generate

// #region terminal-fallback

// terminal converts a tripped guardrail or internal failure into the safe
// fallback response and writes the audit record for this terminal edge.
func (s *Service) terminal(
	ctx context.Context,
	id string,
	routed routing.Routed,
	user guard.User,
	reason fallback.Reason,
	cause error,
	retrieved int,
	started time.Time,
) (Response, error) {
	fb := fallback.Build(reason)

	resp := Response{
		ID:                  id,
		Suggestion:          nil,
		SourceReferences:    []SourceReference{},
		Confidence:          0,
		RequiresHumanReview: true,
		FallbackUsed:        true,
		FallbackReason:      reason,
		FallbackMessage:     fb.Message,
		NextActions:         fb.NextActions,
		Escalate:            fb.Escalate,
		Metadata:            s.metadata(routed, retrieved, started),
	}

	status := audit.StatusFallback
	errMsg := string(reason)
	if reason == fallback.ReasonSystemError {
		status = audit.StatusError
		if cause != nil {
			errMsg = cause.Error()
		}
	}

	s.log.Warn("suggestion fell back",
		zap.String("suggestion_id", id),
		zap.String("reason", string(reason)),
		zap.Int("retrieved", retrieved),
		zap.Error(cause),
	)

	if err := s.appendRecord(ctx, id, routed, user, resp, status, errMsg, nil); err != nil {
		return Response{}, err
	}
	s.emitDecision(ctx, id, routed, user, string(status), string(reason), 0, retrieved, true)

	return resp, nil
}

// #endregion terminal-fallback

// #region audit-shaping

// appendRecord writes the canonical audit record. The append must succeed
// before the pipeline is considered finished: it is the sole record
// supporting later decision recording.
func (s *Service) appendRecord(
	ctx context.Context,
	id string,
	routed routing.Routed,
	user guard.User,
	resp Response,
	status audit.Status,
	errMsg string,
	docs []retrieval.Document,
) error {
	promptJSON, err := json.Marshal(routed.Request)
	if err != nil {
		return fmt.Errorf("marshal prompt: %w", err)
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	refsJSON, err := json.Marshal(resp.SourceReferences)
	if err != nil {
		return fmt.Errorf("marshal source refs: %w", err)
	}

	rec := audit.Record{
		SuggestionID:      id,
		UserID:            user.ID,
		OrganizationID:    user.OrganizationID,
		Intent:            string(routed.Intent),
		RegulatoryContext: strings.Join(routed.Jurisdictions, ","),
		Prompt:            string(promptJSON),
		Response:          string(respJSON),
		SourceRefs:        string(refsJSON),
		Status:            status,
		ErrorMessage:      errMsg,
		Verification:      summarizeVerification(docs),
		Confidence:        resp.Confidence,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.sink.Append(ctx, rec); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// emitDecision forwards the decision metadata to the transparency
// channel. Best-effort: failures are logged and swallowed so they never
// convert a success into a fallback.
func (s *Service) emitDecision(
	ctx context.Context,
	id string,
	routed routing.Routed,
	user guard.User,
	state, reason string,
	confidence float64,
	sources int,
	fallbackUsed bool,
) {
	event := transparency.Event{
		SuggestionID:   id,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Intent:         string(routed.Intent),
		TerminalState:  state,
		Reason:         reason,
		Confidence:     confidence,
		SourceCount:    sources,
		FallbackUsed:   fallbackUsed,
		At:             time.Now().UTC(),
	}
	if err := s.decisions.LogDecision(ctx, event); err != nil {
		s.log.Warn("transparency log failed", zap.String("suggestion_id", id), zap.Error(err))
	}
}

func (s *Service) metadata(routed routing.Routed, retrieved int, started time.Time) Metadata {
	return Metadata{
		GeneratedAt:        time.Now().UTC(),
		Duration:           time.Since(started),
		DocumentsRetrieved: retrieved,
		Jurisdictions:      routed.Jurisdictions,
	}
}

func sourceReferences(docs []retrieval.Document) []SourceReference {
	refs := make([]SourceReference, len(docs))
	for i, d := range docs {
		refs[i] = SourceReference{
			ID:         d.ID,
			SourceType: string(d.SourceType),
			Title:      d.Title,
			Version:    d.Version,
			Section:    d.Section,
			Relevance:  d.Relevance,
		}
	}
	return refs
}

func summarizeVerification(docs []retrieval.Document) string {
	if len(docs) == 0 {
		return "none"
	}
	verified := 0
	deprecated := 0
	for _, d := range docs {
		switch d.Verification {
		case knowledge.VerificationVerified:
			verified++
		case knowledge.VerificationDeprecated:
			deprecated++
		}
	}
	switch {
	case deprecated > 0:
		return "includes-deprecated"
	case verified == len(docs):
		return "verified"
	default:
		return "mixed"
	}
}

func renderContent(sugg synthesis.Suggestion) (string, error) {
	b, err := json.Marshal(sugg.Content)
	if err != nil {
		return "", fmt.Errorf("render suggestion content: %w", err)
	}
	return string(b), nil
}

// #endregion audit-shaping

// #region record-decision

// RecordUserDecision records the user's accept/modify/reject verdict on a
// delivered suggestion. The decision region is settable exactly once and
// only by the original requester; violations propagate as ErrNotFound,
// ErrNotRequester or ErrAlreadyDecided.
func (s *Service) RecordUserDecision(
	ctx context.Context,
	suggestionID, userID string,
	decision audit.Decision,
	modifiedContent, rejectionReason string,
) error {
	if !decision.Valid() {
		return fmt.Errorf("invalid decision %q", decision)
	}
	if err := s.sink.RecordDecision(ctx, suggestionID, userID, decision, modifiedContent, rejectionReason); err != nil {
		return err
	}
	s.log.Info("user decision recorded",
		zap.String("suggestion_id", suggestionID),
		zap.String("decision", string(decision)),
	)
	return nil
}

// #endregion record-decision

// #region reporting

// History returns the caller's suggestion log records, newest first.
func (s *Service) History(ctx context.Context, userID string, filter audit.HistoryFilter) ([]audit.Record, error) {
	return s.sink.History(ctx, userID, filter)
}

// UsageAnalytics aggregates an organization's suggestion activity over a
// time range.
func (s *Service) UsageAnalytics(ctx context.Context, organizationID string, from, to time.Time) (audit.Usage, error) {
	return s.sink.UsageAnalytics(ctx, organizationID, from, to)
}

// #endregion reporting
