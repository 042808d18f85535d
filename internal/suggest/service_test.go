package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

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

// #region fakes

type fakeRetriever struct {
	docs      []retrieval.Document
	err       error
	calls     int
	lastQuery retrieval.Query
}

func (f *fakeRetriever) Retrieve(ctx context.Context, q retrieval.Query) ([]retrieval.Document, error) {
	f.calls++
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeSink struct {
	records   []audit.Record
	appendErr error
	decisions []audit.Decision
}

func (f *fakeSink) Append(ctx context.Context, rec audit.Record) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeSink) RecordDecision(ctx context.Context, suggestionID, userID string, decision audit.Decision, modifiedContent, rejectionReason string) error {
	f.decisions = append(f.decisions, decision)
	return nil
}

func (f *fakeSink) History(ctx context.Context, userID string, filter audit.HistoryFilter) ([]audit.Record, error) {
	return f.records, nil
}

func (f *fakeSink) UsageAnalytics(ctx context.Context, organizationID string, from, to time.Time) (audit.Usage, error) {
	return audit.Usage{Total: len(f.records)}, nil
}

type fakeSafety struct {
	result guard.SafetyResult
	err    error
	calls  int
}

func (f *fakeSafety) Validate(ctx context.Context, content, requestContext string) (guard.SafetyResult, error) {
	f.calls++
	if f.err != nil {
		return guard.SafetyResult{}, f.err
	}
	return f.result, nil
}

type fakeTransparency struct {
	events []transparency.Event
	err    error
}

func (f *fakeTransparency) LogDecision(ctx context.Context, event transparency.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// #endregion fakes

// #region harness

type harness struct {
	svc       *Service
	retriever *fakeRetriever
	sink      *fakeSink
	safety    *fakeSafety
	decisions *fakeTransparency
}

func newHarness(docs []retrieval.Document) *harness {
	h := &harness{
		retriever: &fakeRetriever{docs: docs},
		sink:      &fakeSink{},
		safety:    &fakeSafety{result: guard.SafetyResult{Safe: true, Confidence: 0.95}},
		decisions: &fakeTransparency{},
	}
	cfg := config.Default()
	h.svc = NewService(
		guard.NewStaticRoleGuard(),
		h.retriever,
		synthesis.NewSynthesizer(zap.NewNop()),
		h.safety,
		h.sink,
		h.decisions,
		cfg.Guard,
		cfg.Retrieval,
		zap.NewNop(),
	)
	return h
}

func testUser() guard.User {
	return guard.User{ID: "u1", Role: "quality-lead", OrganizationID: "org-1"}
}

func improvementRequest() Request {
	return Request{
		Intent:        routing.IntentSuggestImprovement,
		Jurisdictions: []string{"england"},
		Context:       "improve medication storage arrangements",
	}
}

func retrievedDoc(id string, relevance float64, verification knowledge.VerificationStatus, age time.Duration) retrieval.Document {
	return retrieval.Document{
		RawDocument: knowledge.RawDocument{
			ID:           id,
			SourceType:   knowledge.SourceRule,
			Title:        "Medication guidance " + id,
			Content:      "Medicines are stored securely and stock is reconciled weekly.",
			Version:      "1.0",
			Verification: verification,
			UpdatedAt:    time.Now().UTC().Add(-age),
		},
		Relevance: relevance,
	}
}

func freshDocs(n int, relevance float64) []retrieval.Document {
	docs := make([]retrieval.Document, n)
	for i := range docs {
		docs[i] = retrievedDoc(string(rune('a'+i)), relevance, knowledge.VerificationVerified, 24*time.Hour)
	}
	return docs
}

// #endregion harness

func TestValidationFailureStopsBeforeRetrieval(t *testing.T) {
	h := newHarness(nil)
	req := improvementRequest()
	req.Intent = routing.IntentSuggestClause // requires templateRef

	_, err := h.svc.GenerateSuggestion(context.Background(), req, testUser())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if h.retriever.calls != 0 {
		t.Fatalf("retriever invoked %d times before validation passed", h.retriever.calls)
	}
	if len(h.sink.records) != 0 {
		t.Fatal("no audit record should exist for a rejected request")
	}
}

func TestAuthorizationFailureStopsBeforeRetrieval(t *testing.T) {
	h := newHarness(nil)
	user := testUser()
	user.Role = "carer"
	req := improvementRequest()
	req.Intent = routing.IntentMapPolicy
	req.PolicyRef = "pol-1"
	req.StandardCodes = []string{"CQC-R12"}

	_, err := h.svc.GenerateSuggestion(context.Background(), req, user)
	var aerr *AuthorizationError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if h.retriever.calls != 0 || len(h.sink.records) != 0 {
		t.Fatal("denied request must not retrieve or log")
	}
}

func TestInsufficientSourcesFallsBack(t *testing.T) {
	// One highly relevant document is still below the source floor.
	h := newHarness(freshDocs(1, 0.95))

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("guardrails must not surface as errors: %v", err)
	}
	if !resp.FallbackUsed || resp.FallbackReason != fallback.ReasonInsufficientSources {
		t.Fatalf("expected insufficient-sources fallback, got %+v", resp)
	}
	if resp.Suggestion != nil {
		t.Fatal("fallback must not carry a suggestion")
	}
	if resp.SourceReferences == nil || len(resp.SourceReferences) != 0 {
		t.Fatalf("fallback must carry an empty reference list, got %v", resp.SourceReferences)
	}
	if !resp.RequiresHumanReview {
		t.Fatal("fallbacks always require human review")
	}
	if len(h.sink.records) != 1 || h.sink.records[0].Status != audit.StatusFallback {
		t.Fatalf("expected one fallback audit record, got %+v", h.sink.records)
	}
}

func TestSuccessPath(t *testing.T) {
	h := newHarness(freshDocs(5, 0.9))

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.FallbackUsed {
		t.Fatalf("expected success, fell back: %s", resp.FallbackReason)
	}
	if resp.Suggestion == nil {
		t.Fatal("expected a suggestion")
	}
	// 0.9*0.4 + 0.3 + 0.2 + 0.1 = 0.96
	if resp.Confidence < 0.959 || resp.Confidence > 0.961 {
		t.Fatalf("expected confidence ~0.96, got %.4f", resp.Confidence)
	}
	// 0.96 >= review threshold 0.9.
	if resp.RequiresHumanReview {
		t.Fatal("high-confidence response should not require review")
	}
	if len(resp.SourceReferences) != 5 {
		t.Fatalf("expected 5 source references, got %d", len(resp.SourceReferences))
	}
	if resp.ID == "" {
		t.Fatal("expected a suggestion id")
	}

	if len(h.sink.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(h.sink.records))
	}
	rec := h.sink.records[0]
	if rec.Status != audit.StatusSuccess || rec.SuggestionID != resp.ID {
		t.Fatalf("unexpected audit record: %+v", rec)
	}
	if rec.Verification != "verified" {
		t.Fatalf("expected verified summary, got %q", rec.Verification)
	}
	if !strings.Contains(rec.Prompt, "improve medication storage") {
		t.Fatal("prompt must be logged in full")
	}
	if rec.RegulatoryContext != "england" {
		t.Fatalf("unexpected regulatory context: %q", rec.RegulatoryContext)
	}

	if len(h.decisions.events) != 1 || h.decisions.events[0].TerminalState != "success" {
		t.Fatalf("expected one success transparency event, got %+v", h.decisions.events)
	}
	if h.safety.calls != 1 {
		t.Fatalf("safety validator should run once, ran %d times", h.safety.calls)
	}
}

func TestSuccessNearReviewThreshold(t *testing.T) {
	// 0.7*0.4 + (3/5)*0.3 + 0.2 + 0.1 = 0.76: above release floor, below
	// review threshold.
	h := newHarness(freshDocs(3, 0.7))

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.FallbackUsed {
		t.Fatalf("expected success, fell back: %s", resp.FallbackReason)
	}
	if !resp.RequiresHumanReview {
		t.Fatal("mid-confidence response must be flagged for review")
	}
}

func TestLowConfidenceFallsBack(t *testing.T) {
	docs := []retrieval.Document{
		retrievedDoc("a", 0.2, knowledge.VerificationPending, 400*24*time.Hour),
		retrievedDoc("b", 0.2, knowledge.VerificationPending, 400*24*time.Hour),
	}
	// 0.2*0.4 + (2/5)*0.3 + 0 + 0 = 0.2, below the 0.75 floor.
	h := newHarness(docs)

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.FallbackReason != fallback.ReasonLowConfidence {
		t.Fatalf("expected low-confidence fallback, got %+v", resp)
	}
	if resp.Suggestion != nil {
		t.Fatal("withheld suggestion must not be delivered")
	}
}

func TestSafetyFailureFallsBack(t *testing.T) {
	h := newHarness(freshDocs(5, 0.9))
	h.safety.result = guard.SafetyResult{Safe: false, Confidence: 0.95}

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.FallbackReason != fallback.ReasonSafetyFailed {
		t.Fatalf("expected safety fallback, got %+v", resp)
	}
	if resp.Suggestion != nil || len(resp.SourceReferences) != 0 {
		t.Fatal("unsafe content must be fully withheld")
	}
}

func TestLowSafetyConfidenceFallsBack(t *testing.T) {
	h := newHarness(freshDocs(5, 0.9))
	// Verdict is "safe" but below the safety-confidence floor of 0.7.
	h.safety.result = guard.SafetyResult{Safe: true, Confidence: 0.5}

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.FallbackReason != fallback.ReasonSafetyFailed {
		t.Fatalf("expected safety fallback, got %+v", resp)
	}
}

func TestRetrieverFailureBecomesSystemError(t *testing.T) {
	h := newHarness(nil)
	h.retriever.err = errors.New("knowledge base offline")

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("internal failures must not surface as errors: %v", err)
	}
	if resp.FallbackReason != fallback.ReasonSystemError {
		t.Fatalf("expected system-error fallback, got %+v", resp)
	}
	if resp.Escalate {
		t.Fatal("system errors are retryable, not escalations")
	}

	rec := h.sink.records[0]
	if rec.Status != audit.StatusError {
		t.Fatalf("expected error status, got %s", rec.Status)
	}
	if !strings.Contains(rec.ErrorMessage, "knowledge base offline") {
		t.Fatalf("cause must be logged, got %q", rec.ErrorMessage)
	}
}

func TestTransparencyFailureIsSwallowed(t *testing.T) {
	h := newHarness(freshDocs(5, 0.9))
	h.decisions.err = errors.New("channel unavailable")

	resp, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err != nil {
		t.Fatalf("transparency failure must not fail the pipeline: %v", err)
	}
	if resp.FallbackUsed {
		t.Fatal("expected success despite transparency failure")
	}
	if len(h.sink.records) != 1 {
		t.Fatal("audit record must still be written")
	}
}

func TestAuditAppendFailurePropagates(t *testing.T) {
	h := newHarness(freshDocs(5, 0.9))
	h.sink.appendErr = errors.New("disk full")

	_, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser())
	if err == nil {
		t.Fatal("a suggestion without its audit record must not be delivered")
	}
}

func TestQueryShaping(t *testing.T) {
	h := newHarness(freshDocs(5, 0.9))

	if _, err := h.svc.GenerateSuggestion(context.Background(), improvementRequest(), testUser()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	q := h.retriever.lastQuery
	want := []string{"improve", "medication", "storage", "arrangements"}
	if len(q.Keywords) != len(want) {
		t.Fatalf("expected keywords %v, got %v", want, q.Keywords)
	}
	for i, kw := range want {
		if q.Keywords[i] != kw {
			t.Fatalf("keyword %d: expected %s, got %s", i, kw, q.Keywords[i])
		}
	}
	if len(q.Jurisdictions) != 1 || q.Jurisdictions[0] != "england" {
		t.Fatalf("jurisdictions not forwarded: %v", q.Jurisdictions)
	}
	if q.MinRelevance != 0.3 || q.MaxResults != 10 {
		t.Fatalf("retrieval thresholds not applied: %+v", q)
	}
}

func TestRecordUserDecisionValidatesVerdict(t *testing.T) {
	h := newHarness(nil)

	if err := h.svc.RecordUserDecision(context.Background(), "sg-1", "u1", "pending", "", ""); err == nil {
		t.Fatal("expected error for non-recordable verdict")
	}
	if err := h.svc.RecordUserDecision(context.Background(), "sg-1", "u1", audit.DecisionAccepted, "", ""); err != nil {
		t.Fatalf("record decision: %v", err)
	}
	if len(h.sink.decisions) != 1 || h.sink.decisions[0] != audit.DecisionAccepted {
		t.Fatalf("decision not forwarded: %v", h.sink.decisions)
	}
}
