package retrieval

// #region imports
import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/claritycare/policysuggest/internal/knowledge"
)

// #endregion

// #region scoring-weights

// Relevance scoring weights. Fixed so identical queries against an
// unchanged knowledge base rank identically across runs.
const (
	coverageWeight = 0.6 // fraction of query keywords present in the document
	densityWeight  = 0.4 // cap on the keyword-frequency bonus
	// densitySaturation is the keyword density (occurrences per word) at
	// which the frequency bonus reaches its cap.
	densitySaturation = 0.1
	// noKeywordScore is assigned when the query carries no keywords and
	// relevance cannot be estimated from text overlap.
	noKeywordScore = 0.8
)

// #endregion scoring-weights

// #region retriever

// Retriever issues filtered queries against the three knowledge
// collections, scores each hit and merges the results.
type Retriever struct {
	store   knowledge.Store
	timeout time.Duration
	log     *zap.Logger
}

// NewRetriever creates a Retriever. The timeout bounds the whole
// three-collection fan-out; expiry surfaces as an error.
func NewRetriever(store knowledge.Store, timeout time.Duration, log *zap.Logger) *Retriever {
	return &Retriever{store: store, timeout: timeout, log: log}
}

// #endregion retriever

// #region retrieve

// Retrieve queries templates, standards and rules concurrently, scores
// every hit, drops hits below the relevance threshold, sorts descending by
// score and truncates to the result cap. Failure of any one collection
// fails the whole retrieval: partial coverage would silently bias ranking.
func (r *Retriever) Retrieve(ctx context.Context, q Query) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	criteria := knowledge.FilterCriteria{
		Keywords:          q.Keywords,
		Jurisdictions:     q.Jurisdictions,
		IncludeDeprecated: q.IncludeDeprecated,
	}
	standardsCriteria := criteria
	standardsCriteria.StandardCodes = q.StandardCodes

	var templates, standards, rules []knowledge.RawDocument
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if templates, err = r.store.QueryTemplates(gctx, criteria); err != nil {
			return fmt.Errorf("query templates: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if standards, err = r.store.QueryStandards(gctx, standardsCriteria); err != nil {
			return fmt.Errorf("query standards: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if rules, err = r.store.QueryRules(gctx, criteria); err != nil {
			return fmt.Errorf("query rules: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Document, 0, len(templates)+len(standards)+len(rules))
	for _, raw := range templates {
		merged = appendScored(merged, raw, q)
	}
	for _, raw := range standards {
		merged = appendScored(merged, raw, q)
	}
	for _, raw := range rules {
		merged = appendScored(merged, raw, q)
	}

	// Descending by relevance; id ascending as a deterministic tiebreak.
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Relevance != merged[j].Relevance {
			return merged[i].Relevance > merged[j].Relevance
		}
		return merged[i].ID < merged[j].ID
	})

	if q.MaxResults > 0 && len(merged) > q.MaxResults {
		merged = merged[:q.MaxResults]
	}

	r.log.Debug("retrieval merged",
		zap.Int("templates", len(templates)),
		zap.Int("standards", len(standards)),
		zap.Int("rules", len(rules)),
		zap.Int("kept", len(merged)),
	)
	return merged, nil
}

func appendScored(docs []Document, raw knowledge.RawDocument, q Query) []Document {
	score := scoreRelevance(raw, q.Keywords)
	if score < q.MinRelevance {
		return docs
	}
	return append(docs, Document{RawDocument: raw, Relevance: score})
}

// #endregion retrieve

// #region scoring

// scoreRelevance combines keyword coverage (weight 0.6) with a frequency
// bonus capped at 0.4 that is proportional to keyword occurrence density.
// Clamped to [0,1]; defaults to noKeywordScore when no keywords were
// supplied.
func scoreRelevance(doc knowledge.RawDocument, keywords []string) float64 {
	if len(keywords) == 0 {
		return noKeywordScore
	}

	text := strings.ToLower(doc.Title + " " + doc.Content)
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	matched := 0
	occurrences := 0
	for _, kw := range keywords {
		n := strings.Count(text, kw)
		if n > 0 {
			matched++
		}
		occurrences += n
	}

	coverage := float64(matched) / float64(len(keywords))
	density := float64(occurrences) / float64(words)
	bonus := math.Min(densityWeight, density/densitySaturation*densityWeight)

	return clamp01(coverage*coverageWeight + bonus)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// #endregion scoring
