package synthesis

// #region imports
import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/claritycare/policysuggest/internal/retrieval"
	"github.com/claritycare/policysuggest/internal/routing"
)

// #endregion

// #region synthesizer

// Synthesizer assembles output documents strictly from retrieved text.
// One strategy per output format; no free-form generation anywhere.
type Synthesizer struct {
	log *zap.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(log *zap.Logger) *Synthesizer {
	return &Synthesizer{log: log}
}

// #endregion synthesizer

// #region dispatch

type builder func(s *Synthesizer, docs []retrieval.Document, routed routing.Routed) (interface{}, []string)

// builders maps each output format to its assembly strategy.
var builders = map[routing.OutputFormat]builder{
	routing.FormatStructuredClause: (*Synthesizer).buildClause,
	routing.FormatMappingTable:     (*Synthesizer).buildMapping,
	routing.FormatReviewReport:     (*Synthesizer).buildReview,
	routing.FormatImprovementList:  (*Synthesizer).buildImprovements,
}

// Synthesize dispatches on the routed output format. Documents must
// already be sorted descending by relevance.
func (s *Synthesizer) Synthesize(docs []retrieval.Document, routed routing.Routed) (Suggestion, error) {
	build, ok := builders[routed.Format]
	if !ok {
		return Suggestion{}, fmt.Errorf("no synthesis strategy for format %q", routed.Format)
	}

	now := time.Now().UTC()
	content, sourceIDs := build(s, docs, routed)
	conf := confidence(docs, now)

	sugg := Suggestion{
		Content:    content,
		Confidence: conf,
		SourceIDs:  sourceIDs,
		Method:     methodFor(routed.Format, len(sourceIDs)),
		Warnings:   buildWarnings(docs, conf, now),
	}

	s.log.Debug("synthesized suggestion",
		zap.String("format", string(routed.Format)),
		zap.String("method", string(sugg.Method)),
		zap.Float64("confidence", conf),
		zap.Int("sources", len(sourceIDs)),
	)
	return sugg, nil
}

func methodFor(format routing.OutputFormat, sources int) Method {
	if sources <= 1 {
		return MethodSingleSource
	}
	if format == routing.FormatStructuredClause {
		return MethodTemplateAssembly
	}
	return MethodMultiSourceMerge
}

// #endregion dispatch
