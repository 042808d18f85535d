package retrieval

import (
	"github.com/claritycare/policysuggest/internal/knowledge"
)

// #region query

// Query carries everything the retriever needs for one request.
type Query struct {
	Keywords          []string // extracted from request context, in original order
	Jurisdictions     []string
	StandardCodes     []string
	MinRelevance      float64 // hits scoring below this are dropped
	MaxResults        int     // merged result cap
	IncludeDeprecated bool
}

// #endregion query

// #region document

// Document is a scored knowledge-base hit. Produced fresh per request,
// never persisted by this module.
type Document struct {
	knowledge.RawDocument
	Relevance float64 // [0,1]
}

// #endregion document
