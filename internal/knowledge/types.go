package knowledge

import (
	"context"
	"time"
)

// #region source-type

// SourceType identifies which verified collection a document came from.
type SourceType string

const (
	SourceTemplate     SourceType = "template"
	SourceStandard     SourceType = "standard"
	SourceRule         SourceType = "rule"
	SourceBestPractice SourceType = "best-practice"
)

// #endregion

// #region verification

// VerificationStatus marks the review state of a knowledge document.
type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationPending    VerificationStatus = "pending"
	VerificationDeprecated VerificationStatus = "deprecated"
)

// #endregion

// #region raw-document

// RawDocument is a single entry in one of the knowledge collections.
type RawDocument struct {
	ID            string
	SourceType    SourceType
	Title         string
	Content       string
	Version       string
	Section       string
	Jurisdictions []string
	StandardCodes []string
	Verification  VerificationStatus
	UpdatedAt     time.Time
	Metadata      map[string]string
}

// #endregion

// #region filter-criteria

// FilterCriteria narrows a collection query. Keywords match against
// title+content; Jurisdictions and StandardCodes require a non-empty
// intersection with the document's tags when set.
type FilterCriteria struct {
	Keywords          []string
	Jurisdictions     []string
	StandardCodes     []string
	IncludeDeprecated bool
	Limit             int
}

// #endregion

// #region store-interface

// Store is the read-only knowledge base consumed by the retriever.
// Document ingestion and versioning happen outside this module.
type Store interface {
	QueryTemplates(ctx context.Context, criteria FilterCriteria) ([]RawDocument, error)
	QueryStandards(ctx context.Context, criteria FilterCriteria) ([]RawDocument, error)
	QueryRules(ctx context.Context, criteria FilterCriteria) ([]RawDocument, error)
}

// #endregion
