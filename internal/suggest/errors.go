package suggest

import (
	"github.com/claritycare/policysuggest/internal/audit"
	"github.com/claritycare/policysuggest/internal/guard"
	"github.com/claritycare/policysuggest/internal/routing"
)

// Caller-input error types, re-exported so callers only depend on this
// package. Both abort the pipeline before any retrieval happens.
type (
	// ValidationError reports a malformed or incomplete request.
	ValidationError = routing.ValidationError
	// AuthorizationError reports a role lacking permission for an intent.
	AuthorizationError = guard.AuthorizationError
)

// Decision-recording errors. These reflect caller misuse and propagate
// directly.
var (
	ErrNotFound       = audit.ErrNotFound
	ErrNotRequester   = audit.ErrNotRequester
	ErrAlreadyDecided = audit.ErrAlreadyDecided
)
