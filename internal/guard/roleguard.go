package guard

// #region imports
import (
	"fmt"

	"github.com/claritycare/policysuggest/internal/routing"
)

// #endregion

// #region user

// User identifies the requesting user.
type User struct {
	ID             string
	Role           string
	OrganizationID string
}

// #endregion user

// #region authorization-error

// AuthorizationError reports that a user's role lacks permission for an
// intent. Raised before any retrieval or prompt logging happens.
type AuthorizationError struct {
	Role   string
	Intent routing.Intent
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q is not permitted to use intent %q", e.Role, e.Intent)
}

// #endregion authorization-error

// #region role-guard

// RoleGuard decides whether a user may invoke a given intent.
type RoleGuard interface {
	Authorize(user User, intent routing.Intent) error
}

// #endregion role-guard

// #region static-guard

// rolePermissions maps role → permitted intents.
var rolePermissions = map[string]map[routing.Intent]bool{
	"admin": {
		routing.IntentSuggestClause:      true,
		routing.IntentMapPolicy:          true,
		routing.IntentReviewPolicy:       true,
		routing.IntentSuggestImprovement: true,
		routing.IntentValidateCompliance: true,
	},
	"quality-lead": {
		routing.IntentSuggestClause:      true,
		routing.IntentMapPolicy:          true,
		routing.IntentReviewPolicy:       true,
		routing.IntentSuggestImprovement: true,
		routing.IntentValidateCompliance: true,
	},
	"manager": {
		routing.IntentSuggestClause:      true,
		routing.IntentReviewPolicy:       true,
		routing.IntentSuggestImprovement: true,
	},
	"carer": {
		routing.IntentSuggestImprovement: true,
	},
}

// StaticRoleGuard authorizes against the built-in role permission table.
type StaticRoleGuard struct{}

// NewStaticRoleGuard creates a guard backed by the built-in table.
func NewStaticRoleGuard() *StaticRoleGuard {
	return &StaticRoleGuard{}
}

// Authorize fails with an AuthorizationError when the role lacks the
// intent.
func (g *StaticRoleGuard) Authorize(user User, intent routing.Intent) error {
	if rolePermissions[user.Role][intent] {
		return nil
	}
	return &AuthorizationError{Role: user.Role, Intent: intent}
}

// #endregion static-guard
