package recordkit

import (
	"github.com/fernandezvara/dbkit"
)

// Service provides role-gated record management on top of a dbkit database.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Domain conditions (not found,
// duplicates, type mismatches) are additionally wrapped in recordkit
// sentinels so callers can branch without knowing store internals.
//
// Example error handling:
//
//	rec, err := service.GetRecord(ctx, id)
//	if err != nil {
//	    if recordkit.IsNotFound(err) {
//	        // 404
//	    }
//	    if dbkit.IsDuplicate(err) {
//	        // unique constraint
//	    }
//	}
//
// Authorization is separate from storage: Authorize returns a Decision
// value and never an error. HTTP boundaries translate denials into 403s.
type Service struct {
	db         dbkit.IDB
	authorizer *Authorizer
	txMonitor  *transactionMonitor
}

// NewService creates a new RecordKit service with the default rule set.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := recordkit.NewService(db)
func NewService(db dbkit.IDB) *Service {
	return &Service{
		db:         db,
		authorizer: NewAuthorizer(),
		txMonitor:  newTransactionMonitor(),
	}
}

// Authorizer returns the rule table, for registering custom rules.
func (s *Service) Authorizer() *Authorizer {
	return s.authorizer
}

// Authorize evaluates the rule for (resource, action) against u and target.
// See Authorizer.Authorize for the evaluation order.
func (s *Service) Authorize(u *User, resource Resource, action Action, target any) Decision {
	return s.authorizer.Authorize(u, resource, action, target)
}
