package recordkit

import (
	"fmt"
	"sync"
)

// Resource names the kinds of things authorization rules protect.
type Resource string

// Protected resources.
const (
	ResourceRecord         Resource = "record"
	ResourceDropdownOption Resource = "dropdown_option"
	ResourceUser           Resource = "user"
)

// Action names the operations a rule can gate.
type Action string

// Gated actions.
const (
	ActionViewAny Action = "view_any"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
)

// Decision is the outcome of an authorization check. It is a plain value:
// evaluating a rule never errors, and a denial is not an error condition.
// Reason is human-readable context for logs and HTTP responses, not a
// machine-parseable code.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with a human-readable reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// RuleFunc evaluates one (resource, action) pair for a user. target carries
// the concrete entity for instance-level actions (e.g. *Record for
// record update) and is nil for class-level actions. Rules are pure: they
// inspect the already-loaded user and target and never touch storage.
type RuleFunc func(u *User, target any) Decision

type ruleKey struct {
	resource Resource
	action   Action
}

// Authorizer dispatches authorization checks to registered rules.
//
// Evaluation order is fixed: the webadmin bypass runs before any rule lookup,
// so webadmin is allowed even for (resource, action) pairs that have no rule.
// For everyone else a missing rule denies.
type Authorizer struct {
	mu    sync.RWMutex
	rules map[ruleKey]RuleFunc
}

// NewAuthorizer returns an Authorizer preloaded with the default rules for
// records, dropdown options and users.
func NewAuthorizer() *Authorizer {
	a := &Authorizer{rules: make(map[ruleKey]RuleFunc)}
	a.registerDefaultRules()
	return a
}

// Register installs (or replaces) the rule for a (resource, action) pair.
func (a *Authorizer) Register(resource Resource, action Action, rule RuleFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rules[ruleKey{resource, action}] = rule
}

// Authorize evaluates the rule for (resource, action) against u and target.
func (a *Authorizer) Authorize(u *User, resource Resource, action Action, target any) Decision {
	if u == nil {
		return Deny("no authenticated user")
	}
	if u.IsWebadmin() {
		return Allow()
	}

	a.mu.RLock()
	rule, ok := a.rules[ruleKey{resource, action}]
	a.mu.RUnlock()
	if !ok {
		return Deny(fmt.Sprintf("no authorization rule defined for %s.%s", resource, action))
	}
	return rule(u, target)
}

// ownedAbility pairs a broad permission with its ownership-scoped variant.
// The broad permission allows the action on any instance; the own variant
// allows it only when the user created the instance. Either path suffices.
type ownedAbility struct {
	any string
	own string
}

func (ab ownedAbility) decide(u *User, ownerID int64, verb string) Decision {
	if u.HasPermission(ab.any) {
		return Allow()
	}
	if u.HasPermission(ab.own) && u.ID == ownerID {
		return Allow()
	}
	return Deny(fmt.Sprintf("you do not have permission to %s", verb))
}

var (
	recordUpdateAbility = ownedAbility{any: PermRecordsUpdate, own: PermRecordsUpdateOwn}
	recordDeleteAbility = ownedAbility{any: PermRecordsDelete, own: PermRecordsDeleteOwn}
)

func (a *Authorizer) registerDefaultRules() {
	a.rules[ruleKey{ResourceRecord, ActionViewAny}] = func(u *User, _ any) Decision {
		if u.HasPermission(PermRecordsView) {
			return Allow()
		}
		return Deny("you do not have permission to view records")
	}
	a.rules[ruleKey{ResourceRecord, ActionView}] = func(u *User, target any) Decision {
		rec, ok := target.(*Record)
		if !ok || rec == nil {
			return Deny("record required")
		}
		if u.HasPermission(PermRecordsViewAll) {
			return Allow()
		}
		if u.HasPermission(PermRecordsView) && u.ID == rec.CreatedBy {
			return Allow()
		}
		return Deny("you do not have permission to view this record")
	}
	a.rules[ruleKey{ResourceRecord, ActionCreate}] = func(u *User, _ any) Decision {
		if u.HasPermission(PermRecordsCreate) {
			return Allow()
		}
		return Deny("you do not have permission to create records")
	}
	a.rules[ruleKey{ResourceRecord, ActionUpdate}] = func(u *User, target any) Decision {
		rec, ok := target.(*Record)
		if !ok || rec == nil {
			return Deny("record required")
		}
		return recordUpdateAbility.decide(u, rec.CreatedBy, "update this record")
	}
	a.rules[ruleKey{ResourceRecord, ActionDelete}] = func(u *User, target any) Decision {
		rec, ok := target.(*Record)
		if !ok || rec == nil {
			return Deny("record required")
		}
		return recordDeleteAbility.decide(u, rec.CreatedBy, "delete this record")
	}

	a.rules[ruleKey{ResourceDropdownOption, ActionViewAny}] = dropdownViewRule
	a.rules[ruleKey{ResourceDropdownOption, ActionView}] = dropdownViewRule
	a.rules[ruleKey{ResourceDropdownOption, ActionCreate}] = dropdownManageRule
	a.rules[ruleKey{ResourceDropdownOption, ActionUpdate}] = dropdownManageRule
	a.rules[ruleKey{ResourceDropdownOption, ActionDelete}] = dropdownManageRule

	a.rules[ruleKey{ResourceUser, ActionViewAny}] = userViewRule
	a.rules[ruleKey{ResourceUser, ActionView}] = userViewRule
	a.rules[ruleKey{ResourceUser, ActionCreate}] = userManageRule
	a.rules[ruleKey{ResourceUser, ActionUpdate}] = userManageRule
	a.rules[ruleKey{ResourceUser, ActionDelete}] = userManageRule
}

func dropdownViewRule(u *User, _ any) Decision {
	if u.HasPermission(PermDropdownOptionsView) {
		return Allow()
	}
	return Deny("you do not have permission to view dropdown options")
}

func dropdownManageRule(u *User, _ any) Decision {
	if u.HasPermission(PermDropdownOptionsManage) {
		return Allow()
	}
	return Deny("you do not have permission to manage dropdown options")
}

func userViewRule(u *User, _ any) Decision {
	if u.HasPermission(PermUsersView) {
		return Allow()
	}
	return Deny("you do not have permission to view users")
}

func userManageRule(u *User, _ any) Decision {
	if u.HasPermission(PermUsersManage) {
		return Allow()
	}
	return Deny("you do not have permission to manage users")
}
