package domain

import "strings"

// Intent is the detected target entity type of a draft.
type Intent string

const (
	IntentTask      Intent = "task"
	IntentEpic      Intent = "epic"
	IntentChallenge Intent = "challenge"
	IntentEvent     Intent = "event"
	IntentBill      Intent = "bill"
	IntentNote      Intent = "note"
)

// ValidIntents is the closed set of draft variants, in display order.
var ValidIntents = []Intent{
	IntentTask, IntentEpic, IntentChallenge, IntentEvent, IntentBill, IntentNote,
}

// ParseIntent matches s against the known intents, ignoring case and
// surrounding whitespace.
func ParseIntent(s string) (Intent, bool) {
	normalized := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, in := range ValidIntents {
		if in == normalized {
			return in, true
		}
	}
	return "", false
}

// Life-area codes assigned to every draft.
const (
	LifeAreaHealth        = "health"
	LifeAreaFinance       = "finance"
	LifeAreaCareer        = "career"
	LifeAreaRelationships = "relationships"
	LifeAreaGrowth        = "growth"
	LifeAreaFun           = "fun"
	LifeAreaEnvironment   = "environment"
)

// DefaultLifeArea is used whenever the model omits a life area.
const DefaultLifeArea = LifeAreaGrowth

var lifeAreas = map[string]bool{
	LifeAreaHealth: true, LifeAreaFinance: true, LifeAreaCareer: true, LifeAreaRelationships: true,
	LifeAreaGrowth: true, LifeAreaFun: true, LifeAreaEnvironment: true,
}

// IsLifeArea reports whether code is a known life-area code.
func IsLifeArea(code string) bool {
	return lifeAreas[code]
}

// Eisenhower quadrant codes for tasks.
const (
	QuadrantUrgentImportant = "Q1"
	QuadrantImportant       = "Q2"
	QuadrantUrgent          = "Q3"
	QuadrantNeither         = "Q4"
)

// IsQuadrant reports whether code is one of Q1..Q4.
func IsQuadrant(code string) bool {
	switch code {
	case QuadrantUrgentImportant, QuadrantImportant, QuadrantUrgent, QuadrantNeither:
		return true
	default:
		return false
	}
}

// ValidEffortPoints is the Fibonacci-like sizing scale for tasks.
var ValidEffortPoints = map[int]bool{1: true, 2: true, 3: true, 5: true, 8: true, 13: true}

// DraftStatus is the lifecycle state of a pending draft.
type DraftStatus string

const (
	DraftPendingApproval DraftStatus = "PENDING_APPROVAL"
	DraftApproved        DraftStatus = "APPROVED"
	DraftModified        DraftStatus = "MODIFIED"
	DraftRejected        DraftStatus = "REJECTED"
	DraftExpired         DraftStatus = "EXPIRED"
)

// IsTerminal reports whether no further decision may be applied.
func (s DraftStatus) IsTerminal() bool {
	return s != DraftPendingApproval
}

// DecisionAction is a user decision against a pending draft.
type DecisionAction string

const (
	ActionApprove DecisionAction = "APPROVE"
	ActionModify  DecisionAction = "MODIFY"
	ActionReject  DecisionAction = "REJECT"
)

// ParseDecisionAction accepts any casing of the three actions.
func ParseDecisionAction(s string) (DecisionAction, bool) {
	switch DecisionAction(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionApprove:
		return ActionApprove, true
	case ActionModify:
		return ActionModify, true
	case ActionReject:
		return ActionReject, true
	default:
		return "", false
	}
}
