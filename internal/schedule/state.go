package schedule

import (
	"contract-mapper/internal/common"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
)

// State is the deferral state of a contract.
type State int

const (
	StatePending State = iota
	StateResolved
	StateDeferred
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateDeferred:
		return "deferred"
	case StateFailed:
		return "failed"
	default:
		return common.UnknownStr
	}
}

// Terminal reports whether the state can no longer change.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateFailed
}

// Entry tracks one contract across rounds.
type Entry struct {
	Contract *mapping.Contract
	State    State
	// Plan is set once the contract is resolved.
	Plan *plan.Plan
	// Err is the last deferral or the permanent failure.
	Err error
	// Attempts counts the rounds in which the contract was resolved.
	Attempts int

	emitted bool
}
