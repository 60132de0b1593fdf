package rankeval

import "fmt"

// State is the lifecycle state of an Evaluator.
// States only move forward; StateFailed is terminal.
type State int32

const (
	StateInit State = iota
	StatePartitioned
	StateCentroidsComputed
	StateScoring
	StateAggregated
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePartitioned:
		return "partitioned"
	case StateCentroidsComputed:
		return "centroids-computed"
	case StateScoring:
		return "scoring"
	case StateAggregated:
		return "aggregated"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
