package scanner

// State is the phase of the pass state machine.
type State int32

const (
	StateIdle State = iota
	StatePaging
	StateReconciling
	StateDispatching
	StateFinalizing
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StatePaging:      "paging",
	StateReconciling: "reconciling",
	StateDispatching: "dispatching",
	StateFinalizing:  "finalizing",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
