package rb

import (
	"errors"
	"fmt"
)

// State is a protocol lifecycle stage.
type State int

const (
	StateReset State = iota
	StateBuilt
	StateExecuted
	StateAnalyzed
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateBuilt:
		return "built"
	case StateExecuted:
		return "executed"
	case StateAnalyzed:
		return "analyzed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateError reports an operation called in the wrong lifecycle stage.
type StateError struct {
	Protocol string
	Op       string
	State    State
	Want     State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("RB_STATE: %s: cannot %s in state %s (want %s)", e.Protocol, e.Op, e.State, e.Want)
}

// IsStateError returns true if err is a StateError.
// Uses errors.As to handle wrapped errors.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

// lifecycle tracks a protocol's stage.
type lifecycle struct {
	name  string
	state State
}

func (l *lifecycle) require(op string, want State) error {
	if l.state != want {
		return &StateError{Protocol: l.name, Op: op, State: l.state, Want: want}
	}
	return nil
}

// State returns the current lifecycle stage.
func (l *lifecycle) State() State { return l.state }
