package checkout

import (
	"errors"
	"fmt"
)

// State is the progress of one checkout attempt.
type State string

const (
	StateIdle             State = "IDLE"
	StateCustomerResolved State = "CUSTOMER_RESOLVED"
	StateOrderCreated     State = "ORDER_CREATED"
	StateLinesApplied     State = "LINES_APPLIED"
	StateCommitted        State = "COMMITTED"
	StateRolledBack       State = "ROLLED_BACK"
)

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateRolledBack
}

// ErrIllegalTransition is returned when a checkout skips or repeats a step.
var ErrIllegalTransition = errors.New("illegal transition of checkout state")

var transitions = map[State][]State{
	StateIdle:             {StateCustomerResolved, StateRolledBack},
	StateCustomerResolved: {StateOrderCreated, StateRolledBack},
	StateOrderCreated:     {StateLinesApplied, StateRolledBack},
	StateLinesApplied:     {StateCommitted, StateRolledBack},
}

// CanTransitionTo reports whether next may follow s.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type machine struct {
	state   State
	observe func(from, to State)
}

func (m *machine) to(next State) error {
	if !m.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.state, next)
	}
	if m.observe != nil {
		m.observe(m.state, next)
	}
	m.state = next
	return nil
}
