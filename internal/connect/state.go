package connect

import (
	"errors"
	"time"

	"github.com/vietddude/walletbridge/internal/core/domain"
)

// State is an alias for domain.ConnectionState for internal use.
type State = domain.ConnectionState

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidTransitions defines allowed state transitions.
// Key is the current state, value is the list of valid next states.
// A connected state can be re-entered through Connecting (explicit reconnect)
// or reached directly from Disconnected (silent restore on startup).
var ValidTransitions = map[State][]State{
	domain.ConnectionDisconnected: {
		domain.ConnectionConnecting,
		domain.ConnectionConnected,
		domain.ConnectionError,
	},
	domain.ConnectionConnecting: {
		domain.ConnectionConnected,
		domain.ConnectionError,
		domain.ConnectionDisconnected,
	},
	domain.ConnectionConnected: {
		domain.ConnectionConnecting,
		domain.ConnectionDisconnected,
		domain.ConnectionError,
	},
	domain.ConnectionError: {domain.ConnectionConnecting, domain.ConnectionDisconnected},
}

// CanTransition checks if a transition from one state to another is valid.
// Staying in the same state is always allowed.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	validTargets, ok := ValidTransitions[from]
	if !ok {
		return false
	}

	for _, target := range validTargets {
		if target == to {
			return true
		}
	}
	return false
}

// Transition represents a state change with metadata.
type Transition struct {
	From      State
	To        State
	Reason    string
	Timestamp time.Time
}

// NewTransition creates a new transition record.
func NewTransition(from, to State, reason string) Transition {
	return Transition{
		From:      from,
		To:        to,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// IsValid returns true if this transition is allowed by the state machine.
func (t Transition) IsValid() bool {
	return CanTransition(t.From, t.To)
}

// StateDescription returns a human-readable description of a state.
func StateDescription(s State) string {
	switch s {
	case domain.ConnectionDisconnected:
		return "Disconnected - no wallet attached"
	case domain.ConnectionConnecting:
		return "Connecting - waiting on the wallet provider"
	case domain.ConnectionConnected:
		return "Connected - wallet attached and on a known chain"
	case domain.ConnectionError:
		return "Error - last connect attempt failed"
	default:
		return "Unknown state"
	}
}
