package game

import "errors"

var (
	// ErrInsufficientFunds rejects any wager whose cost exceeds the
	// balance. The action is a no-op; no partial deduction occurs.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidStateTransition rejects an action invoked outside the
	// state that permits it. Callers treat it as a silent no-op.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidAction rejects an action that is in the right state but
	// fails its own guard (split on unequal ranks, double on three cards).
	ErrInvalidAction = errors.New("invalid action")
)
