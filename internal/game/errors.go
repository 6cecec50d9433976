package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is returned when an action is requested in a state
	// that forbids it. The round is left unchanged.
	ErrIllegalAction = errors.New("illegal action")

	// ErrInsufficientFunds is returned when a double or split needs another
	// bet the balance cannot cover
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrIllegalAction)
)

func illegal(a Action, reason string) error {
	return fmt.Errorf("%w: cannot %s: %s", ErrIllegalAction, a, reason)
}
