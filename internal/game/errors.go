package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is the root of every rejected action. A rejection
	// leaves the match untouched.
	ErrIllegalAction = errors.New("illegal action")
	ErrMatchOver     = fmt.Errorf("%w: match is over", ErrIllegalAction)
	ErrNotYourTurn   = fmt.Errorf("%w: not your turn", ErrIllegalAction)
	ErrExhausted     = fmt.Errorf("%w: player is exhausted", ErrIllegalAction)

	// ErrConsistency means the match state can no longer be trusted.
	ErrConsistency = errors.New("match consistency fault")
)
