package blackjack

import (
	"errors"
)

// ErrInvalidCommand is returned when a command is not valid in the current state, or is not recognized
var ErrInvalidCommand = errors.New("invalid command")

// ErrInvalidBet is returned when a bet is not positive or exceeds the balance
var ErrInvalidBet = errors.New("invalid bet")
