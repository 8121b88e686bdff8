package blackjack

import (
	"blackjack-server/pkg/deck"
)

// Outcome is the result of a completed round
type Outcome int

// Outcome constants
const (
	OutcomeNone Outcome = iota
	OutcomePlayerBust
	OutcomeDealerBust
	OutcomePlayerHigher
	OutcomeDealerHigher
	OutcomePush
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerBust:
		return "Bust! You lose."
	case OutcomeDealerBust:
		return "Dealer busts! You win."
	case OutcomePlayerHigher:
		return "You win!"
	case OutcomeDealerHigher:
		return "Dealer wins!"
	case OutcomePush:
		return "It's a tie!"
	}

	return ""
}

// Credit returns the amount paid back to the player for the bet
// The bet was already taken from the balance, so a win of 2x is a profit of 1x.
func (o Outcome) Credit(bet int) int {
	switch o {
	case OutcomeDealerBust, OutcomePlayerHigher:
		return 2 * bet
	case OutcomePush:
		return bet
	}

	return 0
}

// evaluate decides the outcome of a round, checked in order
func evaluate(player, dealer deck.Hand) Outcome {
	playerScore := player.Score()
	dealerScore := dealer.Score()

	switch {
	case playerScore > 21:
		return OutcomePlayerBust
	case dealerScore > 21:
		return OutcomeDealerBust
	case playerScore > dealerScore:
		return OutcomePlayerHigher
	case dealerScore > playerScore:
		return OutcomeDealerHigher
	}

	return OutcomePush
}
