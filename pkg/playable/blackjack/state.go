package blackjack

// State is the state of a session
type State string

// State constants
const (
	// StateAwaitingNickname is a fresh connection that has not sent set_nick
	StateAwaitingNickname State = "awaiting-nickname"

	// StateAwaitingBet means the session exists and no cards are dealt
	StateAwaitingBet State = "awaiting-bet"

	// StatePlayerTurn means the player can hit or stay
	StatePlayerTurn State = "player-turn"

	// StateDealerTurn is only seen while the dealer is drawing
	StateDealerTurn State = "dealer-turn"

	// StateRoundOver means the outcome has been decided and paid out
	StateRoundOver State = "round-over"
)
