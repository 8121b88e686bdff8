package blackjack

import (
	"blackjack-server/internal/rng"
	"blackjack-server/internal/util"
	"blackjack-server/pkg/deck"
	"blackjack-server/pkg/playable"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// dealerStandsOn is the score at which the dealer stops drawing, soft 17 included
const dealerStandsOn = 17

// Game is a single player's blackjack session
// A Game is owned by one connection and is not safe for concurrent use.
type Game struct {
	options Options
	logger  logrus.FieldLogger

	nickname   string
	playerHand deck.Hand
	dealerHand deck.Hand
	deck       *deck.Deck
	balance    int
	bet        int
	state      State
	outcome    Outcome
	// betPlaced is set by the first bet of the session
	betPlaced bool

	sleep func(time.Duration)
}

// New returns a session waiting for a nickname
func New(logger logrus.FieldLogger, options Options) (*Game, error) {
	if options.StartingBalance <= 0 {
		return nil, errors.New("starting balance must be > 0")
	}

	if options.DealerDelay < 0 {
		return nil, errors.New("dealer delay cannot be negative")
	}

	generator, err := rng.New(options.Shuffle)
	if err != nil {
		return nil, err
	}

	return &Game{
		options: options,
		logger:  logger,
		deck:    deck.NewShuffled(generator),
		state:   StateAwaitingNickname,
		sleep:   time.Sleep,
	}, nil
}

// Action performs the command in the payload
// The responses are returned in the order they must be sent to the client.
func (g *Game) Action(message *playable.PayloadIn) ([]*playable.Response, error) {
	switch message.GetCommand() {
	case playable.CommandSetNick:
		nick, ok := message.GetNick()
		if !ok {
			nick = util.GetRandomName()
		}

		return g.SetNickname(nick)
	case playable.CommandBet:
		return g.PlaceBet(message.Amount)
	case playable.CommandHit:
		return g.Hit()
	case playable.CommandStay:
		return g.Stand()
	case playable.CommandNewGame:
		return g.NewGame()
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, message.Command)
	}
}

// SetNickname starts the session
func (g *Game) SetNickname(name string) ([]*playable.Response, error) {
	if g.state != StateAwaitingNickname {
		return nil, fmt.Errorf("%w: nickname is already set", ErrInvalidCommand)
	}

	g.nickname = name
	g.balance = g.options.StartingBalance
	g.state = StateAwaitingBet

	return []*playable.Response{
		playable.Info("Nickname set to %s. You have $%d.", g.nickname, g.balance),
	}, nil
}

// PlaceBet takes the bet from the balance and deals the opening cards
func (g *Game) PlaceBet(amount int) ([]*playable.Response, error) {
	if err := g.requireState(StateAwaitingBet); err != nil {
		return nil, err
	}

	if amount <= 0 {
		return nil, fmt.Errorf("%w: bet must be greater than $0", ErrInvalidBet)
	}

	if amount > g.balance {
		return nil, fmt.Errorf("%w: bet of $%d exceeds your balance of $%d", ErrInvalidBet, amount, g.balance)
	}

	g.balance -= amount
	g.bet = amount
	g.betPlaced = true
	g.outcome = OutcomeNone
	g.playerHand = make(deck.Hand, 0, 5)
	g.dealerHand = make(deck.Hand, 0, 5)

	g.playerHand.AddCard(g.deck.Draw())
	g.dealerHand.AddCard(g.deck.Draw())
	g.playerHand.AddCard(g.deck.Draw())
	g.dealerHand.AddCard(g.deck.Draw())

	g.state = StatePlayerTurn
	g.log().WithField("bet", amount).Debug("bet placed")

	return []*playable.Response{
		playable.Info("Bet of $%d placed. Dealing cards...", amount),
		g.gameState(),
	}, nil
}

// Hit draws a card for the player
// Going over 21 ends the round immediately without the dealer playing.
func (g *Game) Hit() ([]*playable.Response, error) {
	if err := g.requireState(StatePlayerTurn); err != nil {
		return nil, err
	}

	g.playerHand.AddCard(g.deck.Draw())
	if !g.playerHand.IsBust() {
		return []*playable.Response{g.gameState()}, nil
	}

	g.endRound()
	return []*playable.Response{g.gameState(), g.gameOver()}, nil
}

// Stand ends the player's turn, plays the dealer, and settles the round
func (g *Game) Stand() ([]*playable.Response, error) {
	if err := g.requireState(StatePlayerTurn); err != nil {
		return nil, err
	}

	g.state = StateDealerTurn
	g.playDealer()
	g.endRound()

	return []*playable.Response{g.gameOver()}, nil
}

// NewGame clears the table for another round, keeping the nickname and balance
// It needs a bet to have been placed at some point in the session. An unfinished
// round is abandoned and its bet is lost.
func (g *Game) NewGame() ([]*playable.Response, error) {
	switch g.state {
	case StatePlayerTurn:
		g.log().WithField("bet", g.bet).Debug("round abandoned")
	case StateRoundOver:
	case StateAwaitingBet:
		if !g.betPlaced {
			return nil, g.invalidState()
		}
	default:
		return nil, g.invalidState()
	}

	g.playerHand = nil
	g.dealerHand = nil
	g.bet = 0
	g.outcome = OutcomeNone
	g.deck.Shuffle()
	g.state = StateAwaitingBet

	return []*playable.Response{
		playable.Info("New game started. You have $%d. Place your bet.", g.balance),
	}, nil
}

// State returns the current state
func (g *Game) State() State {
	return g.state
}

// Nickname returns the player's nickname
func (g *Game) Nickname() string {
	return g.nickname
}

// Balance returns the money the player has, excluding any bet in play
func (g *Game) Balance() int {
	return g.balance
}

// Bet returns the bet for the current or last round
func (g *Game) Bet() int {
	return g.bet
}

// Outcome returns the outcome of the round, or OutcomeNone if it isn't over
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Result returns the result text of the round
func (g *Game) Result() string {
	return g.outcome.String()
}

// PlayerHand returns a copy of the player's hand
func (g *Game) PlayerHand() deck.Hand {
	return g.playerHand.Clone()
}

// DealerHand returns a copy of the dealer's hand, including the hidden card
func (g *Game) DealerHand() deck.Hand {
	return g.dealerHand.Clone()
}

func (g *Game) playDealer() {
	for g.dealerHand.Score() < dealerStandsOn {
		if g.options.DealerDelay > 0 {
			g.sleep(g.options.DealerDelay)
		}

		g.dealerHand.AddCard(g.deck.Draw())
	}
}

// endRound must be called exactly once per round
func (g *Game) endRound() {
	g.outcome = evaluate(g.playerHand, g.dealerHand)
	g.balance += g.outcome.Credit(g.bet)
	g.state = StateRoundOver

	g.log().WithFields(logrus.Fields{
		"result":      g.outcome.String(),
		"playerScore": g.playerHand.Score(),
		"dealerScore": g.dealerHand.Score(),
		"balance":     g.balance,
	}).Debug("round over")
}

func (g *Game) gameState() *playable.Response {
	return &playable.Response{
		Type:        playable.TypeGameState,
		PlayerHand:  g.playerHand.String(),
		PlayerScore: playable.Int(g.playerHand.Score()),
		DealerHand:  g.dealerHand.FirstCard().String(),
		Money:       playable.Int(g.balance),
	}
}

// gameOver reveals the dealer's hand unless the player busted before the dealer played
func (g *Game) gameOver() *playable.Response {
	res := &playable.Response{
		Type:        playable.TypeGameOver,
		PlayerHand:  g.playerHand.String(),
		PlayerScore: playable.Int(g.playerHand.Score()),
		DealerHand:  g.dealerHand.FirstCard().String(),
		Result:      g.outcome.String(),
		Money:       playable.Int(g.balance),
	}

	if g.outcome != OutcomePlayerBust {
		res.DealerHand = g.dealerHand.String()
		res.DealerScore = playable.Int(g.dealerHand.Score())
	}

	return res
}

func (g *Game) requireState(state State) error {
	if g.state != state {
		return g.invalidState()
	}

	return nil
}

func (g *Game) invalidState() error {
	var reason string
	switch g.state {
	case StateAwaitingNickname:
		reason = "set your nickname first"
	case StateAwaitingBet:
		reason = "place a bet first"
	case StatePlayerTurn:
		reason = "a round is in progress"
	case StateRoundOver:
		reason = "the round is over, start a new game"
	default:
		reason = "the dealer is playing"
	}

	return fmt.Errorf("%w: %s", ErrInvalidCommand, reason)
}

func (g *Game) log() logrus.FieldLogger {
	return g.logger.WithField("nick", g.nickname)
}
