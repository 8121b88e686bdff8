package room

import (
	"blackjack-server/pkg/playable"
	"blackjack-server/pkg/playable/blackjack"
	"errors"

	"github.com/sirupsen/logrus"
)

// Dealer runs one client's blackjack session
// The game is only ever touched from the client's read loop, so it needs no locking.
type Dealer struct {
	game   *blackjack.Game
	logger logrus.FieldLogger
}

// NewDealer creates a new dealer with a fresh session
func NewDealer(logger logrus.FieldLogger, options blackjack.Options) (*Dealer, error) {
	game, err := blackjack.New(logger, options)
	if err != nil {
		return nil, err
	}

	return &Dealer{
		game:   game,
		logger: logger,
	}, nil
}

// ReceivedMessage is called when the client sends a command
// Game errors are turned into an error response for the client.
func (d *Dealer) ReceivedMessage(msg *playable.PayloadIn) []*playable.Response {
	log := d.logger.WithField("command", msg.Command)

	responses, err := d.game.Action(msg)
	if err != nil {
		switch {
		case errors.Is(err, blackjack.ErrInvalidBet):
			log.WithError(err).WithField("amount", msg.Amount).Info("rejected bet")
		case errors.Is(err, blackjack.ErrInvalidCommand):
			log.WithError(err).WithField("state", d.game.State()).Info("rejected command")
		default:
			log.WithError(err).Error("could not perform action")
		}

		return []*playable.Response{playable.Error(err)}
	}

	log.WithField("state", d.game.State()).Debug("performed action")
	return responses
}
