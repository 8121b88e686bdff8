package playable

import (
	"fmt"
	"strings"
)

// Command is a client command decoded from the "command" field
type Command int

// Command constants
const (
	CommandUnknown Command = iota
	CommandSetNick
	CommandBet
	CommandHit
	CommandStay
	CommandNewGame
)

var commandNames = map[Command]string{
	CommandSetNick: "set_nick",
	CommandBet:     "bet",
	CommandHit:     "hit",
	CommandStay:    "stay",
	CommandNewGame: "new_game",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}

	return "unknown"
}

// CommandFromString returns the command for the wire name
// Unrecognized names return CommandUnknown.
func CommandFromString(s string) Command {
	for cmd, name := range commandNames {
		if name == s {
			return cmd
		}
	}

	return CommandUnknown
}

// PayloadIn is the format we expect from the client
type PayloadIn struct {
	Command string  `json:"command"`
	Nick    *string `json:"nick,omitempty"`
	Amount  int     `json:"amount,omitempty"`
}

// GetCommand returns the decoded command
func (p *PayloadIn) GetCommand() Command {
	return CommandFromString(p.Command)
}

// GetNick returns the nickname and whether a non-blank one was sent
func (p *PayloadIn) GetNick() (string, bool) {
	if p.Nick == nil || strings.TrimSpace(*p.Nick) == "" {
		return "", false
	}

	return *p.Nick, true
}

// ResponseType is the "type" field of an outgoing message
type ResponseType string

// ResponseType constants
const (
	TypeInfo      ResponseType = "info"
	TypeGameState ResponseType = "game_state"
	TypeGameOver  ResponseType = "game_over"
	TypeError     ResponseType = "error"
)

// Response is a message sent to the client
// Which fields are set depends on Type and on the phase of the round.
type Response struct {
	Type        ResponseType `json:"type"`
	Message     string       `json:"message,omitempty"`
	PlayerHand  string       `json:"player_hand,omitempty"`
	PlayerScore *int         `json:"player_score,omitempty"`
	DealerHand  string       `json:"dealer_hand,omitempty"`
	DealerScore *int         `json:"dealer_score,omitempty"`
	Result      string       `json:"result,omitempty"`
	Money       *int         `json:"money,omitempty"`
}

// Info returns an informational response
func Info(format string, a ...interface{}) *Response {
	return &Response{
		Type:    TypeInfo,
		Message: fmt.Sprintf(format, a...),
	}
}

// Error returns an error response
func Error(err error) *Response {
	return &Response{
		Type:    TypeError,
		Message: err.Error(),
	}
}

// Int returns a pointer to n, used for optional numeric fields
func Int(n int) *int {
	return &n
}
