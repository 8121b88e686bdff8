package room

import "errors"

// ErrProtocol is logged when a line from the client cannot be decoded
var ErrProtocol = errors.New("protocol error")
