package room

import (
	"blackjack-server/pkg/playable"
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxLineBytes is the longest line accepted from a client, newline included
const MaxLineBytes = 64 * 1024

const sendBuffer = 256

// Conn is the transport a client is connected with
type Conn interface {
	io.ReadWriteCloser
	RemoteAddr() net.Addr
}

// ClientInfo describes a connected client
type ClientInfo struct {
	ID          uuid.UUID `json:"id"`
	RemoteAddr  string    `json:"remoteAddr"`
	Transport   string    `json:"transport"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Client is a client connected to the server
type Client struct {
	ID          uuid.UUID
	Transport   string
	ConnectedAt time.Time

	// Conn is the underlying connection
	Conn Conn

	// send is a channel for sending messages to the client
	send chan *playable.Response

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer    *Dealer
	logger    logrus.FieldLogger
	closeOnce sync.Once
	closeErr  error
}

// NewClient returns a new client object
func NewClient(conn Conn, transport string, dealer *Dealer, logger logrus.FieldLogger) *Client {
	id := uuid.New()
	remoteAddr := ""
	if conn != nil {
		remoteAddr = conn.RemoteAddr().String()
	}

	return &Client{
		ID:          id,
		Transport:   transport,
		ConnectedAt: time.Now(),
		Conn:        conn,
		send:        make(chan *playable.Response, sendBuffer),
		dealer:      dealer,
		logger: logger.WithFields(logrus.Fields{
			"client":     id.String(),
			"remoteAddr": remoteAddr,
			"transport":  transport,
		}),
	}
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.Transport, c.ID)
}

// Info returns a description of the client
func (c *Client) Info() ClientInfo {
	return ClientInfo{
		ID:          c.ID,
		RemoteAddr:  c.Conn.RemoteAddr().String(),
		Transport:   c.Transport,
		ConnectedAt: c.ConnectedAt,
	}
}

// Close closes the connection, it is safe to call more than once
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.Conn.Close()
	})

	return c.closeErr
}

// Serve runs the client until the connection is closed
// Commands are handled one at a time on the calling goroutine, and responses are
// written by a second goroutine in the order they were produced.
func (c *Client) Serve() {
	written := make(chan bool)
	go c.writeLoop(written)

	c.readLoop()

	// the read loop is the only sender
	close(c.send)
	<-written

	_ = c.Close()
}

func (c *Client) readLoop() {
	reader := bufio.NewReaderSize(c.Conn, MaxLineBytes)
	for {
		line, err := reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			c.logger.WithError(ErrProtocol).WithField("limit", MaxLineBytes).Warn("line too long, discarding")
			if err := discardLine(reader); err != nil {
				c.readFailed(err)
				return
			}

			continue
		}

		if err != nil {
			// an unterminated final line is not a message
			c.readFailed(err)
			return
		}

		c.receivedLine(line)
	}
}

func (c *Client) receivedLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var msg playable.PayloadIn
	if err := json.Unmarshal(line, &msg); err != nil {
		c.logger.WithError(fmt.Errorf("%w: %v", ErrProtocol, err)).WithField("line", string(line)).Warn("could not decode message")
		return
	}

	c.logger.WithField("command", msg.Command).Trace("received message from client")
	for _, res := range c.dealer.ReceivedMessage(&msg) {
		c.send <- res
	}
}

func (c *Client) readFailed(err error) {
	c.CloseError = err

	switch {
	case errors.Is(err, io.EOF):
		c.logger.Debug("client disconnected")
	case errors.Is(err, net.ErrClosed):
		c.logger.Debug("connection closed")
	default:
		c.logger.WithError(err).Error("could not read from client")
	}
}

// writeLoop keeps draining after a failed write so the read loop never blocks on send
func (c *Client) writeLoop(written chan<- bool) {
	defer close(written)

	failed := false
	for msg := range c.send {
		if failed {
			continue
		}

		msgBytes, err := json.Marshal(msg)
		if err != nil {
			c.logger.WithError(err).Error("could not encode message")
			continue
		}

		c.logger.WithField("message", string(msgBytes)).Trace("sending message to client")
		if _, err := c.Conn.Write(append(msgBytes, '\n')); err != nil {
			c.logger.WithError(err).Error("could not write message")
			failed = true

			// unblocks the read loop
			_ = c.Close()
		}
	}
}

func discardLine(reader *bufio.Reader) error {
	for {
		_, err := reader.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}
