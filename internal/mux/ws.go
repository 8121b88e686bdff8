package mux

import (
	"blackjack-server/pkg/room"
	"bytes"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

func (m *Mux) getWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		if err := m.pitBoss.Serve(newWSConn(conn), "websocket", m.options); err != nil {
			logrus.WithError(err).Error("could not start session")
		}
	}
}

// wsConn presents a WebSocket as a line-delimited stream
// Each inbound message becomes one line and each outbound line is sent as one text message.
type wsConn struct {
	conn    *websocket.Conn
	pending []byte

	closeOnce sync.Once
	closeErr  error
	stopPing  chan bool
}

func newWSConn(conn *websocket.Conn) *wsConn {
	conn.SetReadLimit(room.MaxLineBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c := &wsConn{
		conn:     conn,
		stopPing: make(chan bool),
	}

	go c.pingLoop()
	return c
}

func (c *wsConn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-c.stopPing:
			return
		}
	}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return 0, c.readError(err)
		}

		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			msg = append(msg, '\n')
		}

		c.pending = msg
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

// readError maps a normal close to io.EOF so the client treats it as a disconnect
func (c *wsConn) readError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return io.EOF
	}

	if websocket.IsUnexpectedCloseError(err) {
		logrus.WithError(err).Debug("websocket closed")
	}

	return err
}

func (c *wsConn) Write(p []byte) (int, error) {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, bytes.TrimRight(p, "\n")); err != nil {
		return 0, err
	}

	return len(p), nil
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopPing)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.closeErr = c.conn.Close()
	})

	return c.closeErr
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
