package room

import (
	"blackjack-server/pkg/playable/blackjack"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PitBoss keeps the registry of connected clients
// The registry is only touched from the run loop. The connect channel is unbuffered so
// a client can never be registered after the shift has ended.
type PitBoss struct {
	clients    map[uuid.UUID]*Client
	connect    chan *Client
	disconnect chan *Client
	list       chan chan []ClientInfo
	close      chan bool
	done       chan bool
	closeOnce  sync.Once
	logger     logrus.FieldLogger
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(logger logrus.FieldLogger) *PitBoss {
	return &PitBoss{
		clients:    make(map[uuid.UUID]*Client),
		connect:    make(chan *Client),
		disconnect: make(chan *Client),
		list:       make(chan chan []ClientInfo),
		close:      make(chan bool),
		done:       make(chan bool),
		logger:     logger,
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and closes every connection still registered
func (p *PitBoss) EndShift() {
	p.closeOnce.Do(func() {
		close(p.close)
	})

	<-p.done
}

func (p *PitBoss) runLoop() {
	defer close(p.done)

	for {
		select {
		case client := <-p.connect:
			p.clients[client.ID] = client
			p.logger.WithField("client", client.String()).WithField("clients", len(p.clients)).Debug("client connected")
		case client := <-p.disconnect:
			if _, found := p.clients[client.ID]; !found {
				p.logger.WithField("client", client.String()).Warn("disconnected client was not registered")
				continue
			}

			delete(p.clients, client.ID)
			p.logger.WithField("client", client.String()).WithField("clients", len(p.clients)).Debug("client disconnected")
		case reply := <-p.list:
			clients := make([]ClientInfo, 0, len(p.clients))
			for _, client := range p.clients {
				clients = append(clients, client.Info())
			}

			reply <- clients
		case <-p.close:
			p.logger.WithField("clients", len(p.clients)).Info("closing remaining connections")
			for id, client := range p.clients {
				_ = client.Close()
				delete(p.clients, id)
			}

			return
		}
	}
}

// ClientConnected is called when a client connects to the server
// If the shift is over the client is closed instead.
func (p *PitBoss) ClientConnected(client *Client) {
	select {
	case p.connect <- client:
	case <-p.done:
		_ = client.Close()
	}
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	select {
	case p.disconnect <- client:
	case <-p.done:
	}
}

// Clients returns the clients connected at the time of the call
func (p *PitBoss) Clients() []ClientInfo {
	reply := make(chan []ClientInfo, 1)
	select {
	case p.list <- reply:
		return <-reply
	case <-p.done:
		return nil
	}
}

// Serve registers a client for the connection and runs it until the connection closes
// The session starts fresh and is discarded when Serve returns.
func (p *PitBoss) Serve(conn Conn, transport string, options blackjack.Options) error {
	log := p.logger.WithField("remoteAddr", conn.RemoteAddr().String())

	dealer, err := NewDealer(log, options)
	if err != nil {
		_ = conn.Close()
		return err
	}

	client := NewClient(conn, transport, dealer, p.logger)
	p.ClientConnected(client)
	defer p.ClientDisconnected(client)

	client.Serve()
	return nil
}
