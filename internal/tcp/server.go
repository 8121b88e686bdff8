package tcp

import (
	"blackjack-server/pkg/playable/blackjack"
	"blackjack-server/pkg/room"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const maxAcceptDelay = time.Second

// Server accepts game connections over TCP
type Server struct {
	Addr        string
	PitBoss     *room.PitBoss
	GameOptions blackjack.Options
	Logger      logrus.FieldLogger

	mu        sync.Mutex
	listener  net.Listener
	ready     chan bool
	readyOnce sync.Once
	wg        sync.WaitGroup
}

// NewServer returns a server for the address
func NewServer(addr string, pitBoss *room.PitBoss, options blackjack.Options, logger logrus.FieldLogger) *Server {
	return &Server{
		Addr:        addr,
		PitBoss:     pitBoss,
		GameOptions: options,
		Logger:      logger,
		ready:       make(chan bool),
	}
}

// ListenAndServe binds the address and serves until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections on the listener and runs a session for each one
// It returns nil once the context is cancelled. Existing connections are left to the PitBoss.
// Calling it again replaces the listener reported by ListenAddr.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.readyOnce.Do(func() {
		close(s.ready)
	})

	stop := make(chan bool)
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = listener.Close()
		case <-stop:
		}
	}()

	s.Logger.WithField("addr", listener.Addr().String()).Info("listening")

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.Logger.Info("listener closed")
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Temporary() { // nolint:staticcheck
				delay = nextDelay(delay)
				s.Logger.WithError(err).WithField("retry", delay).Warn("could not accept connection")
				time.Sleep(delay)
				continue
			}

			_ = listener.Close()
			return err
		}

		delay = 0
		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()

	log := s.Logger.WithField("remoteAddr", conn.RemoteAddr().String())
	log.Debug("accepted connection")
	if err := s.PitBoss.Serve(conn, "tcp", s.GameOptions); err != nil {
		log.WithError(err).Error("could not start session")
	}
}

// ListenAddr returns the address being listened on, waiting for Serve to start
func (s *Server) ListenAddr() net.Addr {
	<-s.ready

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listener.Addr()
}

// Wait blocks until every connection handler has returned
func (s *Server) Wait() {
	s.wg.Wait()
}

func nextDelay(delay time.Duration) time.Duration {
	if delay == 0 {
		return time.Millisecond * 5
	}

	delay *= 2
	if delay > maxAcceptDelay {
		return maxAcceptDelay
	}

	return delay
}
