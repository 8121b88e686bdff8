package main

import (
	"blackjack-server/internal/config"
	"blackjack-server/internal/mux"
	"blackjack-server/internal/rng"
	"blackjack-server/internal/tcp"
	"blackjack-server/pkg/playable/blackjack"
	"blackjack-server/pkg/room"
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var host = flag.String("host", "", "the listen host, overrides the configuration")
var port = flag.Int("port", 0, "the listen port, overrides the configuration")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()
	if *host != "" {
		cfg.Host = *host
	}

	if *port != 0 {
		cfg.Port = *port
	}

	opts := blackjack.Options{
		StartingBalance: cfg.StartingBalance,
		DealerDelay:     cfg.DealerDelay,
		Shuffle:         rng.Source(cfg.Shuffle),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pitBoss := room.NewPitBoss(logrus.StandardLogger())
	pitBoss.StartShift()

	var status *http.Server
	if cfg.StatusAddr != "" {
		status = statusServer(cfg, pitBoss, opts)
		go func() {
			logrus.WithField("addr", status.Addr).Info("status server listening")
			if err := status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.WithError(err).Fatal("status server failed")
			}
		}()
	}

	srv := tcp.NewServer(cfg.Addr(), pitBoss, opts, logrus.StandardLogger())
	if err := srv.ListenAndServe(ctx); err != nil {
		logrus.WithError(err).Fatal("could not serve")
	}

	logrus.Info("shutting down")
	if status != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := status.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("could not shut down the status server")
		}
	}

	pitBoss.EndShift()
	srv.Wait()
}

func statusServer(cfg config.Config, pitBoss *room.PitBoss, opts blackjack.Options) *http.Server {
	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	return &http.Server{
		Addr:        cfg.StatusAddr,
		Handler:     loggingHandler(cfg, c.Handler(mux.NewMux(Version, pitBoss, opts, cfg.WebSocket))),
		ReadTimeout: readTimeout,
	}
}

func loggingHandler(cfg config.Config, next http.Handler) http.Handler {
	if cfg.Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(config.Instance().Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
