package mux

import (
	"blackjack-server/pkg/playable/blackjack"
	"blackjack-server/pkg/room"
	"net/http"

	gmux "github.com/gorilla/mux"
)

// Mux handles HTTP requests for the status server
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
	options blackjack.Options
}

// NewMux returns a new HTTP mux
// The /ws endpoint is only routed when webSocket is true.
func NewMux(version string, pitBoss *room.PitBoss, options blackjack.Options, webSocket bool) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		options: options,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/connections").Handler(this.getConnections())

	if webSocket {
		r.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, nil)
	})

	return this
}
