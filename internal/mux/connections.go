package mux

import (
	"blackjack-server/pkg/room"
	"net/http"
	"sort"
)

type connectionsResponse struct {
	Count       int               `json:"count"`
	Connections []room.ClientInfo `json:"connections"`
}

func (m *Mux) getConnections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients := m.pitBoss.Clients()
		if clients == nil {
			writeJSONError(w, http.StatusServiceUnavailable, nil)
			return
		}

		sort.Slice(clients, func(i, j int) bool {
			return clients[i].ConnectedAt.Before(clients[j].ConnectedAt)
		})

		writeJSON(w, http.StatusOK, connectionsResponse{
			Count:       len(clients),
			Connections: clients,
		})
	}
}
