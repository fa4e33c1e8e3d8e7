package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/padelhub/tournament-core/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades GET /ws/tournaments/{tournamentID} into a Client
// subscribed to that tournament's live room, adapted from the
// teacher's WebSocketHandler to the core's single notify.Hub.
func ServeWs(hub *notify.Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournamentID := chi.URLParam(r, "tournamentID")
		if tournamentID == "" {
			http.Error(w, "missing tournamentID", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
			return
		}

		client := &notify.Client{
			Hub:  hub,
			Conn: conn,
			Send: make(chan []byte, 256),
			Room: tournamentID,
		}
		client.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
