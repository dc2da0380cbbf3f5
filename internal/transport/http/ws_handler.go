package http

import (
	"log"
	"net/http"

	"finergy-service/internal/app"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeLeaderboardWS upgrades the request to a websocket and streams cohort
// leaderboard snapshots for the requested zip code. The first frame is the
// current standings; every score-affecting write pushes a fresh one.
func (h *Handler) ServeLeaderboardWS(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	if !app.ValidateZipCode(zip) {
		http.Error(w, "zip must be exactly 5 digits", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.hub.Subscribe(r.Context(), zip)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			// Inbound frames are ignored; the read loop only detects close.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case board, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: board}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}
