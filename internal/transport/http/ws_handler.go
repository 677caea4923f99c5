package http

import (
	"log"
	"net/http"

	"circuitquest-service/internal/app"
	"circuitquest-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler streams a team's round-state snapshots over a websocket so the
// scoreboard updates without polling.
type WSHandler struct {
	service  *app.RoundService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.RoundService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string            `json:"type"`
	Payload domain.RoundState `json:"payload"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes the team's current snapshot plus
// every subsequently committed one until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("teamId")
	if teamID == "" {
		http.Error(w, "missing teamId", http.StatusBadRequest)
		return
	}

	initial, err := h.service.RoundState(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(r.Context(), teamID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage{Type: "error", Message: err.Error()})
		return
	}
	defer cancel()

	done := make(chan struct{})
	writerDone := make(chan struct{})

	// Single writer goroutine; gorilla connections do not allow concurrent writes.
	go func() {
		defer close(writerDone)
		if err := conn.WriteJSON(outboundMessage{Type: "roundState", Payload: initial}); err != nil {
			return
		}
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				if err := conn.WriteJSON(outboundMessage{Type: "roundState", Payload: state}); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Drain client frames only to detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(done)
	cancel()
	<-writerDone
}
