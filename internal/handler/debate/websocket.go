package debate

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	debateservice "github.com/mirrormax/backend/internal/service/debate"
	"github.com/mirrormax/backend/pkg/utils"
)

// WebSocketHandler feeds live debate events over a WebSocket connection.
type WebSocketHandler struct {
	store    *debateservice.Store
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the WebSocket feed handler.
func NewWebSocketHandler(store *debateservice.Store) *WebSocketHandler {
	return &WebSocketHandler{
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the live feed route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{debateID}", h.handleWebSocket)
}

type outgoingMessage struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId"`
	Data      debateservice.Event `json:"data"`
	Timestamp int64               `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	debateID := chi.URLParam(r, "debateID")

	events, cancel, err := h.store.Subscribe(debateID)
	if err != nil {
		if errors.Is(err, debateservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", debateID, err)
		return
	}
	defer conn.Close()

	// Reads are only used to detect the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	log.Printf("[ws] opening debate feed for session=%s", debateID)
	for event := range events {
		message := outgoingMessage{
			Type:      event.Type,
			SessionID: debateID,
			Data:      event,
			Timestamp: time.Now().UnixMilli(),
		}
		if err := conn.WriteJSON(message); err != nil {
			log.Printf("[ws] write failed for session=%s: %v", debateID, err)
			return
		}
		if event.Type == debateservice.EventComplete {
			break
		}
	}
	log.Printf("[ws] closing debate feed for session=%s", debateID)
}
