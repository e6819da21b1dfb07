package app

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mw46d/WeatherFlow-PiConsole/internal/env"
)

// Hub pushes every folded reading to all connected websocket clients.
type Hub struct {
	log        *zap.Logger
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan env.Reading
}

func NewHub(log *zap.Logger) *Hub {
	h := &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Readings are public on the LAN anyway.
				return true
			},
		},
		broadcast: make(chan env.Reading, 8),
	}
	go h.run()
	return h
}

// Publish implements ReadingSink. Drops the reading when the broadcast
// queue is full rather than stalling the sampling loop.
func (h *Hub) Publish(r env.Reading) {
	select {
	case h.broadcast <- r:
	default:
	}
}

func (h *Hub) run() {
	for reading := range h.broadcast {
		message, err := json.Marshal(reading)
		if err != nil {
			h.log.Error("ws marshal error", zap.Error(err))
			continue
		}

		h.clientsMux.Lock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				h.log.Warn("ws write error", zap.Error(err))
				client.Close()
				delete(h.clients, client)
			}
		}
		h.clientsMux.Unlock()
	}
}

func (h *Hub) handleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade error", zap.Error(err))
		return
	}
	defer ws.Close()

	h.clientsMux.Lock()
	h.clients[ws] = true
	h.clientsMux.Unlock()

	h.log.Info("ws client connected", zap.String("remote", r.RemoteAddr))
	defer func() {
		h.clientsMux.Lock()
		delete(h.clients, ws)
		h.clientsMux.Unlock()
		h.log.Info("ws client disconnected", zap.String("remote", r.RemoteAddr))
	}()

	for {
		// Clients only listen; reads just detect the disconnect.
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
