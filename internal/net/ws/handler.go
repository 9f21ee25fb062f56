package ws

import (
	nethttp "net/http"

	"github.com/gorilla/websocket"

	server "chain-racer/server"
	"chain-racer/server/internal/telemetry"
)

// Handler upgrades spectator connections and parks them on the hub until
// they hang up. Spectators never send gameplay input; the read loop exists
// only to notice the close.
type Handler struct {
	hub      *server.Hub
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a spectator websocket handler for the given hub.
func NewHandler(hub *server.Hub, logger telemetry.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and subscribes the connection to broadcasts.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h == nil || h.hub == nil {
		nethttp.Error(w, "hub unavailable", nethttp.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("upgrade failed: %v", err)
		return
	}

	id := h.hub.Subscribe(conn)
	defer h.hub.Disconnect(id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}
