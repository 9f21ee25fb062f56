package net

import (
	"encoding/json"
	nethttp "net/http"

	server "chain-racer/server"
	"chain-racer/server/internal/net/ws"
	"chain-racer/server/internal/telemetry"
	"chain-racer/server/logging"
)

// HTTPHandlerConfig wires the observability surfaces into the HTTP handler.
type HTTPHandlerConfig struct {
	Logger      telemetry.Logger
	Counters    *logging.CounterSet
	RouterStats func() logging.RouterStats
}

type diagnosticsResponse struct {
	Hub     server.TelemetrySnapshot `json:"hub"`
	Metrics map[string]uint64        `json:"metrics,omitempty"`
	Logging *logging.RouterStats     `json:"logging,omitempty"`
}

// NewHTTPHandler builds the server's HTTP surface: health, diagnostics, and
// the spectator websocket.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	mux := nethttp.NewServeMux()

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		resp := diagnosticsResponse{Hub: hub.TelemetrySnapshot()}
		if cfg.Counters != nil {
			resp.Metrics = cfg.Counters.Snapshot()
		}
		if cfg.RouterStats != nil {
			stats := cfg.RouterStats()
			resp.Logging = &stats
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil && cfg.Logger != nil {
			cfg.Logger.Printf("failed to encode diagnostics: %v", err)
		}
	})

	wsHandler := ws.NewHandler(hub, cfg.Logger)
	mux.HandleFunc("/ws", wsHandler.Handle)

	return mux
}
