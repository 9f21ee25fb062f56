package net

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "chain-racer/server"
	"chain-racer/server/internal/sim"
	"chain-racer/server/logging"
)

func newTestServer(t *testing.T, hub *server.Hub, counters *logging.CounterSet) *httptest.Server {
	t.Helper()
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{
		Counters: counters,
		RouterStats: func() logging.RouterStats {
			return logging.RouterStats{EventsTotal: 3}
		},
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, server.NewHub(nil), nil)

	resp, err := nethttp.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestDiagnosticsReportsCountersAndHub(t *testing.T) {
	hub := server.NewHub(nil)
	counters := logging.NewCounterSet()
	counters.TelemetryAdd("ledger_calls_total", 7)
	srv := newTestServer(t, hub, counters)

	hub.Broadcast(sim.Snapshot{Tick: 5})

	resp, err := nethttp.Get(srv.URL + "/diagnostics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded struct {
		Hub     server.TelemetrySnapshot `json:"hub"`
		Metrics map[string]uint64        `json:"metrics"`
		Logging *logging.RouterStats     `json:"logging"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	assert.Equal(t, uint64(1), decoded.Hub.BroadcastsTotal)
	assert.Equal(t, uint64(7), decoded.Metrics["ledger_calls_total"])
	require.NotNil(t, decoded.Logging)
	assert.Equal(t, uint64(3), decoded.Logging.EventsTotal)
}

func TestSpectatorReceivesBroadcast(t *testing.T) {
	hub := server.NewHub(nil)
	srv := newTestServer(t, hub, nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 5*time.Millisecond)

	hub.Broadcast(sim.Snapshot{
		Tick:    9,
		Racer:   &sim.RacerSnapshot{ModelID: "0x7261636572", X: 1, Y: 2},
		Enemies: []sim.EnemySnapshot{{ID: 0, X: 3, Y: 4}},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type       string       `json:"type"`
		State      sim.Snapshot `json:"state"`
		ServerTime int64        `json:"serverTime"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "state", msg.Type)
	assert.Equal(t, uint64(9), msg.State.Tick)
	require.NotNil(t, msg.State.Racer)
	assert.Equal(t, "0x7261636572", msg.State.Racer.ModelID)
	assert.Positive(t, msg.ServerTime)
}

func TestSpectatorPrunedOnDisconnect(t *testing.T) {
	hub := server.NewHub(nil)
	srv := newTestServer(t, hub, nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 5*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)
}
