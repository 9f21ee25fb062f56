// Package server hosts the spectator hub: it fans the simulation's world
// snapshots out to websocket subscribers and keeps the broadcast counters.
package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chain-racer/server/internal/sim"
	"chain-racer/server/internal/telemetry"
)

// Hub owns the live spectator connections. Subscribers are read-only
// viewers; the hub only ever writes state to them.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	counters    *telemetryCounters
	logger      telemetry.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates an empty hub.
func NewHub(logger telemetry.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		counters:    newTelemetryCounters(),
		logger:      logger,
	}
}

// Subscribe registers a spectator connection and returns its session id.
func (h *Hub) Subscribe(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.subscribers[id] = &subscriber{conn: conn}
	h.mu.Unlock()
	h.counters.subscribers.Add(1)
	return id
}

// Disconnect removes a spectator and closes its connection.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	h.counters.subscribers.Add(-1)
	sub.conn.Close()
}

// SubscriberCount reports the number of live spectators.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends the snapshot to every spectator, pruning connections whose
// writes fail.
func (h *Hub) Broadcast(snapshot sim.Snapshot) {
	msg := stateMessage{
		Type:       "state",
		State:      snapshot,
		ServerTime: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logf("failed to marshal state message: %v", err)
		return
	}

	entities := len(snapshot.Enemies)
	if snapshot.Racer != nil {
		entities++
	}
	h.counters.RecordBroadcast(len(data), entities)

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.logf("failed to send state to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

// RecordTickDuration feeds the loop's step duration into the counters.
func (h *Hub) RecordTickDuration(duration time.Duration) {
	h.counters.RecordTickDuration(duration)
}

// TelemetrySnapshot exposes the hub counters.
func (h *Hub) TelemetrySnapshot() TelemetrySnapshot {
	return h.counters.Snapshot()
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}
