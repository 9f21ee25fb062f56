package server

import (
	"sync/atomic"
	"time"
)

type telemetryCounters struct {
	broadcastsTotal       atomic.Uint64
	bytesSent             atomic.Uint64
	lastBroadcastBytes    atomic.Uint64
	lastBroadcastEntities atomic.Uint64
	tickDurationMillis    atomic.Int64
	subscribers           atomic.Int64
}

// TelemetrySnapshot exposes hub counters for the diagnostics endpoint.
type TelemetrySnapshot struct {
	BroadcastsTotal       uint64 `json:"broadcastsTotal"`
	BytesSent             uint64 `json:"bytesSent"`
	LastBroadcastBytes    uint64 `json:"lastBroadcastBytes"`
	LastBroadcastEntities uint64 `json:"lastBroadcastEntities"`
	TickDurationMillis    int64  `json:"tickDurationMillis"`
	Subscribers           int64  `json:"subscribers"`
}

func newTelemetryCounters() *telemetryCounters {
	return &telemetryCounters{}
}

func (t *telemetryCounters) RecordBroadcast(bytes, entities int) {
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	t.broadcastsTotal.Add(1)
	t.bytesSent.Add(uint64(bytes))
	t.lastBroadcastBytes.Store(uint64(bytes))
	t.lastBroadcastEntities.Store(uint64(entities))
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
}

func (t *telemetryCounters) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		BroadcastsTotal:       t.broadcastsTotal.Load(),
		BytesSent:             t.bytesSent.Load(),
		LastBroadcastBytes:    t.lastBroadcastBytes.Load(),
		LastBroadcastEntities: t.lastBroadcastEntities.Load(),
		TickDurationMillis:    t.tickDurationMillis.Load(),
		Subscribers:           t.subscribers.Load(),
	}
}
