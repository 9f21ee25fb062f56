package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chain-racer/server/internal/sim"
)

func TestBroadcastRecordsCounters(t *testing.T) {
	hub := NewHub(nil)

	hub.Broadcast(sim.Snapshot{
		Tick:    1,
		Racer:   &sim.RacerSnapshot{ModelID: "0x1"},
		Enemies: []sim.EnemySnapshot{{ID: 0}, {ID: 1}},
	})
	hub.RecordTickDuration(12 * time.Millisecond)

	snap := hub.TelemetrySnapshot()
	assert.Equal(t, uint64(1), snap.BroadcastsTotal)
	assert.Equal(t, uint64(3), snap.LastBroadcastEntities)
	assert.Positive(t, snap.BytesSent)
	assert.Equal(t, int64(12), snap.TickDurationMillis)
	assert.Zero(t, snap.Subscribers)
}

func TestDisconnectUnknownIDIsNoOp(t *testing.T) {
	hub := NewHub(nil)
	hub.Disconnect("not-a-session")
	assert.Zero(t, hub.SubscriberCount())
}
