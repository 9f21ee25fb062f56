package sim

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chain-racer/server/internal/ledger"
	"chain-racer/server/internal/telemetry"
	"chain-racer/server/internal/transcode"
)

func testWorld(t *testing.T, transform transcode.Transform) *World {
	t.Helper()
	modelID, err := ledger.ShortString("racer")
	require.NoError(t, err)
	return NewWorld(WorldConfig{ModelID: modelID, EnemyCount: 2, Transform: transform}, nil)
}

func fixed(t *testing.T, whole uint64) ledger.FieldValue {
	t.Helper()
	n := new(big.Int).Lsh(new(big.Int).SetUint64(whole), 64)
	f, err := ledger.ParseField(n.String())
	require.NoError(t, err)
	return f
}

func TestStepAppliesStagedEventsInOrder(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})

	w.QueueEvent(SpawnEnemies{})
	w.QueueEvent(SpawnCar{})
	w.QueueEvent(UpdateCar{Vehicle: ledger.Record{fixed(t, 3), fixed(t, 4)}})
	w.Step(0.1)

	snap := w.Snapshot()
	require.NotNil(t, snap.Racer)
	assert.InDelta(t, 3.0, snap.Racer.X, 1e-9)
	assert.InDelta(t, 4.0, snap.Racer.Y, 1e-9)
	assert.Len(t, snap.Enemies, 2)
	assert.Equal(t, uint64(1), snap.Tick)
}

func TestSpawnIsIdempotent(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})

	w.QueueEvent(SpawnCar{})
	w.QueueEvent(UpdateCar{Vehicle: ledger.Record{fixed(t, 9), fixed(t, 9)}})
	w.Step(0.1)
	// A duplicate spawn must not reset the racer.
	w.QueueEvent(SpawnCar{})
	w.QueueEvent(SpawnEnemies{})
	w.Step(0.1)
	w.QueueEvent(SpawnEnemies{})
	w.Step(0.1)

	snap := w.Snapshot()
	require.NotNil(t, snap.Racer)
	assert.InDelta(t, 9.0, snap.Racer.X, 1e-9)
	assert.Len(t, snap.Enemies, 2)
}

func TestUpdateCarIgnoredWithoutRacer(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})

	w.QueueEvent(UpdateCar{Vehicle: ledger.Record{fixed(t, 1), fixed(t, 2)}})
	w.Step(0.1)

	assert.False(t, w.RacerPresent())
}

func TestShortRecordLoggedAndDropped(t *testing.T) {
	var logged []string
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})
	w.logger = telemetry.LoggerFunc(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	w.QueueEvent(SpawnCar{})
	w.Step(0.1)
	w.QueueEvent(UpdateCar{Vehicle: ledger.Record{fixed(t, 1)}})
	w.Step(0.1)

	snap := w.Snapshot()
	require.NotNil(t, snap.Racer)
	assert.InDelta(t, 0.0, snap.Racer.X, 1e-9)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "too short")
}

func TestUpdateEnemyUnknownIDIsNoOp(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})

	w.QueueEvent(SpawnEnemies{})
	w.Step(0.1)
	w.QueueEvent(UpdateEnemy{EnemyID: 99, Position: ledger.Record{fixed(t, 1), fixed(t, 2)}})
	w.Step(0.1)

	for _, enemy := range w.Snapshot().Enemies {
		assert.Zero(t, enemy.X)
		assert.Zero(t, enemy.Y)
	}
}

func TestTransformAppliedToSpawnAndUpdates(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 2, ScaleY: -1, OffsetX: 10})

	w.QueueEvent(SpawnCar{})
	w.Step(0.1)
	snap := w.Snapshot()
	require.NotNil(t, snap.Racer)
	assert.InDelta(t, 10.0, snap.Racer.X, 1e-9)

	w.QueueEvent(UpdateCar{Vehicle: ledger.Record{fixed(t, 3), fixed(t, 4)}})
	w.Step(0.1)
	snap = w.Snapshot()
	assert.InDelta(t, 16.0, snap.Racer.X, 1e-9)
	assert.InDelta(t, -4.0, snap.Racer.Y, 1e-9)
}

func TestRacerModelIDReflectsLiveState(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})

	_, present := w.RacerModelID()
	assert.False(t, present)

	w.QueueEvent(SpawnCar{})
	w.Step(0.1)

	id, present := w.RacerModelID()
	require.True(t, present)
	expected, err := ledger.ShortString("racer")
	require.NoError(t, err)
	assert.True(t, id.Equal(expected))
}
