package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chain-racer/server/internal/transcode"
)

func TestBridgeRunsClosureOnDrain(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})
	bridge := NewBridge(4)

	result := make(chan error, 1)
	go func() {
		result <- bridge.Submit(context.Background(), func(world *World) {
			world.QueueEvent(SpawnCar{})
		})
	}()

	require.Eventually(t, func() bool {
		bridge.Drain(w)
		select {
		case err := <-result:
			require.NoError(t, err)
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	w.Step(0.1)
	assert.True(t, w.RacerPresent())
}

func TestBridgeSubmitHonorsCancellation(t *testing.T) {
	bridge := NewBridge(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bridge.Submit(ctx, func(*World) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridgeDrainRunsEveryQueuedClosure(t *testing.T) {
	w := testWorld(t, transcode.Transform{ScaleX: 1, ScaleY: 1})
	bridge := NewBridge(8)

	const submitters = 5
	results := make(chan error, submitters)
	for i := 0; i < submitters; i++ {
		go func() {
			results <- bridge.Submit(context.Background(), func(world *World) {
				world.QueueEvent(SpawnEnemies{})
			})
		}()
	}

	finished := 0
	require.Eventually(t, func() bool {
		bridge.Drain(w)
		for {
			select {
			case err := <-results:
				require.NoError(t, err)
				finished++
			default:
				return finished == submitters
			}
		}
	}, time.Second, time.Millisecond)
}

func TestBridgeNilClosureIsIgnored(t *testing.T) {
	bridge := NewBridge(1)
	assert.NoError(t, bridge.Submit(context.Background(), nil))
}
