package tts

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/memocast/internal/voice"
)

func TestSimulationLengthVariesWithinBudget(t *testing.T) {
	sim := NewSimulation(WithDelay(0, 0))
	v, err := voice.Default().Resolve("june")
	require.NoError(t, err)

	lengths := map[int]bool{}
	for i := 0; i < 100; i++ {
		res, err := sim.Synthesize(context.Background(), "hello", v)
		require.NoError(t, err)

		assert.Equal(t, ContentTypeMPEG, res.ContentType)
		assert.True(t, bytes.HasPrefix(res.Audio, SimulationHeader[:]))
		assert.LessOrEqual(t, len(res.Audio), len(SimulationHeader)+SimulationPayloadBudget)
		assert.Greater(t, len(res.Audio), len(SimulationHeader))
		lengths[len(res.Audio)] = true
	}
	assert.Greater(t, len(lengths), 1, "simulated audio length should vary")
}

func TestSimulationPayloadIsSilent(t *testing.T) {
	sim := NewSimulation(WithDelay(0, 0))
	res, err := sim.Synthesize(context.Background(), "x", voice.Voice{Key: "a"})
	require.NoError(t, err)

	for _, b := range res.Audio[len(SimulationHeader):] {
		if b != 0 {
			t.Fatalf("payload contains non-zero byte %#x", b)
		}
	}
}

func TestSimulationHonoursContext(t *testing.T) {
	sim := NewSimulation(WithDelay(time.Minute, time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Synthesize(ctx, "hello", voice.Voice{Key: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulationDefaultDelay(t *testing.T) {
	sim := NewSimulation()
	assert.Equal(t, time.Second, sim.minDelay)
	assert.Equal(t, 2*time.Second, sim.maxDelay)

	for i := 0; i < 20; i++ {
		d := sim.delay()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 2*time.Second)
	}
}
