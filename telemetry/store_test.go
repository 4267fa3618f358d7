package telemetry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/telemetry"
)

func TestStore(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := telemetry.NewStoreWithClock(func() time.Time { return now })

	_, err := s.Latest(0)
	assert.ErrorIs(t, err, telemetry.ErrNoTelemetry)
	assert.Zero(t, s.Received())

	s.UpdatePose(entity.CarPose{X: 1, Y: 2, Heading: 0.5, XV: 3, YV: 4})
	state, err := s.Latest(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, state.X)
	assert.Equal(t, 2.0, state.Y)
	assert.Equal(t, 0.5, state.Heading)
	assert.InDelta(t, 5, state.Speed, 1e-9)
	assert.Equal(t, now, state.Received)
	assert.Equal(t, uint64(1), s.Received())

	now = now.Add(2 * time.Second)
	_, err = s.Latest(time.Second)
	assert.ErrorIs(t, err, telemetry.ErrStale)
	_, err = s.Latest(3 * time.Second)
	assert.NoError(t, err)
	_, err = s.Latest(0)
	assert.NoError(t, err)
}
