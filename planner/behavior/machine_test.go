package behavior_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/behavior"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/scan"
)

type obstacleFunc func() (bool, error)

func (f obstacleFunc) ObstaclesPresent() (bool, error) { return f() }

type zoneStub struct{}

func (zoneStub) Zones(ids []string) []entity.Zone {
	zones := make([]entity.Zone, 0, len(ids))
	for _, id := range ids {
		zones = append(zones, entity.Zone{JunctionID: id, MaxSpeed: 5})
	}
	return zones
}

var junctionAhead = scan.Result{JunctionAhead: true, Junctions: []string{"100"}}

func TestStopScenario(t *testing.T) {
	m := behavior.New(behavior.Config{StopSpeed: 1, StopAtJunction: true}, nil, zoneStub{})
	assert.Equal(t, behavior.LaneKeeping, m.State())

	states := make([]behavior.State, 0)
	for i, speed := range []float64{12, 8, 3, 0.5, 0.5} {
		in := behavior.Input{Speed: speed}
		if i == 0 {
			in.Scan = junctionAhead
		}
		states = append(states, m.Step(in).State)
	}
	assert.Equal(t, []behavior.State{
		behavior.Stopping,
		behavior.Stopping,
		behavior.Stopping,
		behavior.Stopped,
		behavior.LaneKeeping,
	}, states)
}

func TestStopSpeedBoundary(t *testing.T) {
	m := behavior.New(behavior.Config{StopSpeed: 1, StopAtJunction: true}, nil, nil)
	m.Step(behavior.Input{Speed: 10, Scan: junctionAhead})
	require.Equal(t, behavior.Stopping, m.State())

	out := m.Step(behavior.Input{Speed: 1.0001})
	assert.False(t, out.Transitioned)
	out = m.Step(behavior.Input{Speed: 1})
	assert.True(t, out.Transitioned)
	assert.Equal(t, behavior.Stopping, out.Previous)
	assert.Equal(t, behavior.Stopped, out.State)
}

func TestJunctionToggleDisabled(t *testing.T) {
	m := behavior.New(behavior.Config{StopSpeed: 1}, nil, zoneStub{})
	for i := 0; i < 3; i++ {
		out := m.Step(behavior.Input{Speed: 0, Scan: junctionAhead})
		assert.Equal(t, behavior.LaneKeeping, out.State)
		assert.False(t, out.Transitioned)
		// 状态不变时仍然输出警示区域
		require.Len(t, out.Zones, 1)
		assert.Equal(t, "100", out.Zones[0].JunctionID)
	}
}

func TestZonesAlwaysPublished(t *testing.T) {
	m := behavior.New(behavior.Config{StopSpeed: 1}, nil, zoneStub{})
	out := m.Step(behavior.Input{Speed: 3})
	assert.NotNil(t, out.Zones)
	assert.Empty(t, out.Zones)

	m = behavior.New(behavior.Config{StopSpeed: 1}, nil, nil)
	out = m.Step(behavior.Input{Speed: 3, Scan: junctionAhead})
	assert.NotNil(t, out.Zones)
	assert.Empty(t, out.Zones)
}

func TestObstacles(t *testing.T) {
	present := true
	var err error
	src := obstacleFunc(func() (bool, error) { return present, err })
	m := behavior.New(behavior.Config{StopSpeed: 1, StopAtJunction: true}, src, nil)
	m.Step(behavior.Input{Speed: 5, Scan: junctionAhead})
	m.Step(behavior.Input{Speed: 0})
	require.Equal(t, behavior.Stopped, m.State())

	m.Step(behavior.Input{Speed: 0})
	assert.Equal(t, behavior.Stopped, m.State())

	// 来源出错按有障碍物处理
	present, err = false, errors.New("perception offline")
	m.Step(behavior.Input{Speed: 0})
	assert.Equal(t, behavior.Stopped, m.State())

	err = nil
	m.Step(behavior.Input{Speed: 0})
	assert.Equal(t, behavior.LaneKeeping, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "LANEKEEPING", behavior.LaneKeeping.String())
	assert.Equal(t, "STOPPING", behavior.Stopping.String())
	assert.Equal(t, "STOPPED", behavior.Stopped.String())
	assert.Equal(t, "IN_INTERSECTION", behavior.InIntersection.String())
	assert.Equal(t, "UNKNOWN", behavior.State(42).String())
}
