package task

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/behavior"
	"github.com/tsinghua-fib-lab/navigator-planner/telemetry"
	"github.com/tsinghua-fib-lab/navigator-planner/transport"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/testmap"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func testConfig() config.Config {
	return config.Config{
		Input: config.Input{Map: config.InputPath{File: "unused.yml"}},
		Planner: config.Planner{
			ScanHorizon:    200, // 50m
			StopAtJunction: true,
			Routes: []config.Route{
				{Name: "route1", Segments: []config.RouteSegment{{Road: "3", Lane: -1}, {Road: "10", Lane: -1}}},
				{Name: "route2", Segments: []config.RouteSegment{{Road: "10", Lane: -1}, {Road: "17", Lane: -1}}},
			},
			Triggers: map[string]string{"10": "route2"},
		},
	}
}

func newTestContext(t *testing.T, c config.Config, publishers ...transport.Publisher) *Context {
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	ctx := NewContextWithInput(&input.Input{Map: testmap.Corridor()}, rc, publishers...)
	ctx.Init()
	return ctx
}

func pose(x, y, speed float64) entity.CarPose {
	return entity.CarPose{X: x, Y: y, XV: speed}
}

func TestTelemetryGating(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	for i := 0; i < 5; i++ {
		assert.False(t, ctx.pathTick())
		assert.False(t, ctx.behaviorTick())
	}
	paths, zones := ctx.Latest().Published()
	assert.Zero(t, paths)
	assert.Zero(t, zones)
	_, ok := ctx.Status()
	assert.False(t, ok)

	ctx.UpdatePose(pose(50, -1.75, 10))
	for i := 0; i < 5; i++ {
		assert.True(t, ctx.pathTick())
		assert.True(t, ctx.behaviorTick())
	}
	paths, zones = ctx.Latest().Published()
	assert.Equal(t, uint64(5), paths)
	assert.Equal(t, uint64(5), zones)
}

func TestRouteSwitch(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	names := make([]string, 0)
	for _, x := range []float64{50, 110, 150, 50} {
		ctx.UpdatePose(pose(x, -1.75, 10))
		require.True(t, ctx.pathTick())
		msg, ok := ctx.Latest().LatestPath()
		require.True(t, ok)
		names = append(names, msg.Path.Name)
	}
	// 离开触发道路后不会切回
	assert.Equal(t, []string{"route1", "route2", "route2", "route2"}, names)

	active, ok := ctx.ActivePath()
	require.True(t, ok)
	assert.Equal(t, "route2", active.Name)

	status, ok := ctx.Status()
	require.True(t, ok)
	assert.Equal(t, "route2", status.Route)
	assert.Equal(t, "3", status.Road)
	assert.Equal(t, int32(-1), status.Lane)
	assert.InDelta(t, 50, status.S, 1e-9)
}

func TestLocalizationMiss(t *testing.T) {
	c := testConfig()
	c.Planner.AllowedRoads = []string{"3", "10"}
	ctx := newTestContext(t, c)
	ctx.UpdatePose(pose(50, 50, 0))
	assert.False(t, ctx.pathTick())
	paths, _ := ctx.Latest().Published()
	assert.Zero(t, paths)
	status, ok := ctx.Status()
	require.True(t, ok)
	assert.False(t, status.Localized)

	// 道路17不在允许的道路集合中
	ctx.UpdatePose(pose(150, -1.75, 0))
	assert.False(t, ctx.pathTick())
}

func TestStaleTelemetry(t *testing.T) {
	c := testConfig()
	c.Telemetry.MaxAge = 1
	ctx := newTestContext(t, c)
	now := time.Now()
	ctx.telemetry = telemetry.NewStoreWithClock(func() time.Time { return now })

	ctx.UpdatePose(pose(50, -1.75, 10))
	assert.True(t, ctx.pathTick())
	now = now.Add(2 * time.Second)
	assert.False(t, ctx.pathTick())
	assert.False(t, ctx.behaviorTick())
	ctx.UpdatePose(pose(50, -1.75, 10))
	assert.True(t, ctx.behaviorTick())
}

func TestBehaviorTick(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	states := make([]behavior.State, 0)
	for _, speed := range []float64{12, 8, 3, 0.5, 0.5, 0.5} {
		ctx.UpdatePose(pose(80, -1.75, speed))
		require.True(t, ctx.behaviorTick())
		msg, ok := ctx.Latest().LatestZones()
		require.True(t, ok)
		require.Len(t, msg.Zones, 1)
		assert.Equal(t, "100", msg.Zones[0].JunctionID)
		states = append(states, ctx.machine.State())
	}
	assert.Equal(t, []behavior.State{
		behavior.Stopping,
		behavior.Stopping,
		behavior.Stopping,
		behavior.Stopped,
		behavior.LaneKeeping,
		behavior.Stopping,
	}, states)
}

func TestBehaviorTickNoJunctionAhead(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	ctx.UpdatePose(pose(10, -1.75, 12))
	require.True(t, ctx.behaviorTick())
	msg, _ := ctx.Latest().LatestZones()
	assert.Empty(t, msg.Zones)
	assert.Equal(t, behavior.LaneKeeping.String(), msg.State)
}

type failingObstacles struct{}

func (failingObstacles) ObstaclesPresent() (bool, error) {
	return false, assert.AnError
}

func TestObstacleSourceFailure(t *testing.T) {
	rc, err := config.NewRuntimeConfig(testConfig())
	require.NoError(t, err)
	ctx := NewContextWithInput(&input.Input{Map: testmap.Corridor()}, rc)
	ctx.SetObstacleSource(failingObstacles{})
	ctx.Init()

	for _, speed := range []float64{5, 0, 0, 0} {
		ctx.UpdatePose(pose(80, -1.75, speed))
		ctx.behaviorTick()
	}
	assert.Equal(t, behavior.Stopped, ctx.machine.State())
}

func TestExtraPublisher(t *testing.T) {
	extra := transport.NewLatestPublisher()
	ctx := newTestContext(t, testConfig(), extra)
	ctx.UpdatePose(pose(50, -1.75, 10))
	ctx.pathTick()
	msg, ok := extra.LatestPath()
	require.True(t, ok)
	assert.Equal(t, ctx.RunID(), msg.Header.RunID)
	assert.Equal(t, "route1", msg.Path.Name)
}

func TestRPC(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	mux := http.NewServeMux()
	ctx.Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	report := connect.NewClient[structpb.Struct, emptypb.Empty](
		server.Client(), server.URL+transport.PlannerServiceReportOdometry,
	)
	getStatus := connect.NewClient[emptypb.Empty, structpb.Struct](
		server.Client(), server.URL+transport.PlannerServiceGetStatus,
	)
	getPath := connect.NewClient[emptypb.Empty, structpb.Struct](
		server.Client(), server.URL+transport.PlannerServiceGetPath,
	)

	_, err := getPath.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))

	odom, err := structpb.NewStruct(map[string]any{"x": 110, "y": -1.75, "xv": 4})
	require.NoError(t, err)
	_, err = report.CallUnary(context.Background(), connect.NewRequest(odom))
	require.NoError(t, err)
	require.True(t, ctx.pathTick())

	res, err := getStatus.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	fields := res.Msg.GetFields()
	assert.Equal(t, "route2", fields["route"].GetStringValue())
	assert.Equal(t, "10", fields["road"].GetStringValue())
	assert.True(t, fields["in_junction_zone"].GetBoolValue())
	assert.InDelta(t, 4, fields["speed"].GetNumberValue(), 1e-9)

	res, err = getPath.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, "route2", res.Msg.GetFields()["name"].GetStringValue())
}

func TestRunWithSimulator(t *testing.T) {
	c := testConfig()
	c.Control.Step = config.ControlStep{Total: 40, Interval: 0.005}
	c.Control.BehaviorInterval = 0.002
	c.Telemetry.Simulate = config.Simulate{Enable: true, Speeds: []float64{2000}}
	ctx := newTestContext(t, c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx.Run(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("planner did not stop after total steps")
	}
	assert.Equal(t, int32(40), ctx.Clock().InternalStep)
	assert.NotZero(t, ctx.telemetry.Received())
}

func TestRunCancel(t *testing.T) {
	c := testConfig()
	c.Control.Step = config.ControlStep{Interval: 0.01}
	ctx := newTestContext(t, c)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx.Run(runCtx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("planner did not stop after cancel")
	}
}
