package telemetry_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/path"
	"github.com/tsinghua-fib-lab/navigator-planner/telemetry"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
)

type pathSource struct {
	p *path.Path
}

func (s *pathSource) ActivePath() (*path.Path, bool) {
	return s.p, s.p != nil
}

type sink struct {
	poses []entity.CarPose
}

func (s *sink) UpdatePose(pose entity.CarPose) {
	s.poses = append(s.poses, pose)
}

func line(name string, x0, y0, x1, y1 float64, n int) *path.Path {
	points := make([]r3.Vector, 0, n+1)
	for i := 0; i <= n; i++ {
		k := float64(i) / float64(n)
		points = append(points, r3.Vector{X: x0 + (x1-x0)*k, Y: y0 + (y1-y0)*k})
	}
	return &path.Path{Name: name, Points: points}
}

func TestSimulatorNoPath(t *testing.T) {
	out := &sink{}
	s := telemetry.NewSimulator(config.Simulate{}, &pathSource{}, out)
	_, ok := s.Step(1)
	assert.False(t, ok)
	assert.Empty(t, out.poses)
}

func TestSimulatorSpeedProfile(t *testing.T) {
	out := &sink{}
	src := &pathSource{p: line("a", 0, 0, 100, 0, 100)}
	s := telemetry.NewSimulator(config.Simulate{Speeds: []float64{10, 5}}, src, out)

	pose, ok := s.Step(0.5)
	require.True(t, ok)
	assert.InDelta(t, 5, pose.X, 1e-9)
	assert.InDelta(t, 0, pose.Y, 1e-9)
	assert.InDelta(t, 10, pose.Speed(), 1e-9)
	assert.InDelta(t, 0, pose.Heading, 1e-9)

	pose, _ = s.Step(0.5)
	assert.InDelta(t, 7.5, pose.X, 1e-9)
	assert.InDelta(t, 5, pose.Speed(), 1e-9)
	// 速度曲线用完后保持最后一个值
	pose, _ = s.Step(0.5)
	assert.InDelta(t, 10, pose.X, 1e-9)
	assert.Len(t, out.poses, 3)
}

func TestSimulatorStopsAtEnd(t *testing.T) {
	out := &sink{}
	src := &pathSource{p: line("a", 0, 0, 0, 10, 10)}
	s := telemetry.NewSimulator(config.Simulate{Speeds: []float64{100}}, src, out)
	pose, ok := s.Step(1)
	require.True(t, ok)
	assert.InDelta(t, 0, pose.X, 1e-9)
	assert.InDelta(t, 10, pose.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, pose.Heading, 1e-9)
	assert.Zero(t, pose.Speed())
}

func TestSimulatorFollowsSwitch(t *testing.T) {
	out := &sink{}
	src := &pathSource{p: line("a", 0, 0, 100, 0, 100)}
	s := telemetry.NewSimulator(config.Simulate{Speeds: []float64{10}}, src, out)
	for i := 0; i < 3; i++ {
		s.Step(1)
	}
	assert.InDelta(t, 30, out.poses[2].X, 1e-9)

	// 新路径从x=0开始，但车辆从最近点x=30继续
	src.p = line("b", 0, 5, 100, 5, 100)
	pose, ok := s.Step(1)
	require.True(t, ok)
	assert.InDelta(t, 40, pose.X, 1e-9)
	assert.InDelta(t, 5, pose.Y, 1e-9)
}

func TestSimulatorNoise(t *testing.T) {
	src := &pathSource{p: line("a", 0, 0, 100, 0, 100)}
	a := telemetry.NewSimulator(config.Simulate{NoiseStd: 0.3, Seed: 3}, src, &sink{})
	b := telemetry.NewSimulator(config.Simulate{NoiseStd: 0.3, Seed: 3}, src, &sink{})
	pa, _ := a.Step(0.1)
	pb, _ := b.Step(0.1)
	assert.Equal(t, pa, pb)
	assert.NotEqual(t, 0.0, pa.Y)
}
