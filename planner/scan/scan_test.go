package scan_test

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/path"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/scan"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/testmap"
)

func corridorPath(t *testing.T) *path.Path {
	roads := testmap.NewRoadManager(testmap.Corridor())
	return path.NewSampler(roads, 1).Sample(path.RouteSpec{Segments: []path.Segment{
		{Road: "3", Lane: -1}, {Road: "10", Lane: -1}, {Road: "17", Lane: -1},
	}})
}

func TestScanHorizon(t *testing.T) {
	roads := testmap.NewRoadManager(testmap.Corridor())
	p := corridorPath(t)
	s := scan.New(roads, 40)
	assert.Equal(t, 40, s.Horizon())

	// x∈[20,59]，看不到路口
	res := s.Scan(p.Points, 20)
	assert.False(t, res.JunctionAhead)
	assert.Empty(t, res.Junctions)

	// x∈[70,109]，经过路口道路
	res = s.Scan(p.Points, 70)
	assert.True(t, res.JunctionAhead)
	assert.Equal(t, []string{"100"}, res.Junctions)
}

func TestScanWrapsAround(t *testing.T) {
	roads := testmap.NewRoadManager(testmap.Corridor())
	p := corridorPath(t)
	// 从路径末端开始，取模后回到路径起点，不经过路口
	res := scan.New(roads, 30).Scan(p.Points, p.Len()-5)
	assert.False(t, res.JunctionAhead)

	// 前视超过路径长度时每个点被访问多次，结果仍然去重
	res = scan.New(roads, 3*p.Len()).Scan(p.Points, 0)
	assert.Equal(t, []string{"100"}, res.Junctions)

	// 负下标同样取模
	res = scan.New(roads, 10).Scan(p.Points, -p.Len()+105)
	assert.True(t, res.JunctionAhead)
}

func TestScanDedup(t *testing.T) {
	roads := testmap.NewRoadManager(testmap.Corridor())
	// 在同一路口道路的两条车道之间交替
	points := make([]r3.Vector, 0)
	for x := 101.0; x < 119; x++ {
		points = append(points, r3.Vector{X: x, Y: -1.75}, r3.Vector{X: x, Y: 1.75})
	}
	res := scan.New(roads, len(points)).Scan(points, 0)
	assert.True(t, res.JunctionAhead)
	assert.Equal(t, []string{"100"}, res.Junctions)
}

func TestScanMultipleJunctions(t *testing.T) {
	roads := testmap.NewRoadManager(&input.Map{Roads: []*input.Road{
		testmap.Straight("a", "", 0, 0, 10, 0, -1),
		testmap.Straight("b", "J1", 10, 0, 20, 0, -1),
		testmap.Straight("c", "", 20, 0, 30, 0, -1),
		testmap.Straight("d", "J2", 30, 0, 40, 0, -1),
	}})
	points := []r3.Vector{
		{X: 5, Y: -1}, {X: 15, Y: -1}, {X: 25, Y: -1}, {X: 35, Y: -1},
		{X: 15, Y: -1}, {X: 50, Y: 50}, // 路网外的点被跳过
	}
	res := scan.New(roads, len(points)).Scan(points, 0)
	assert.Equal(t, []string{"J1", "J2"}, res.Junctions)

	res = scan.New(roads, 3).Scan(points, 3)
	assert.Equal(t, []string{"J2", "J1"}, res.Junctions)

	res = scan.New(roads, 5).Scan(nil, 0)
	assert.False(t, res.JunctionAhead)
}
