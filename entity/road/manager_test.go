package road_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/entity/road"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/testmap"
)

func TestRoadManagerInit(t *testing.T) {
	m := testmap.NewRoadManager(testmap.Corridor())
	assert.Len(t, m.Roads(), 3)

	r := m.Get("10")
	assert.Equal(t, "100", r.JunctionID())
	assert.True(t, r.IsJunction())
	assert.InDelta(t, 20, r.Length(), 1e-9)

	for _, id := range []string{"3", "17"} {
		r := m.Get(id)
		assert.Equal(t, entity.NotJunction, r.JunctionID())
		assert.False(t, r.IsJunction())
	}

	_, err := m.GetOrError("404")
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get("404") })
}

func TestRoadManagerInitDuplicated(t *testing.T) {
	m := road.NewManager()
	err := m.Init([]*input.Road{
		testmap.Straight("1", "", 0, 0, 10, 0, -1),
		testmap.Straight("1", "", 0, 0, 10, 0, -1),
	})
	assert.Error(t, err)
}

func TestLaneLayout(t *testing.T) {
	m := testmap.NewRoadManager(&input.Map{Roads: []*input.Road{
		testmap.Straight("r", "", 0, 0, 50, 0, -2, -1, 1, 2),
	}})
	sec := m.Get("r").LaneSections()[0]
	assert.InDelta(t, 0, sec.S0(), 1e-9)
	assert.InDelta(t, 50, sec.End(), 1e-9)

	cases := map[int32]float64{
		-1: -testmap.LaneWidth / 2,
		-2: -testmap.LaneWidth * 1.5,
		1:  testmap.LaneWidth / 2,
		2:  testmap.LaneWidth * 1.5,
	}
	for id, center := range cases {
		l, ok := sec.Lane(id)
		require.True(t, ok)
		assert.InDelta(t, center, l.CenterOffset(), 1e-9, "lane %d", id)
		assert.Equal(t, id < 0, l.Forward())
		assert.Equal(t, "r", l.ParentRoad().ID())
		assert.Same(t, sec, l.Section())
	}
	_, ok := sec.Lane(3)
	assert.False(t, ok)

	assert.Equal(t, int32(-2), sec.LaneByOffset(-5).ID())
	assert.Equal(t, int32(1), sec.LaneByOffset(0.1).ID())
	assert.Nil(t, sec.LaneByOffset(100))
}

func TestLaneAt(t *testing.T) {
	m := testmap.NewRoadManager(testmap.Corridor())

	l := m.LaneAt(50, -1)
	require.NotNil(t, l)
	assert.Equal(t, "3", l.ParentRoad().ID())
	assert.Equal(t, int32(-1), l.ID())

	l = m.LaneAt(110, 2)
	require.NotNil(t, l)
	assert.Equal(t, "10", l.ParentRoad().ID())
	assert.Equal(t, int32(1), l.ID())

	// 远离道路
	assert.Nil(t, m.LaneAt(50, 30))
	// 道路首端之外
	assert.Nil(t, m.LaneAt(-5, -1))

	// 限定道路集合
	assert.Nil(t, m.LaneAtIn(50, -1, map[string]struct{}{"17": {}}))
	l = m.LaneAtIn(150, -1, map[string]struct{}{"17": {}})
	require.NotNil(t, l)
	assert.Equal(t, "17", l.ParentRoad().ID())
}

func TestLaneAtPicksNearest(t *testing.T) {
	// 两条重叠道路，后一条的车道中心更接近查询点
	m := testmap.NewRoadManager(&input.Map{Roads: []*input.Road{
		testmap.Straight("a", "", 0, 0, 10, 0, -1),
		testmap.Straight("b", "", 0, -1, 10, -1, -1),
	}})
	l := m.LaneAt(5, -2.8)
	require.NotNil(t, l)
	assert.Equal(t, "b", l.ParentRoad().ID())
}

func TestRoadMatch(t *testing.T) {
	m := testmap.NewRoadManager(testmap.Corridor())
	assert.InDelta(t, 42, m.Get("3").Match(42, -1.2), 1e-9)
	assert.InDelta(t, 5, m.Get("10").Match(105, 1), 1e-9)
}
