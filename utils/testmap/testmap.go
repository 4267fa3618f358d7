// 测试用的合成路网
package testmap

import (
	"github.com/tsinghua-fib-lab/navigator-planner/entity/road"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

const LaneWidth = 3.5 // 车道宽度

// Straight 创建一条两点参考线的直路，每个车道宽LaneWidth
func Straight(id, junction string, x0, y0, x1, y1 float64, laneIDs ...int32) *input.Road {
	lanes := make([]*input.Lane, 0, len(laneIDs))
	for _, laneID := range laneIDs {
		lanes = append(lanes, &input.Lane{ID: laneID, Width: LaneWidth})
	}
	return &input.Road{
		ID:       id,
		Junction: junction,
		RefLine:  []input.Point{{X: x0, Y: y0}, {X: x1, Y: y1}},
		Sections: []*input.LaneSection{{S0: 0, Lanes: lanes}},
	}
}

// Corridor 沿x轴的三段道路：
// "3"   x∈[0,100]   普通道路
// "10"  x∈[100,120] 路口"100"内的道路
// "17"  x∈[120,220] 普通道路
// 每条道路有-1（右侧，沿x正向）与1（左侧，沿x负向）两条车道
func Corridor() *input.Map {
	return &input.Map{
		Roads: []*input.Road{
			Straight("3", "", 0, 0, 100, 0, -1, 1),
			Straight("10", "100", 100, 0, 120, 0, -1, 1),
			Straight("17", "-1", 120, 0, 220, 0, -1, 1),
		},
	}
}

// NewRoadManager 由地图数据创建并初始化Road管理器，失败时panic
func NewRoadManager(m *input.Map) *road.RoadManager {
	rm := road.NewManager()
	if err := rm.Init(m.Roads); err != nil {
		panic(err)
	}
	return rm
}
