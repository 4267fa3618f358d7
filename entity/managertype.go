package entity

import (
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

// Manager依赖倒置

// entity/road/manager.go的依赖倒置，即路网查询接口
type IRoadManager interface {
	Init(roads []*input.Road) error // 初始化

	// 输入Road ID，查找Road，如果不存在则panic
	Get(id string) IRoad
	// 输入Road ID，查找Road，如果不存在则返回error
	GetOrError(id string) (IRoad, error)
	// 全部Road，按输入顺序
	Roads() []IRoad

	// 查找包含xy的最近车道，不存在时返回nil
	LaneAt(x, y float64) ILane
	// 在给定Road集合内查找包含xy的最近车道，不存在时返回nil
	LaneAtIn(x, y float64, allowed map[string]struct{}) ILane
}

// entity/junction/manager.go的依赖倒置
type IJunctionManager interface {
	Init(roadManager IRoadManager, zoneMaxSpeed float64) // 初始化

	// 输入Junction ID，查找Junction，如果不存在则panic
	Get(id string) IJunction
	// 输入Junction ID，查找Junction，如果不存在则返回error
	GetOrError(id string) (IJunction, error)
	// 按输入顺序获取路口的警示区域，未知路口跳过
	Zones(ids []string) []Zone
	// 全部Junction
	Junctions() []IJunction
}
