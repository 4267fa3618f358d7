// 车辆定位：当前车道与路径最近点
package localize

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
)

var (
	ErrLaneNotFound = errors.New("lane could not be located")
)

// Result 定位结果
type Result struct {
	Lane entity.ILane // 当前车道
	Road entity.IRoad // 当前道路
	S    float64      // 在道路参考线上的纵向坐标
}

func (r Result) String() string {
	return fmt.Sprintf("Road %s, lane %d, s=%.2f", r.Road.ID(), r.Lane.ID(), r.S)
}

// Localizer 车道定位器
type Localizer struct {
	roads   entity.IRoadManager
	allowed map[string]struct{} // 允许的道路ID集合，nil表示不限制
}

// New 创建车道定位器
// 参数：roads-路网，allowed-允许的道路ID，为空时不限制
func New(roads entity.IRoadManager, allowed []string) *Localizer {
	l := &Localizer{roads: roads}
	if len(allowed) > 0 {
		l.allowed = make(map[string]struct{}, len(allowed))
		for _, id := range allowed {
			l.allowed[id] = struct{}{}
		}
	}
	return l
}

// Locate 定位xy所在的车道
// 功能：在允许的道路集合内查找最近车道，并计算点在所属道路参考线上的纵向坐标
// 参数：x,y-车辆位置
// 返回：定位结果；找不到车道时返回ErrLaneNotFound
func (l *Localizer) Locate(x, y float64) (Result, error) {
	lane := l.roads.LaneAtIn(x, y, l.allowed)
	if lane == nil {
		return Result{}, fmt.Errorf("(%.2f, %.2f): %w", x, y, ErrLaneNotFound)
	}
	road := lane.ParentRoad()
	return Result{
		Lane: lane,
		Road: road,
		S:    road.Match(x, y),
	}, nil
}

// ClosestPointIndex 查找点列中距离xy最近的点
// 功能：线性扫描，比较xy平面上的平方距离
// 参数：points-点列，x,y-查询点
// 返回：最近点下标，距离相同时取下标最小者；点列为空时返回-1
func ClosestPointIndex(points []r3.Vector, x, y float64) int {
	best, bestD2 := -1, math.Inf(1)
	for i, p := range points {
		dx, dy := p.X-x, p.Y-y
		if d2 := dx*dx + dy*dy; d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	return best
}
