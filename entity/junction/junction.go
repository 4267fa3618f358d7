package junction

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
)

var (
	ErrNotJunction = errors.New("road is not in a junction")
)

// Junction 路口实体
// 功能：由junction id相同的道路组成，维护路口的警示区域
type Junction struct {
	id    string
	roads []entity.IRoad // 路口内的道路，保持地图输入顺序
	zone  entity.Zone    // 警示区域
}

// newJunction 创建并初始化一个新的Junction实例
// 功能：根据路口内道路计算警示区域
// 参数：id-路口ID，roads-路口内的道路，maxSpeed-区域内限速
// 返回：初始化完成的Junction实例
// 算法说明：
// 1. 合并所有道路的外包框（已按车道宽度外扩）
// 2. 外包框转为多边形作为区域形状
func newJunction(id string, roads []entity.IRoad, maxSpeed float64) *Junction {
	if len(roads) == 0 {
		log.Panicf("junction %s has no road", id)
	}
	bound := roads[0].Bound()
	for _, r := range roads[1:] {
		bound = bound.Union(r.Bound())
	}
	return &Junction{
		id:    id,
		roads: roads,
		zone: entity.Zone{
			JunctionID: id,
			Polygon:    bound.ToPolygon(),
			MaxSpeed:   maxSpeed,
		},
	}
}

// ID 获取Junction的唯一标识符
func (j *Junction) ID() string {
	if j == nil {
		return entity.NotJunction
	}
	return j.id
}

func (j *Junction) String() string {
	return fmt.Sprintf("Junction %s", j.id)
}

// Roads 获取路口内的道路
func (j *Junction) Roads() []entity.IRoad {
	return j.roads
}

// Zone 获取路口警示区域
func (j *Junction) Zone() entity.Zone {
	return j.zone
}

// Contains 检查xy是否落在警示区域内
func (j *Junction) Contains(x, y float64) bool {
	return planar.PolygonContains(j.zone.Polygon, orb.Point{x, y})
}
