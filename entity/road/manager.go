package road

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

// RoadManager Road管理器
// 功能：管理所有Road实体，提供查找与按坐标查询车道的路网接口
// 说明：初始化完成后只读，可被多个goroutine并发查询
type RoadManager struct {
	data  map[string]*Road
	roads []*Road
}

// NewManager 创建Road管理器实例
func NewManager() *RoadManager {
	return &RoadManager{
		data:  make(map[string]*Road),
		roads: make([]*Road, 0),
	}
}

// Init 初始化所有Road
// 功能：根据地图数据初始化所有Road对象，建立ID映射关系
// 参数：roads-Road的基础数据列表
// 返回：错误信息，任意一条道路数据不合法或ID重复时返回错误
func (m *RoadManager) Init(roads []*input.Road) error {
	m.roads = make([]*Road, 0, len(roads))
	for _, base := range roads {
		r, err := newRoad(base)
		if err != nil {
			return err
		}
		m.roads = append(m.roads, r)
	}
	m.data = lo.SliceToMap(m.roads, func(r *Road) (string, *Road) {
		return r.id, r
	})
	if len(m.data) != len(m.roads) {
		return fmt.Errorf("duplicated road ids in %d roads", len(m.roads))
	}
	log.Infof("init %d roads (%d in junctions)", len(m.roads), lo.CountBy(m.roads, func(r *Road) bool {
		return r.IsJunction()
	}))
	return nil
}

// Get 根据ID获取Road实例
// 功能：通过Road ID查找对应的Road对象，如果不存在则panic
func (m *RoadManager) Get(id string) entity.IRoad {
	if road, ok := m.data[id]; !ok {
		log.Panicf("no id %s in road data", id)
		return nil
	} else {
		return road
	}
}

// GetOrError 根据ID获取Road实例（带错误处理）
// 功能：通过Road ID查找对应的Road对象，如果不存在则返回错误
func (m *RoadManager) GetOrError(id string) (entity.IRoad, error) {
	if road, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in road data", id)
	} else {
		return road, nil
	}
}

// Roads 按输入顺序返回全部Road
func (m *RoadManager) Roads() []entity.IRoad {
	return lo.Map(m.roads, func(r *Road, _ int) entity.IRoad { return r })
}

// LaneAt 查找包含xy的最近车道
func (m *RoadManager) LaneAt(x, y float64) entity.ILane {
	return m.LaneAtIn(x, y, nil)
}

// LaneAtIn 在给定Road集合内查找包含xy的最近车道
// 功能：遍历候选道路，找出横向范围包含该点、且点到车道中心线横向距离最小的车道
// 参数：x,y-查询点，allowed-允许的道路ID集合（nil表示不限制）
// 返回：车道，不存在时返回nil
// 算法说明：
// 1. 跳过不在allowed中的道路，用外包框快速排除
// 2. 对剩余道路做参考线投影，得到车道与横向距离
// 3. 只在横向距离严格更小时更新结果，距离相同时保留输入顺序靠前的道路
func (m *RoadManager) LaneAtIn(x, y float64, allowed map[string]struct{}) entity.ILane {
	var best entity.ILane
	bestDist := math.Inf(1)
	for _, r := range m.roads {
		if allowed != nil {
			if _, ok := allowed[r.id]; !ok {
				continue
			}
		}
		l, dist, ok := r.laneAt(x, y)
		if ok && dist < bestDist {
			best, bestDist = l, dist
		}
	}
	return best
}
