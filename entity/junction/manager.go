package junction

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/utils"
)

// Junction管理器
type JunctionManager struct {
	data      map[string]*Junction
	junctions []*Junction
}

// NewManager 创建Junction管理器实例
func NewManager() *JunctionManager {
	return &JunctionManager{
		data:      make(map[string]*Junction),
		junctions: make([]*Junction, 0),
	}
}

// Init 初始化所有Junction
// 功能：按junction id对路网中的道路分组，每组建立一个Junction
// 参数：roadManager-道路管理器，zoneMaxSpeed-警示区域限速
// 说明：junction id为entity.NotJunction的道路不属于任何路口；路口顺序按其第一条道路在地图中出现的顺序
func (m *JunctionManager) Init(roadManager entity.IRoadManager, zoneMaxSpeed float64) {
	roads := lo.Filter(roadManager.Roads(), func(r entity.IRoad, _ int) bool {
		return r.IsJunction()
	})
	groups := lo.GroupBy(roads, func(r entity.IRoad) string {
		return r.JunctionID()
	})
	ids := lo.Uniq(lo.Map(roads, func(r entity.IRoad, _ int) string {
		return r.JunctionID()
	}))
	m.junctions = lo.Map(ids, func(id string, _ int) *Junction {
		return newJunction(id, groups[id], zoneMaxSpeed)
	})
	m.data = lo.SliceToMap(m.junctions, func(j *Junction) (string, *Junction) {
		return j.id, j
	})
	log.Infof("init %d junctions from %d junction roads", len(m.junctions), len(roads))
}

// Get 根据ID获取Junction实例
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则panic
func (m *JunctionManager) Get(id string) entity.IJunction {
	if junction, ok := m.data[id]; !ok {
		log.Panicf("no id %s in junction data", id)
		return nil
	} else {
		return junction
	}
}

// GetOrError 根据ID获取Junction实例（带错误处理）
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则返回错误
// 返回：id为非路口哨兵值时返回包装了ErrNotJunction的错误
func (m *JunctionManager) GetOrError(id string) (entity.IJunction, error) {
	if id == entity.NotJunction {
		return nil, fmt.Errorf("junction id %s: %w", id, ErrNotJunction)
	}
	if junction, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in junction data", id)
	} else {
		return junction, nil
	}
}

// Zones 获取给定路口的警示区域
// 功能：按输入顺序为每个路口ID生成警示区域，未知路口跳过并告警
// 参数：ids-路口ID列表，为空时返回空列表
// 返回：警示区域列表
func (m *JunctionManager) Zones(ids []string) []entity.Zone {
	if len(ids) == 0 {
		return make([]entity.Zone, 0)
	}
	junctions, failed := utils.Find(m.data, m.junctions, ids)
	if len(failed) > 0 {
		log.Warnf("skip zones of unknown junctions %v", failed)
	}
	return lo.Map(junctions, func(j *Junction, _ int) entity.Zone {
		return j.zone
	})
}

// Junctions 按初始化顺序返回全部Junction
func (m *JunctionManager) Junctions() []entity.IJunction {
	return lo.Map(m.junctions, func(j *Junction, _ int) entity.IJunction { return j })
}
