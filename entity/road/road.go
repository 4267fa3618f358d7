package road

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/geometry"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

// Road 道路实体
// 功能：表示路网中的一条道路，包含参考线、车道段集合与路口归属
type Road struct {
	id       string
	junction string                // 所属路口ID，非路口为entity.NotJunction
	refLine  *geometry.RefLine     // 参考线
	sections []entity.ILaneSection // 按s0排序的车道段
	bound    orb.Bound             // 包含全部车道的外包框
}

// newRoad 创建并初始化一个新的Road实例
// 功能：根据基础数据创建参考线与车道段，并设置车道的反向引用
// 参数：base-基础Road数据
// 返回：初始化完成的Road实例与错误信息
// 说明：车道段终点未指定时取下一车道段起点，最后一段取参考线终点
func newRoad(base *input.Road) (*Road, error) {
	refLine, err := geometry.NewRefLine(lo.Map(base.RefLine, func(p input.Point, _ int) r3.Vector {
		return p.Vector()
	}))
	if err != nil {
		return nil, fmt.Errorf("road %s: %w", base.ID, err)
	}
	r := &Road{
		id:       base.ID,
		junction: base.Junction,
		refLine:  refLine,
	}
	if r.junction == "" {
		r.junction = entity.NotJunction
	}
	maxOffset := 0.0
	for i, secBase := range base.Sections {
		end := secBase.End
		if end <= 0 {
			if i+1 < len(base.Sections) {
				end = base.Sections[i+1].S0
			} else {
				end = refLine.Length()
			}
		}
		sec := newLaneSection(secBase, math.Min(end, refLine.Length()))
		for _, l := range sec.Lanes() {
			l.SetParentRoadWhenInit(r, sec)
		}
		maxOffset = math.Max(maxOffset, sec.maxOffset())
		r.sections = append(r.sections, sec)
	}
	r.bound = refLine.Bound().Pad(maxOffset)
	return r, nil
}

// ID 获取Road的唯一标识符
func (r *Road) ID() string {
	return r.id
}

// String 获取Road的字符串表示
func (r *Road) String() string {
	return fmt.Sprintf("Road %s", r.id)
}

// JunctionID 获取所属路口ID
// 功能：返回道路所属路口ID，非路口道路返回entity.NotJunction
func (r *Road) JunctionID() string {
	return r.junction
}

// IsJunction 是否为路口内道路
// 功能：检查junction id是否为非路口哨兵值
// 返回：true表示道路属于某个路口
func (r *Road) IsJunction() bool {
	return r.junction != entity.NotJunction
}

// Length 参考线长度
func (r *Road) Length() float64 {
	return r.refLine.Length()
}

// RefLine 参考线
func (r *Road) RefLine() *geometry.RefLine {
	return r.refLine
}

// LaneSections 按s0排序的车道段
func (r *Road) LaneSections() []entity.ILaneSection {
	return r.sections
}

// SectionAt 查找s所在的车道段
// 功能：返回最后一个起点不大于s的车道段
// 返回：车道段，s位于第一个车道段之前时返回第一个
func (r *Road) SectionAt(s float64) entity.ILaneSection {
	if len(r.sections) == 0 {
		return nil
	}
	sec := r.sections[0]
	for _, candidate := range r.sections[1:] {
		if candidate.S0() > s {
			break
		}
		sec = candidate
	}
	return sec
}

// Bound 包含全部车道的外包框
func (r *Road) Bound() orb.Bound {
	return r.bound
}

// Match 参考线最近点匹配，返回纵向坐标s
func (r *Road) Match(x, y float64) float64 {
	return r.refLine.Match(x, y)
}

// laneAt 查找本道路上包含xy的车道
// 功能：将点投影到参考线，按纵向坐标找到车道段，再按横向偏移找到车道
// 参数：x,y-查询点
// 返回：车道、点到车道中心线的横向距离、是否找到
// 说明：投影垂足落在参考线首尾之外时视为不在道路上
func (r *Road) laneAt(x, y float64) (entity.ILane, float64, bool) {
	if !r.bound.Contains(orb.Point{x, y}) {
		return nil, 0, false
	}
	proj := r.refLine.Project(x, y)
	if !proj.Inside {
		return nil, 0, false
	}
	sec := r.SectionAt(proj.S)
	if sec == nil {
		return nil, 0, false
	}
	l := sec.LaneByOffset(proj.T)
	if l == nil {
		return nil, 0, false
	}
	return l, math.Abs(proj.T - l.CenterOffset()), true
}
