package road

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/entity/lane"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

// LaneSection 车道段
// 功能：道路上车道布局保持不变的一段纵向范围[s0, end]
type LaneSection struct {
	s0    float64
	end   float64
	lanes map[int32]entity.ILane // 车道id->车道映射
	order []entity.ILane         // 按横向偏移从左到右排序
}

// newLaneSection 创建车道段
// 功能：按车道ID的符号与绝对值计算每条车道的横向范围
// 参数：base-基础数据，end-车道段终点s
// 返回：车道段
// 算法说明：
// 1. 正数ID车道按ID从小到大排列在参考线左侧，负数ID车道按绝对值从小到大排列在右侧
// 2. 每侧从参考线开始累加车道宽度，得到每条车道的内侧边界
func newLaneSection(base *input.LaneSection, end float64) *LaneSection {
	sec := &LaneSection{
		s0:    base.S0,
		end:   end,
		lanes: make(map[int32]entity.ILane, len(base.Lanes)),
	}
	left := lo.Filter(base.Lanes, func(l *input.Lane, _ int) bool { return l.ID > 0 })
	right := lo.Filter(base.Lanes, func(l *input.Lane, _ int) bool { return l.ID < 0 })
	sort.Slice(left, func(i, j int) bool { return left[i].ID < left[j].ID })
	sort.Slice(right, func(i, j int) bool { return right[i].ID > right[j].ID })
	for _, side := range [][]*input.Lane{left, right} {
		inner := 0.0
		for _, lb := range side {
			l := lane.New(lb, inner)
			inner += lb.Width
			sec.lanes[l.ID()] = l
			sec.order = append(sec.order, l)
		}
	}
	sort.Slice(sec.order, func(i, j int) bool {
		return sec.order[i].CenterOffset() > sec.order[j].CenterOffset()
	})
	return sec
}

// 起点s
func (s *LaneSection) S0() float64 {
	return s.s0
}

// 终点s
func (s *LaneSection) End() float64 {
	return s.end
}

// 车道id->车道映射
func (s *LaneSection) Lanes() map[int32]entity.ILane {
	return s.lanes
}

// 按id查找车道
func (s *LaneSection) Lane(id int32) (entity.ILane, bool) {
	l, ok := s.lanes[id]
	return l, ok
}

// LaneByOffset 按横向偏移查找车道
// 功能：找出横向范围包含t的车道，位于两车道共享边界时取中心更近的一条
// 返回：车道，不存在时返回nil
func (s *LaneSection) LaneByOffset(t float64) entity.ILane {
	var best entity.ILane
	bestDist := math.Inf(1)
	for _, l := range s.order {
		if !l.ContainsOffset(t) {
			continue
		}
		if d := math.Abs(t - l.CenterOffset()); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}

// 最大横向半宽，用于计算道路外包框
func (s *LaneSection) maxOffset() float64 {
	m := 0.0
	for _, l := range s.order {
		m = math.Max(m, math.Abs(l.CenterOffset())+l.Width()/2)
	}
	return m
}
