package path

import (
	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
)

// Sampler 路线采样器
// 功能：将路线定义离散化为路径点序列
type Sampler struct {
	roads entity.IRoadManager
	step  float64 // 采样步长（米）
}

// NewSampler 创建路线采样器
// 参数：roads-路网，step-采样步长，必须为正数
func NewSampler(roads entity.IRoadManager, step float64) *Sampler {
	if step <= 0 {
		log.Panicf("bad sampling step %v", step)
	}
	return &Sampler{roads: roads, step: step}
}

// Sample 采样一条路线
// 功能：按顺序拼接路线中每一段车道的中心线采样点
// 参数：spec-路线定义
// 返回：路径，代价为0
// 算法说明：
// 1. 对每个(道路, 车道)对，查找道路；道路不存在时告警并跳过该段
// 2. 遍历道路的车道段，在每个含有该车道的车道段上采样[s0, end]
// 3. 车道ID为正（逆参考线方向行驶）时，车道段倒序遍历且每段采样点倒序
// 4. 没有任何车道段含有该车道时告警并跳过该段
// 说明：段与段之间不做去重与平滑，相邻段交界处可能出现重复点
func (s *Sampler) Sample(spec RouteSpec) *Path {
	points := make([]r3.Vector, 0)
	for i, seg := range spec.Segments {
		road, err := s.roads.GetOrError(seg.Road)
		if err != nil {
			log.Warnf("route %s: skip segment %d (%v): %v", spec.Name, i, seg, err)
			continue
		}
		reversed := seg.Lane > 0
		sections := road.LaneSections()
		if reversed {
			sections = lo.Reverse(append([]entity.ILaneSection(nil), sections...))
		}
		found := false
		for _, sec := range sections {
			l, ok := sec.Lane(seg.Lane)
			if !ok {
				continue
			}
			found = true
			points = append(points, l.CenterLine(sec.S0(), sec.End(), s.step, reversed)...)
		}
		if !found {
			log.Warnf("route %s: no lane %d for road %s (segment %d)", spec.Name, seg.Lane, seg.Road, i)
		}
	}
	log.Infof("route %s: generated path with %d points", spec.Name, len(points))
	return &Path{
		Name:   spec.Name,
		Points: points,
	}
}
