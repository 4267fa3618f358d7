// 路线定义与离散路径
package path

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
)

// Segment 路线中的一段：道路与其上的一条车道
type Segment struct {
	Road string
	Lane int32
}

func (s Segment) String() string {
	return fmt.Sprintf("%s:%d", s.Road, s.Lane)
}

// RouteSpec 路线定义
// 功能：有名字的道路/车道对序列，按行驶顺序排列
type RouteSpec struct {
	Name     string
	Segments []Segment
}

// FromConfig 由配置中的路线创建RouteSpec
func FromConfig(c config.Route) RouteSpec {
	return RouteSpec{
		Name: c.Name,
		Segments: lo.Map(c.Segments, func(s config.RouteSegment, _ int) Segment {
			return Segment{Road: s.Road, Lane: s.Lane}
		}),
	}
}

// RoadIDs 路线经过的道路ID（去重，保持顺序）
func (r RouteSpec) RoadIDs() []string {
	return lo.Uniq(lo.Map(r.Segments, func(s Segment, _ int) string { return s.Road }))
}

// Path 离散路径
// 功能：路线采样得到的有序三维点列，附带路由代价与安全代价
// 说明：生成后不再修改，可在goroutine间共享只读引用
type Path struct {
	Name        string      // 来源路线名
	Points      []r3.Vector // 按行驶顺序排列的点
	RoutingCost float64     // 路由代价
	SafetyCost  float64     // 安全代价
}

// Len 点数
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Points)
}

func (p *Path) String() string {
	return fmt.Sprintf("Path{%s, %d points}", p.Name, p.Len())
}
