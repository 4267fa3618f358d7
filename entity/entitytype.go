package entity

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/geometry"
)

// 非路口道路的junction id哨兵值
const NotJunction = "-1"

// entity/lane/lane.go的依赖倒置
type ILane interface {
	SetParentRoadWhenInit(parent IRoad, section ILaneSection) // 设置lane所在road与lane section

	String() string

	ID() int32                     // 获取Lane ID（负数沿参考线正向，正数反向）
	Width() float64                // 获取Lane宽度
	CenterOffset() float64         // 获取Lane中心线相对参考线的横向偏移（左正右负）
	ContainsOffset(t float64) bool // 检查横向偏移t是否落在Lane的横向范围内
	ParentRoad() IRoad             // 获取Lane所在的Road（非拥有关系）
	Section() ILaneSection         // 获取Lane所在的LaneSection
	Forward() bool                 // 是否沿参考线正向行驶

	// 在[sStart, sEnd]范围内按step采样中心线，reversed为true时结果倒序
	CenterLine(sStart, sEnd, step float64, reversed bool) []r3.Vector
}

// entity/road/section.go的依赖倒置
type ILaneSection interface {
	S0() float64                  // 起点s
	End() float64                 // 终点s
	Lanes() map[int32]ILane       // 车道id->车道映射
	Lane(id int32) (ILane, bool)  // 按id查找车道
	LaneByOffset(t float64) ILane // 按横向偏移查找车道
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	String() string

	ID() string                       // 获取Road ID
	JunctionID() string               // 获取所属路口ID，非路口为NotJunction
	IsJunction() bool                 // 是否为路口内道路
	Length() float64                  // 参考线长度
	RefLine() *geometry.RefLine       // 参考线
	LaneSections() []ILaneSection     // 按s排序的LaneSection
	SectionAt(s float64) ILaneSection // 查找s所在的LaneSection
	Bound() orb.Bound                 // 包含全部车道的外包框
	Match(x, y float64) float64       // 参考线最近点匹配，返回s
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	ID() string     // 获取Junction ID
	Roads() []IRoad // 路口内的道路
	Zone() Zone     // 路口的警示区域

	Contains(x, y float64) bool // 检查xy是否落在警示区域内
}

// Zone 路口警示区域
// 功能：行为规划输出的停车/减速区域，对应一个被探测到的路口
type Zone struct {
	JunctionID string      // 对应的路口ID
	Polygon    orb.Polygon // 区域多边形
	MaxSpeed   float64     // 区域内限速
}

func (z Zone) String() string {
	return fmt.Sprintf("Zone{junction=%s, maxSpeed=%v}", z.JunctionID, z.MaxSpeed)
}

// Fields 转为可序列化的键值结构，多边形为外环点列[[x,y],...]
func (z Zone) Fields() map[string]any {
	ring := make([]any, 0)
	if len(z.Polygon) > 0 {
		for _, p := range z.Polygon[0] {
			ring = append(ring, []any{p[0], p[1]})
		}
	}
	return map[string]any{
		"junction_id": z.JunctionID,
		"max_speed":   z.MaxSpeed,
		"polygon":     ring,
	}
}
