package lane

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

const (
	endEpsilon = 1e-9 // 判断末端点是否已被采样的容差
)

// Lane 车道实体
// 功能：表示道路中某个LaneSection内的一条车道，提供中心线采样与横向范围判断
// 说明：车道ID的符号表示相对参考线的行驶方向与所在侧，负数在参考线右侧、沿参考线正向行驶，
// 正数在左侧、逆参考线方向行驶；parentRoad是非拥有的反向引用，地图加载后不再修改
type Lane struct {
	id     int32
	width  float64
	tInner float64 // 靠近参考线一侧的横向偏移（有符号）
	tOuter float64 // 远离参考线一侧的横向偏移（有符号）

	parentRoad entity.IRoad        // 所在道路
	section    entity.ILaneSection // 所在车道段
}

// New 创建并初始化一个新的Lane实例
// 功能：根据基础数据与内侧累计宽度计算车道横向范围
// 参数：base-基础Lane数据，inner-参考线到本车道内侧边界的距离（同侧更靠内车道宽度之和）
// 返回：初始化完成的Lane实例
func New(base *input.Lane, inner float64) *Lane {
	l := &Lane{
		id:    base.ID,
		width: base.Width,
	}
	sign := 1.0
	if l.id < 0 {
		sign = -1.0
	}
	l.tInner = sign * inner
	l.tOuter = sign * (inner + l.width)
	return l
}

// 数据初始化

// SetParentRoadWhenInit 设置lane所在road与lane section
func (l *Lane) SetParentRoadWhenInit(parent entity.IRoad, section entity.ILaneSection) {
	l.parentRoad = parent
	l.section = section
}

// 静态数据

func (l *Lane) String() string {
	if l.parentRoad == nil {
		return fmt.Sprintf("Lane %d", l.id)
	}
	return fmt.Sprintf("Lane %s:%d", l.parentRoad.ID(), l.id)
}

// 获取Lane ID
func (l *Lane) ID() int32 {
	return l.id
}

// 获取Lane宽度
func (l *Lane) Width() float64 {
	return l.width
}

// 获取Lane中心线的横向偏移
func (l *Lane) CenterOffset() float64 {
	return (l.tInner + l.tOuter) / 2
}

// 检查横向偏移t是否落在Lane的横向范围内（内侧边界包含，外侧边界包含）
func (l *Lane) ContainsOffset(t float64) bool {
	low, high := math.Min(l.tInner, l.tOuter), math.Max(l.tInner, l.tOuter)
	return t >= low && t <= high
}

// 获取Lane所在的Road
func (l *Lane) ParentRoad() entity.IRoad {
	return l.parentRoad
}

// 获取Lane所在的LaneSection
func (l *Lane) Section() entity.ILaneSection {
	return l.section
}

// 是否沿参考线正向行驶
func (l *Lane) Forward() bool {
	return l.id < 0
}

// CenterLine 采样车道中心线
// 功能：在参考线[sStart, sEnd]范围内按固定步长采样，并横向偏移到车道中心
// 参数：sStart,sEnd-参考线纵向坐标范围，step-采样步长，reversed-是否倒序输出
// 返回：三维点列，点数为floor((sEnd-sStart)/step)+1，若末端未落在采样点上则额外补上sEnd处的点
// 算法说明：
// 1. s依次取sStart, sStart+step, ...，不超过sEnd
// 2. 若最后一个采样点与sEnd的距离大于容差，补上sEnd处的点
// 3. 每个s取参考线上的点并按车道中心偏移平移
// 4. reversed为true时整体倒序，得到逆参考线方向的行驶顺序
func (l *Lane) CenterLine(sStart, sEnd, step float64, reversed bool) []r3.Vector {
	if l.parentRoad == nil {
		log.Panicf("%v: not in road", l)
	}
	if step <= 0 {
		log.Panicf("%v: bad sampling step %v", l, step)
	}
	if sEnd < sStart {
		return nil
	}
	refLine := l.parentRoad.RefLine()
	offset := l.CenterOffset()
	n := int(math.Floor((sEnd - sStart) / step))
	points := make([]r3.Vector, 0, n+2)
	for i := 0; i <= n; i++ {
		points = append(points, refLine.OffsetPositionAt(sStart+float64(i)*step, offset))
	}
	if sEnd-(sStart+float64(n)*step) > endEpsilon {
		points = append(points, refLine.OffsetPositionAt(sEnd, offset))
	}
	if reversed {
		lo.Reverse(points)
	}
	return points
}
