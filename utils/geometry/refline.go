// 道路参考线几何，基于orb的二维折线与r3的三维点
package geometry

import (
	"errors"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"
)

var (
	ErrTooFewPoints = errors.New("reference line needs at least 2 points")
	ErrZeroLength   = errors.New("reference line has zero length")
)

// RefLine 道路参考线
// 功能：表示道路的几何骨架，支持按纵向坐标s取点、最近点匹配与横向偏移
// 说明：xy部分保存为orb.LineString，z单独保存，s为沿xy折线的累计长度
type RefLine struct {
	line       orb.LineString // 参考线xy折线
	z          []float64      // 每个折线点的高程
	lengths    []float64      // 每个折线点对应的累计长度
	directions []float64      // 每一段折线的方向（atan2）
	bound      orb.Bound      // 外包框
}

// NewRefLine 根据三维点列创建参考线
// 功能：计算累计长度、每段方向与外包框
// 参数：points-按行驶正方向排列的参考线点
// 返回：参考线与错误信息（点数不足或长度为0时返回错误）
// 说明：相邻的重复点会被去除，避免出现零长度线段
func NewRefLine(points []r3.Vector) (*RefLine, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	l := &RefLine{
		line:       make(orb.LineString, 0, len(points)),
		z:          make([]float64, 0, len(points)),
		lengths:    make([]float64, 0, len(points)),
		directions: make([]float64, 0, len(points)-1),
	}
	for _, p := range points {
		cur := orb.Point{p.X, p.Y}
		if n := len(l.line); n > 0 {
			d := planar.Distance(l.line[n-1], cur)
			if d == 0 {
				continue
			}
			prev := l.line[n-1]
			l.lengths = append(l.lengths, l.lengths[n-1]+d)
			l.directions = append(l.directions, math.Atan2(cur[1]-prev[1], cur[0]-prev[0]))
		} else {
			l.lengths = append(l.lengths, 0)
		}
		l.line = append(l.line, cur)
		l.z = append(l.z, p.Z)
	}
	if len(l.line) < 2 {
		return nil, ErrZeroLength
	}
	l.bound = l.line.Bound()
	return l, nil
}

// Length 获取参考线长度
func (l *RefLine) Length() float64 {
	return l.lengths[len(l.lengths)-1]
}

// Bound 获取参考线外包框
func (l *RefLine) Bound() orb.Bound {
	return l.bound
}

// Points 获取参考线的三维点列
func (l *RefLine) Points() []r3.Vector {
	return lo.Map(l.line, func(p orb.Point, i int) r3.Vector {
		return r3.Vector{X: p[0], Y: p[1], Z: l.z[i]}
	})
}

// segmentIndex 返回s所在线段的起点下标
func (l *RefLine) segmentIndex(s float64) int {
	i := sort.SearchFloat64s(l.lengths, s)
	if i == 0 {
		return 0
	}
	if i >= len(l.lengths) {
		return len(l.lengths) - 2
	}
	return i - 1
}

// PositionAt 将纵向坐标s转换为三维坐标
// 功能：在参考线上按s线性插值得到点坐标
// 参数：s-纵向坐标，超出[0, Length]时截断
// 返回：插值得到的三维点
func (l *RefLine) PositionAt(s float64) r3.Vector {
	s = lo.Clamp(s, 0, l.Length())
	i := l.segmentIndex(s)
	sLow, sHigh := l.lengths[i], l.lengths[i+1]
	k := (s - sLow) / (sHigh - sLow)
	a, b := l.line[i], l.line[i+1]
	return r3.Vector{
		X: a[0] + (b[0]-a[0])*k,
		Y: a[1] + (b[1]-a[1])*k,
		Z: l.z[i] + (l.z[i+1]-l.z[i])*k,
	}
}

// DirectionAt 获取s处参考线的切向角度
func (l *RefLine) DirectionAt(s float64) float64 {
	return l.directions[l.segmentIndex(lo.Clamp(s, 0, l.Length()))]
}

// OffsetPositionAt 获取s处横向偏移t后的坐标（左正右负）
func (l *RefLine) OffsetPositionAt(s, t float64) r3.Vector {
	pos := l.PositionAt(s)
	dir := l.DirectionAt(s)
	return r3.Vector{
		X: pos.X - math.Sin(dir)*t,
		Y: pos.Y + math.Cos(dir)*t,
		Z: pos.Z,
	}
}

// Projection 最近点投影结果
type Projection struct {
	S      float64 // 纵向坐标
	T      float64 // 横向有符号距离，左正右负
	Inside bool    // 垂足是否落在参考线首尾之间
}

// Project 将xy坐标投影到参考线上
// 功能：找出参考线上距离点最近的位置，返回纵向坐标与横向有符号距离
// 参数：x,y-查询点坐标
// 返回：投影结果
// 算法说明：
// 1. 逐段计算点到线段的平方距离，只在严格更小时更新最近线段
// 2. 在最近线段上计算投影比例k并截断到[0,1]
// 3. s = 线段起点累计长度 + k*线段长度，t的符号由叉积决定
// 4. 当最近位置位于首点之前或末点之后时Inside为false
func (l *RefLine) Project(x, y float64) Projection {
	p := orb.Point{x, y}
	best, bestD2 := 0, math.Inf(1)
	for i := 0; i+1 < len(l.line); i++ {
		if d2 := planar.DistanceFromSegmentSquared(l.line[i], l.line[i+1], p); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	a, b := l.line[best], l.line[best+1]
	abx, aby := b[0]-a[0], b[1]-a[1]
	apx, apy := x-a[0], y-a[1]
	raw := (apx*abx + apy*aby) / (abx*abx + aby*aby)
	k := lo.Clamp(raw, 0, 1)
	inside := true
	if (best == 0 && raw < 0) || (best == len(l.line)-2 && raw > 1) {
		inside = false
	}
	t := math.Sqrt(bestD2)
	if abx*apy-aby*apx < 0 {
		t = -t
	}
	return Projection{
		S:      l.lengths[best] + k*(l.lengths[best+1]-l.lengths[best]),
		T:      t,
		Inside: inside,
	}
}

// Match 计算点在参考线上的纵向坐标s
func (l *RefLine) Match(x, y float64) float64 {
	return l.Project(x, y).S
}
