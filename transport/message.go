// 规划结果的输出消息、发布接口与RPC服务
package transport

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/path"
)

const (
	FrameMap = "map" // 输出坐标系
)

// Header 消息头
type Header struct {
	RunID string    // 本次运行的唯一ID
	Seq   uint64    // 同一运行内的消息序号，从1开始递增
	Step  int32     // 规划步数
	Stamp time.Time // 生成时间
	Frame string    // 坐标系
}

// Stamper 消息头生成器
// 功能：为同一次运行内的所有输出消息生成带递增序号的消息头，可被多个goroutine并发调用
type Stamper struct {
	runID string
	seq   atomic.Uint64
	now   func() time.Time
}

// NewStamper 创建消息头生成器，运行ID为随机UUID
func NewStamper() *Stamper {
	return &Stamper{runID: uuid.NewString(), now: time.Now}
}

// RunID 本次运行的唯一ID
func (s *Stamper) RunID() string {
	return s.runID
}

// Next 生成下一个消息头
func (s *Stamper) Next(step int32) Header {
	return Header{
		RunID: s.runID,
		Seq:   s.seq.Add(1),
		Step:  step,
		Stamp: s.now(),
		Frame: FrameMap,
	}
}

// Color 可视化颜色，分量范围[0,1]
type Color struct {
	R, G, B float64
}

// CostColor 由路径代价计算可视化颜色
// 功能：安全代价越高越红，路由代价越高越不绿
// 算法说明：
// r = 1/(1+exp(-safety/5))
// g = (1/(1+exp(routing/2)))^2
// b = 0
func CostColor(routingCost, safetyCost float64) Color {
	g := 1 / (1 + math.Exp(routingCost/2))
	return Color{
		R: 1 / (1 + math.Exp(-safetyCost/5)),
		G: g * g,
		B: 0,
	}
}

// PathMessage 路径消息
type PathMessage struct {
	Header Header
	Path   *path.Path
	Color  Color
}

// NewPathMessage 创建路径消息并计算可视化颜色
func NewPathMessage(header Header, p *path.Path) PathMessage {
	return PathMessage{
		Header: header,
		Path:   p,
		Color:  CostColor(p.RoutingCost, p.SafetyCost),
	}
}

// ZonesMessage 警示区域消息
type ZonesMessage struct {
	Header Header
	State  string        // 行为状态
	Zones  []entity.Zone // 警示区域，可能为空
}
