package telemetry

import (
	"context"
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/localize"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/path"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/randengine"
)

const (
	defaultSimulateSpeed = 10.0
)

// Sink 遥测接收方
type Sink interface {
	UpdatePose(pose entity.CarPose)
}

// PathSource 提供当前激活路径的只读快照
type PathSource interface {
	ActivePath() (*path.Path, bool)
}

// Simulator 遥测模拟器
// 功能：在没有真实车辆时，让虚拟车辆沿当前激活路径行驶，按给定速度曲线生成带噪声的位姿
// 说明：激活路径改变时，从新路径上距离当前位置最近的点继续行驶；到达路径末端后停车
type Simulator struct {
	source PathSource
	sink   Sink

	speeds []float64
	noise  float64
	engine *randengine.Engine

	pathName string  // 正在行驶的路径名
	index    int     // 当前所在线段起点下标
	offset   float64 // 在当前线段上已行驶的距离
	step     int     // 已模拟的步数
	x, y     float64 // 当前（无噪声）位置
}

// NewSimulator 创建遥测模拟器
// 参数：c-模拟配置，source-激活路径来源，sink-遥测接收方
func NewSimulator(c config.Simulate, source PathSource, sink Sink) *Simulator {
	speeds := c.Speeds
	if len(speeds) == 0 {
		speeds = []float64{defaultSimulateSpeed}
	}
	return &Simulator{
		source: source,
		sink:   sink,
		speeds: speeds,
		noise:  c.NoiseStd,
		engine: randengine.New(c.Seed),
	}
}

// speed 当前步的目标速度，速度曲线用完后保持最后一个值
func (s *Simulator) speed() float64 {
	if s.step < len(s.speeds) {
		return s.speeds[s.step]
	}
	return s.speeds[len(s.speeds)-1]
}

// Step 推进一步并向接收方写入位姿
// 功能：沿路径前进speed*dt的距离，计算位置、朝向与速度，叠加位置噪声
// 参数：dt-步长（秒）
// 返回：生成的位姿与是否生成（路径不可用时不生成）
// 算法说明：
// 1. 激活路径名与上一步不同时，用最近点重新定位下标
// 2. 沿折线逐段消耗前进距离，到达末端时速度置0
// 3. 朝向取当前线段方向，速度分解到xy
func (s *Simulator) Step(dt float64) (entity.CarPose, bool) {
	p, ok := s.source.ActivePath()
	if !ok || p.Len() < 2 {
		return entity.CarPose{}, false
	}
	points := p.Points
	if p.Name != s.pathName {
		if s.pathName == "" {
			s.index = 0
		} else {
			s.index = max(0, min(localize.ClosestPointIndex(points, s.x, s.y), len(points)-2))
		}
		s.offset = 0
		log.Infof("simulator: follow path %s from point %d", p.Name, s.index)
		s.pathName = p.Name
	}
	speed := s.speed()
	s.step++

	remain := speed * dt
	for remain > 0 && s.index < len(points)-1 {
		seg := segmentLength(points, s.index) - s.offset
		if remain < seg {
			s.offset += remain
			remain = 0
		} else {
			remain -= seg
			s.index++
			s.offset = 0
		}
	}
	if s.index >= len(points)-1 {
		s.index = len(points) - 2
		s.offset = segmentLength(points, s.index)
		speed = 0
	}

	a, b := points[s.index], points[s.index+1]
	heading := math.Atan2(b.Y-a.Y, b.X-a.X)
	k := 0.0
	if l := segmentLength(points, s.index); l > 0 {
		k = s.offset / l
	}
	s.x, s.y = a.X+(b.X-a.X)*k, a.Y+(b.Y-a.Y)*k
	pose := entity.CarPose{
		X:       s.x + s.engine.Gaussian(s.noise),
		Y:       s.y + s.engine.Gaussian(s.noise),
		Heading: heading,
		XV:      speed * math.Cos(heading),
		YV:      speed * math.Sin(heading),
	}
	s.sink.UpdatePose(pose)
	return pose, true
}

// Run 按固定间隔推进模拟器，直到ctx被取消
func (s *Simulator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step(interval.Seconds())
		}
	}
}

func segmentLength(points []r3.Vector, i int) float64 {
	return math.Hypot(points[i+1].X-points[i].X, points[i+1].Y-points[i].Y)
}
