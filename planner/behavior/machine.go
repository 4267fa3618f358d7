// 四状态行为状态机
package behavior

import (
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/scan"
)

// Config 状态机参数
type Config struct {
	StopSpeed      float64 // 认为已停车的速度阈值
	StopAtJunction bool    // 前方有路口时是否从车道保持转入减速停车
}

// ZoneSource 按路口ID生成警示区域
type ZoneSource interface {
	Zones(ids []string) []entity.Zone
}

// Input 一次tick的输入
type Input struct {
	Speed float64     // 当前速度（非负）
	Scan  scan.Result // 本次路口前视扫描结果
}

// Output 一次tick的输出
type Output struct {
	State        State         // tick结束后的状态
	Previous     State         // tick开始时的状态
	Transitioned bool          // 本次tick是否发生状态转移
	Zones        []entity.Zone // 本次扫描到的每个路口的警示区域，可能为空
}

// Machine 行为状态机
// 功能：根据路口前视结果、车速与障碍物信号维护车辆的驾驶模式
// 说明：状态只能由行为tick所在的goroutine修改
type Machine struct {
	config    Config
	obstacles ObstacleSource
	zones     ZoneSource
	state     State
}

// New 创建行为状态机，初始状态为LaneKeeping
// 参数：config-状态机参数，obstacles-障碍物信号来源（nil时使用NoObstacles），zones-警示区域来源
func New(config Config, obstacles ObstacleSource, zones ZoneSource) *Machine {
	if obstacles == nil {
		obstacles = NoObstacles{}
	}
	return &Machine{
		config:    config,
		obstacles: obstacles,
		zones:     zones,
		state:     LaneKeeping,
	}
}

// State 当前状态
func (m *Machine) State() State {
	return m.state
}

// Step 执行一次状态转移判断
// 功能：每个tick最多发生一次状态转移，并输出本次tick的警示区域
// 参数：in-本次tick的车速与路口扫描结果
// 返回：转移结果与警示区域
// 算法说明：
// 1. LaneKeeping：前方有路口且StopAtJunction开启时转入Stopping
// 2. Stopping：车速降到阈值及以下时转入Stopped
// 3. Stopped：无障碍物时转入LaneKeeping，障碍物来源出错按有障碍物处理
// 4. InIntersection：没有自动退出条件
// 5. 无论是否转移，都为扫描到的每个路口生成警示区域
func (m *Machine) Step(in Input) Output {
	out := Output{Previous: m.state}
	switch m.state {
	case LaneKeeping:
		if in.Scan.JunctionAhead && m.config.StopAtJunction {
			m.state = Stopping
		}
	case Stopping:
		if m.reachedDesiredSpeed(in.Speed) {
			m.state = Stopped
		}
	case Stopped:
		if !m.obstaclesPresent() {
			m.state = LaneKeeping
		}
	case InIntersection:
	}
	out.State = m.state
	out.Transitioned = out.State != out.Previous
	if out.Transitioned {
		log.Infof("state %v -> %v (speed=%.2f)", out.Previous, out.State, in.Speed)
	}
	if m.zones != nil && len(in.Scan.Junctions) > 0 {
		out.Zones = m.zones.Zones(in.Scan.Junctions)
	} else {
		out.Zones = make([]entity.Zone, 0)
	}
	return out
}

// reachedDesiredSpeed 车速是否已降到停车阈值及以下
func (m *Machine) reachedDesiredSpeed(speed float64) bool {
	return speed <= m.config.StopSpeed
}

func (m *Machine) obstaclesPresent() bool {
	present, err := m.obstacles.ObstaclesPresent()
	if err != nil {
		log.Warnf("obstacle source failed, assume obstacles present: %v", err)
		return true
	}
	return present
}
