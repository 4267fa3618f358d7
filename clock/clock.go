package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/container"
)

// Snapshot 时钟快照，供RPC等其他goroutine读取
type Snapshot struct {
	Step int32   // 当前步数
	T    float64 // 当前时间（秒）
}

// Clock 规划时钟
// 功能：管理规划tick的步数与时间推进
// 说明：只能由规划tick所在的goroutine推进，其他goroutine通过Now读取快照
type Clock struct {
	DT         float64 // 每个规划步的时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，规划区间[START, END)，小于等于START_STEP表示不限步数

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数

	snapshot container.Cell[Snapshot]
}

// New 根据配置创建新的时钟实例
// 功能：根据规划步配置初始化时钟信息
// 参数：stepConfig-控制步配置，包含起始步、总步数与时间间隔
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置内部步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
	c.publish()
}

// Next 推进一步
func (c *Clock) Next() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
	c.publish()
}

// Done 是否已到达结束步
func (c *Clock) Done() bool {
	return c.END_STEP > c.START_STEP && c.InternalStep >= c.END_STEP
}

func (c *Clock) publish() {
	c.snapshot.Store(Snapshot{Step: c.InternalStep, T: c.T})
}

// Snapshot 获取最近一次推进后的时钟快照（线程安全）
func (c *Clock) Snapshot() Snapshot {
	s, _ := c.snapshot.Load()
	return s
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	hour, minute, second := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, int(second))
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 功能：将当前时间分解为小时、分钟、秒三个部分
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
