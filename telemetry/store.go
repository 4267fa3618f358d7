// 车辆遥测的接收与模拟
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/container"
)

var (
	ErrNoTelemetry = errors.New("no telemetry received yet")
	ErrStale       = errors.New("telemetry is stale")
)

// Store 车辆状态存储
// 功能：遥测回调写入最新位姿，规划tick读取完整的车辆状态快照
// 说明：单槽位、后写覆盖，写入和读取可以在不同goroutine中进行
type Store struct {
	cell container.Cell[entity.VehicleState]
	now  func() time.Time
}

// NewStore 创建车辆状态存储
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock 创建使用指定时间来源的车辆状态存储
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// UpdatePose 写入一次遥测位姿，并记录接收时间
func (s *Store) UpdatePose(pose entity.CarPose) {
	s.cell.Store(entity.NewVehicleState(pose, s.now()))
	log.Tracef("telemetry: %v", pose)
}

// Latest 读取最新车辆状态
// 参数：maxAge-允许的最大时延，0表示不检查
// 返回：车辆状态；从未收到遥测时返回ErrNoTelemetry，超过时延时返回包装了ErrStale的错误
func (s *Store) Latest(maxAge time.Duration) (entity.VehicleState, error) {
	state, ok := s.cell.Load()
	if !ok {
		return state, ErrNoTelemetry
	}
	if maxAge > 0 {
		if age := s.now().Sub(state.Received); age > maxAge {
			return state, fmt.Errorf("age %v > %v: %w", age, maxAge, ErrStale)
		}
	}
	return state, nil
}

// Received 已收到的遥测次数
func (s *Store) Received() uint64 {
	return s.cell.Version()
}
