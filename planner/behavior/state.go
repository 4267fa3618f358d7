package behavior

// State 行为状态
type State int32

const (
	LaneKeeping    State = iota // 车道保持（初始状态）
	Stopping                    // 减速停车
	Stopped                     // 已停车
	InIntersection              // 路口内
)

func (s State) String() string {
	switch s {
	case LaneKeeping:
		return "LANEKEEPING"
	case Stopping:
		return "STOPPING"
	case Stopped:
		return "STOPPED"
	case InIntersection:
		return "IN_INTERSECTION"
	default:
		return "UNKNOWN"
	}
}
