package behavior

// ObstacleSource 障碍物信号来源
// 说明：感知模块接入时替换实现，状态机本身不需要修改
type ObstacleSource interface {
	// 当前是否存在障碍物；返回错误时状态机按存在障碍物处理
	ObstaclesPresent() (bool, error)
}

// NoObstacles 始终报告无障碍物
type NoObstacles struct{}

func (NoObstacles) ObstaclesPresent() (bool, error) {
	return false, nil
}
