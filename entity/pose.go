package entity

import (
	"fmt"
	"math"
	"time"
)

// CarPose 车辆位姿快照
// 功能：规划各阶段之间传递的不可变值对象
type CarPose struct {
	X       float64 // x坐标
	Y       float64 // y坐标
	Heading float64 // 朝向（弧度）
	XV      float64 // x方向速度
	YV      float64 // y方向速度
}

// Speed 速度大小
func (p CarPose) Speed() float64 {
	return math.Hypot(p.XV, p.YV)
}

func (p CarPose) String() string {
	return fmt.Sprintf("CarPose{x=%.2f, y=%.2f, heading=%.3f, v=%.2f}", p.X, p.Y, p.Heading, p.Speed())
}

// VehicleState 最近一次收到的车辆状态
// 功能：由遥测回调整体写入，由周期tick整体读取，不会出现半写的记录
type VehicleState struct {
	X, Y     float64   // 位置
	Heading  float64   // 朝向
	Speed    float64   // 速度大小（非负）
	Received time.Time // 接收时间
}

// NewVehicleState 由位姿快照生成车辆状态
func NewVehicleState(pose CarPose, received time.Time) VehicleState {
	return VehicleState{
		X:        pose.X,
		Y:        pose.Y,
		Heading:  pose.Heading,
		Speed:    pose.Speed(),
		Received: received,
	}
}
