package input

import "github.com/golang/geo/r3"

// Map 路网地图数据
// 功能：规划器使用的静态路网描述，可从YAML文件或MongoDB加载
type Map struct {
	Roads []*Road `yaml:"roads" bson:"roads"`
}

// Point 参考线上的点
type Point struct {
	X float64 `yaml:"x" bson:"x"`
	Y float64 `yaml:"y" bson:"y"`
	Z float64 `yaml:"z,omitempty" bson:"z,omitempty"`
}

// Vector 转换为r3.Vector
func (p Point) Vector() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// Lane 车道数据
type Lane struct {
	ID    int32   `yaml:"id" bson:"id"`       // 车道ID，负数位于参考线右侧
	Width float64 `yaml:"width" bson:"width"` // 车道宽度
}

// LaneSection 车道段数据
// 说明：End为0表示延伸到下一个LaneSection的起点或道路终点
type LaneSection struct {
	S0    float64 `yaml:"s0" bson:"s0"`
	End   float64 `yaml:"end,omitempty" bson:"end,omitempty"`
	Lanes []*Lane `yaml:"lanes" bson:"lanes"`
}

// Road 道路数据，MongoDB中每条道路一个文档
type Road struct {
	ID       string         `yaml:"id" bson:"id"`
	Junction string         `yaml:"junction,omitempty" bson:"junction,omitempty"` // 所属路口ID，空或"-1"表示非路口
	RefLine  []Point        `yaml:"ref_line" bson:"ref_line"`
	Sections []*LaneSection `yaml:"sections" bson:"sections"`
}
