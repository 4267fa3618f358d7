package transport

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	PlannerServiceName           = "planner.v1.PlannerService"
	PlannerServiceGetPath        = "/" + PlannerServiceName + "/GetPath"
	PlannerServiceGetZones       = "/" + PlannerServiceName + "/GetZones"
	PlannerServiceGetStatus      = "/" + PlannerServiceName + "/GetStatus"
	PlannerServiceReportOdometry = "/" + PlannerServiceName + "/ReportOdometry"
)

// Status 规划器状态快照
type Status struct {
	Step              int32   // 规划步数
	Route             string  // 当前激活路线
	State             string  // 行为状态
	Localized         bool    // 最近一次规划tick是否定位成功
	Road              string  // 当前道路
	Lane              int32   // 当前车道
	S                 float64 // 在当前道路参考线上的纵向坐标
	Speed             float64 // 当前速度
	InJunctionZone    bool    // 是否位于路口警示区域内
	TelemetryReceived uint64  // 已收到的遥测次数
}

// StatusReader 读取规划器状态快照
type StatusReader interface {
	Status() (Status, bool)
}

// TelemetrySink 接收车辆遥测
type TelemetrySink interface {
	UpdatePose(pose entity.CarPose)
}

// PlannerService 规划器RPC服务
// 功能：查询最近发布的路径、警示区域与规划器状态，接收外部上报的车辆里程计
// 说明：请求与响应使用structpb/emptypb，无需生成代码即可支持gRPC/Connect协议
type PlannerService struct {
	latest *LatestPublisher
	status StatusReader
	sink   TelemetrySink
}

// NewPlannerService 创建规划器RPC服务
func NewPlannerService(latest *LatestPublisher, status StatusReader, sink TelemetrySink) *PlannerService {
	return &PlannerService{latest: latest, status: status, sink: sink}
}

// Register 将PlannerService注册到HTTP路由
func (s *PlannerService) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(PlannerServiceGetPath, connect.NewUnaryHandler(PlannerServiceGetPath, s.GetPath, opts...))
	mux.Handle(PlannerServiceGetZones, connect.NewUnaryHandler(PlannerServiceGetZones, s.GetZones, opts...))
	mux.Handle(PlannerServiceGetStatus, connect.NewUnaryHandler(PlannerServiceGetStatus, s.GetStatus, opts...))
	mux.Handle(PlannerServiceReportOdometry, connect.NewUnaryHandler(PlannerServiceReportOdometry, s.ReportOdometry, opts...))
}

func newStructResponse(fields map[string]any) (*connect.Response[structpb.Struct], error) {
	res, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// GetPath RPC接口：获取最近一次发布的路径
// 说明：尚未发布过路径时返回Unavailable错误
func (s *PlannerService) GetPath(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	msg, ok := s.latest.LatestPath()
	if !ok {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("no path published yet"))
	}
	return newStructResponse(pathFields(msg))
}

// GetZones RPC接口：获取最近一次发布的警示区域
func (s *PlannerService) GetZones(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	msg, ok := s.latest.LatestZones()
	if !ok {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("no zones published yet"))
	}
	return newStructResponse(zonesFields(msg))
}

// GetStatus RPC接口：获取规划器状态快照
func (s *PlannerService) GetStatus(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	status, ok := s.status.Status()
	if !ok {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("planner has not ticked yet"))
	}
	return newStructResponse(statusFields(status))
}

// ReportOdometry RPC接口：上报车辆里程计
// 功能：请求体为{"x", "y", "heading", "xv", "yv"}，x与y必填，写入遥测存储
func (s *PlannerService) ReportOdometry(
	ctx context.Context, in *connect.Request[structpb.Struct],
) (*connect.Response[emptypb.Empty], error) {
	pose, err := poseFromStruct(in.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	s.sink.UpdatePose(pose)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
