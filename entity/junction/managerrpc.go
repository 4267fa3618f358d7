package junction

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	JunctionServiceName      = "junction.v1.JunctionService"
	JunctionServiceGetZone   = "/" + JunctionServiceName + "/GetZone"
	JunctionServiceListZones = "/" + JunctionServiceName + "/ListZones"
)

// Register 将Junction管理器注册到HTTP路由
// 功能：将Junction管理器注册为RPC服务，提供远程查询路口警示区域的接口
// 参数：mux-HTTP路由，opts-connect处理器选项
// 说明：请求与响应使用structpb.Struct，无需生成代码即可支持gRPC/Connect协议
func (m *JunctionManager) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(JunctionServiceGetZone, connect.NewUnaryHandler(JunctionServiceGetZone, m.GetZone, opts...))
	mux.Handle(JunctionServiceListZones, connect.NewUnaryHandler(JunctionServiceListZones, m.ListZones, opts...))
}

// GetZone RPC接口：获取指定Junction的警示区域
// 功能：请求体为{"junction_id": "..."}，返回该路口的警示区域
// 说明：路口不存在时返回InvalidArgument错误
func (m *JunctionManager) GetZone(
	ctx context.Context, in *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	id := in.Msg.GetFields()["junction_id"].GetStringValue()
	j, ok := m.data[id]
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("junction id does not exist"))
	}
	res, err := structpb.NewStruct(j.zone.Fields())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// ListZones RPC接口：获取全部Junction的警示区域
func (m *JunctionManager) ListZones(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	res, err := structpb.NewStruct(map[string]any{
		"zones": lo.Map(m.junctions, func(j *Junction, _ int) any {
			return j.zone.Fields()
		}),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}
