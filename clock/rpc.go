package clock

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ClockServiceName = "clock.v1.ClockService"
	ClockServiceNow  = "/" + ClockServiceName + "/Now"
)

// Register 将ClockService注册到HTTP路由
// 功能：注册时钟服务的RPC处理器
// 参数：mux-HTTP路由，opts-connect处理器选项
func (c *Clock) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(ClockServiceNow, connect.NewUnaryHandler(ClockServiceNow, c.Now, opts...))
}

// Now 获取当前规划时间
// 功能：RPC接口，返回当前规划步数与时间{"step": ..., "t": ...}
func (c *Clock) Now(ctx context.Context, in *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	s := c.Snapshot()
	res, err := structpb.NewStruct(map[string]any{
		"step": s.Step,
		"t":    s.T,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}
