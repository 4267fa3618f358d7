package task

import (
	"net/http"
	"sync/atomic"
	"time"

	"connectrpc.com/connect"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/clock"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/entity/junction"
	"github.com/tsinghua-fib-lab/navigator-planner/entity/road"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/behavior"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/localize"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/path"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/route"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/scan"
	"github.com/tsinghua-fib-lab/navigator-planner/telemetry"
	"github.com/tsinghua-fib-lab/navigator-planner/transport"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/config"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/container"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/input"
)

// Context 规划任务上下文
// 功能：包含一次规划任务的所有组件和状态
// 说明：路线选择与行为状态只由tick所在的goroutine修改；遥测、激活路径与状态快照通过Cell在goroutine间传递
type Context struct {
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 用于初始化的输入
	initRes *input.Input

	// Road管理器
	roadManager *road.RoadManager
	// Junction管理器
	junctionManager *junction.JunctionManager

	// 路线采样器
	sampler *path.Sampler
	// 路线表
	routes *route.Table
	// 车道定位器
	localizer *localize.Localizer
	// 路口前视扫描器
	scanner *scan.Scanner
	// 行为状态机
	machine *behavior.Machine
	// 障碍物信号来源
	obstacles behavior.ObstacleSource

	// 遥测存储
	telemetry *telemetry.Store
	// 遥测模拟器，未启用时为nil
	simulator *telemetry.Simulator
	// 当前激活路径，供其他goroutine读取
	activePath container.Cell[*path.Path]
	// 最近一次定位结果，定位失败时为nil
	located *localize.Result
	// 状态快照，供RPC读取
	status container.Cell[transport.Status]

	// 输出
	stamper   *transport.Stamper
	latest    *transport.LatestPublisher
	publisher transport.Publisher
	service   *transport.PlannerService
}

// NewContext 创建新的规划任务上下文
// 功能：加载路网地图并创建所有组件
// 参数：cacheDir-地图缓存目录，rc-运行时配置，publishers-除内置LatestPublisher外的其他输出
// 返回：创建完成的Context，需要调用Init完成初始化
func NewContext(cacheDir string, rc *config.RuntimeConfig, publishers ...transport.Publisher) *Context {
	return NewContextWithInput(input.Init(rc.All, cacheDir), rc, publishers...)
}

// NewContextWithInput 使用已加载的输入创建规划任务上下文
func NewContextWithInput(in *input.Input, rc *config.RuntimeConfig, publishers ...transport.Publisher) *Context {
	ctx := &Context{
		runtimeConfig:   rc,
		initRes:         in,
		clock:           clock.New(rc.C.Step),
		roadManager:     road.NewManager(),
		junctionManager: junction.NewManager(),
		obstacles:       behavior.NoObstacles{},
		telemetry:       telemetry.NewStore(),
		stamper:         transport.NewStamper(),
		latest:          transport.NewLatestPublisher(),
	}
	ctx.publisher = append(transport.MultiPublisher{ctx.latest}, publishers...)
	ctx.service = transport.NewPlannerService(ctx.latest, ctx, ctx)
	return ctx
}

// SetObstacleSource 替换障碍物信号来源，必须在Init之前调用
func (ctx *Context) SetObstacleSource(src behavior.ObstacleSource) {
	ctx.obstacles = src
}

// Init 初始化
// 功能：构建路网、采样全部路线并创建规划组件
// 算法说明：
// 1. 初始化Road与Junction管理器
// 2. 按配置采样全部路线，建立路线表
// 3. 定位允许的道路集合未配置时，取全部路线经过的道路
// 4. 创建定位器、扫描器、状态机与遥测模拟器
// 说明：任何初始化错误都是启动期致命错误，直接panic
func (ctx *Context) Init() {
	ctx.clock.Init()
	p := ctx.runtimeConfig.P

	if err := ctx.roadManager.Init(ctx.initRes.Map.Roads); err != nil {
		log.Panicf("init roads: %v", err)
	}
	ctx.junctionManager.Init(ctx.roadManager, p.ZoneMaxSpeed)

	specs := lo.Map(p.Routes, func(r config.Route, _ int) path.RouteSpec {
		return path.FromConfig(r)
	})
	ctx.sampler = path.NewSampler(ctx.roadManager, p.SampleStep)
	routes, err := route.Build(ctx.sampler, specs, p.InitialRoute, p.Triggers)
	if err != nil {
		log.Panicf("init routes: %v", err)
	}
	ctx.routes = routes
	for roadID := range p.Triggers {
		if _, err := ctx.roadManager.GetOrError(roadID); err != nil {
			log.Warnf("route trigger will never fire: %v", err)
		}
	}
	ctx.activePath.Store(ctx.routes.ActivePath())

	allowed := p.AllowedRoads
	if len(allowed) == 0 {
		allowed = lo.Uniq(lo.FlatMap(specs, func(s path.RouteSpec, _ int) []string {
			return s.RoadIDs()
		}))
	}
	ctx.localizer = localize.New(ctx.roadManager, allowed)
	ctx.scanner = scan.New(ctx.roadManager, p.ScanHorizon)
	ctx.machine = behavior.New(behavior.Config{
		StopSpeed:      p.StopSpeed,
		StopAtJunction: p.StopAtJunction,
	}, ctx.obstacles, ctx.junctionManager)
	behaviorState.Set(float64(ctx.machine.State()))

	if sim := ctx.runtimeConfig.All.Telemetry.Simulate; sim.Enable {
		ctx.simulator = telemetry.NewSimulator(sim, ctx, ctx)
	}
	log.Infof(
		"planner ready: %d routes %v, initial %s, lookahead %.1fm, localize on %d roads",
		len(specs), ctx.routes.Names(), ctx.routes.ActiveName(),
		p.SampleStep*float64(p.ScanHorizon), len(allowed),
	)
}

// Register 将所有RPC服务注册到HTTP路由
func (ctx *Context) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	ctx.clock.Register(mux, opts...)
	ctx.junctionManager.Register(mux, opts...)
	ctx.service.Register(mux, opts...)
}

// UpdatePose 写入遥测位姿，可在任意goroutine中调用
func (ctx *Context) UpdatePose(pose entity.CarPose) {
	ctx.telemetry.UpdatePose(pose)
}

// ActivePath 当前激活路径的只读快照，可在任意goroutine中调用
func (ctx *Context) ActivePath() (*path.Path, bool) {
	return ctx.activePath.Load()
}

// Status 最近一次tick后的状态快照，可在任意goroutine中调用
func (ctx *Context) Status() (transport.Status, bool) {
	return ctx.status.Load()
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Latest() *transport.LatestPublisher {
	return ctx.latest
}

func (ctx *Context) RunID() string {
	return ctx.stamper.RunID()
}

// maxAge 遥测最大允许时延，0表示不检查
func (ctx *Context) maxAge() time.Duration {
	return seconds(ctx.runtimeConfig.All.Telemetry.MaxAge)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Close 请求结束Run循环
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}

func newTicker(d time.Duration) *time.Ticker {
	if d <= 0 {
		log.Panicf("bad tick interval %v", d)
	}
	return time.NewTicker(d)
}
