package task

import (
	"context"
	"errors"
	"flag"

	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/behavior"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/localize"
	"github.com/tsinghua-fib-lab/navigator-planner/telemetry"
	"github.com/tsinghua-fib-lab/navigator-planner/transport"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// latestState 读取本次tick使用的车辆状态
// 返回：车辆状态与是否可用；不可用时记录tick结果
func (ctx *Context) latestState(kind string) (entity.VehicleState, bool) {
	state, err := ctx.telemetry.Latest(ctx.maxAge())
	switch {
	case err == nil:
		return state, true
	case errors.Is(err, telemetry.ErrNoTelemetry):
		log.Debugf("%s tick: waiting for telemetry", kind)
		tickTotal.WithLabelValues(kind, resultNoTelemetry).Inc()
	default:
		log.Warnf("%s tick skipped: %v", kind, err)
		tickTotal.WithLabelValues(kind, resultStale).Inc()
	}
	return state, false
}

// prepare 准备阶段，每个规划步执行一次
// 功能：推进时钟，定期输出心跳日志
func (ctx *Context) prepare() {
	ctx.clock.Next()
	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		paths, zones := ctx.latest.Published()
		log.Infof(
			"STEP: %d(%v) route=%s state=%v published paths=%d zones=%d telemetry=%d",
			ctx.clock.InternalStep, ctx.clock,
			ctx.routes.ActiveName(), ctx.machine.State(),
			paths, zones, ctx.telemetry.Received(),
		)
	}
}

// pathTick 规划tick：定位、路线切换与路径发布
// 功能：根据车辆所在道路应用路线切换规则，并发布当前激活路径
// 返回：是否发布了路径
// 算法说明：
// 1. 从未收到遥测或遥测过期时跳过本次tick
// 2. 在允许的道路集合内定位车辆，定位失败时跳过本次tick
// 3. 以当前道路调用路线表的切换规则，切换后更新激活路径快照
// 4. 发布激活路径
func (ctx *Context) pathTick() bool {
	state, ok := ctx.latestState(tickPath)
	if !ok {
		return false
	}
	res, err := ctx.localizer.Locate(state.X, state.Y)
	if err != nil {
		log.Warnf("path tick skipped: %v", err)
		tickTotal.WithLabelValues(tickPath, resultNotLocalized).Inc()
		ctx.located = nil
		ctx.updateStatus(state)
		return false
	}
	ctx.located = &res
	log.Debugf("located: %v", res)

	if ctx.routes.OnCurrentRoad(res.Road.ID()) {
		routeSwitchTotal.WithLabelValues(ctx.routes.ActiveName()).Inc()
		ctx.activePath.Store(ctx.routes.ActivePath())
	}
	ctx.publisher.PublishPath(transport.NewPathMessage(
		ctx.stamper.Next(ctx.clock.InternalStep), ctx.routes.ActivePath(),
	))
	tickTotal.WithLabelValues(tickPath, resultPublished).Inc()
	ctx.updateStatus(state)
	return true
}

// behaviorTick 行为tick：路口前视与状态机
// 功能：从车辆在激活路径上的最近点开始扫描路口，驱动状态机并发布警示区域
// 返回：是否发布了警示区域
func (ctx *Context) behaviorTick() bool {
	state, ok := ctx.latestState(tickBehavior)
	if !ok {
		return false
	}
	points := ctx.routes.ActivePath().Points
	start := localize.ClosestPointIndex(points, state.X, state.Y)
	res := ctx.scanner.Scan(points, start)
	scanJunctionCount.Observe(float64(len(res.Junctions)))

	out := ctx.machine.Step(behavior.Input{Speed: state.Speed, Scan: res})
	if out.Transitioned {
		stateTransitionTotal.WithLabelValues(out.Previous.String(), out.State.String()).Inc()
	}
	behaviorState.Set(float64(out.State))

	ctx.publisher.PublishZones(transport.ZonesMessage{
		Header: ctx.stamper.Next(ctx.clock.InternalStep),
		State:  out.State.String(),
		Zones:  out.Zones,
	})
	tickTotal.WithLabelValues(tickBehavior, resultPublished).Inc()
	ctx.updateStatus(state)
	return true
}

// updateStatus 更新供RPC读取的状态快照
func (ctx *Context) updateStatus(state entity.VehicleState) {
	status := transport.Status{
		Step:              ctx.clock.InternalStep,
		Route:             ctx.routes.ActiveName(),
		State:             ctx.machine.State().String(),
		Speed:             state.Speed,
		TelemetryReceived: ctx.telemetry.Received(),
	}
	if res := ctx.located; res != nil {
		status.Localized = true
		status.Road = res.Road.ID()
		status.Lane = res.Lane.ID()
		status.S = res.S
		if res.Road.IsJunction() {
			if j, err := ctx.junctionManager.GetOrError(res.Road.JunctionID()); err == nil {
				status.InJunctionZone = j.Contains(state.X, state.Y)
			}
		}
	}
	ctx.status.Store(status)
}

// Run 运行
// 功能：按两个固定间隔分别执行规划tick与行为tick，直到runCtx被取消、Close被调用或到达结束步
// 说明：两个tick在同一个goroutine中执行；遥测模拟器（若启用）在独立goroutine中按规划间隔推进
func (ctx *Context) Run(runCtx context.Context) {
	runCtx, cancel := context.WithCancel(runCtx)
	defer cancel()

	c := ctx.runtimeConfig.C
	pathTicker := newTicker(seconds(c.Step.Interval))
	defer pathTicker.Stop()
	behaviorTicker := newTicker(seconds(c.BehaviorInterval))
	defer behaviorTicker.Stop()

	if ctx.simulator != nil {
		go ctx.simulator.Run(runCtx, seconds(c.Step.Interval))
	}
	log.Infof("planner started (run %s)", ctx.RunID())
	for !ctx.closed.Load() {
		select {
		case <-runCtx.Done():
			log.Infof("planner stopped: %v", runCtx.Err())
			return
		case <-pathTicker.C:
			ctx.prepare()
			ctx.pathTick()
			if ctx.clock.Done() {
				log.Infof("planner complete at step %d", ctx.clock.InternalStep)
				return
			}
		case <-behaviorTicker.C:
			ctx.behaviorTick()
		}
	}
	log.Infof("planner closed")
}
