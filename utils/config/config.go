package config

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/multierr"
)

const (
	defaultSampleStep       = 0.25
	defaultScanHorizon      = 400
	defaultStopSpeed        = 1.0
	defaultInterval         = 0.5
	defaultBehaviorInterval = 0.1
	defaultZoneMaxSpeed     = 5.0
)

// RuntimeConfig 运行时配置
// 功能：存储补全默认值并校验通过后的配置
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
	P   Planner // 规划配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：补全默认值并校验配置
// 参数：config-原始配置对象
// 返回：运行时配置指针与校验错误（包含全部问题）
// 算法说明：
// 1. 对未设置的采样步长、前视点数、停车阈值、tick间隔等填入默认值
// 2. 校验数值范围、路线名唯一、初始路线与切换规则引用的路线存在
// 3. 使用multierr合并所有错误，一次性报告
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	applyDefaults(&config)
	if err := Validate(config); err != nil {
		return nil, err
	}
	return &RuntimeConfig{
		All: config,
		C:   config.Control,
		P:   config.Planner,
	}, nil
}

func applyDefaults(c *Config) {
	if c.Planner.SampleStep == 0 {
		c.Planner.SampleStep = defaultSampleStep
	}
	if c.Planner.ScanHorizon == 0 {
		c.Planner.ScanHorizon = defaultScanHorizon
	}
	if c.Planner.StopSpeed == 0 {
		c.Planner.StopSpeed = defaultStopSpeed
	}
	if c.Planner.ZoneMaxSpeed == 0 {
		c.Planner.ZoneMaxSpeed = defaultZoneMaxSpeed
	}
	if c.Control.Step.Interval == 0 {
		c.Control.Step.Interval = defaultInterval
	}
	if c.Control.BehaviorInterval == 0 {
		c.Control.BehaviorInterval = defaultBehaviorInterval
	}
	if c.Planner.InitialRoute == "" && len(c.Planner.Routes) > 0 {
		c.Planner.InitialRoute = c.Planner.Routes[0].Name
	}
}

// Validate 校验配置
func Validate(c Config) (err error) {
	if c.Input.Map.File == "" && c.Input.URI == "" && !c.Input.Map.OnlyCache {
		err = multierr.Append(err, errors.New("input.map.file or input.uri must be specified"))
	}
	if c.Planner.SampleStep <= 0 {
		err = multierr.Append(err, fmt.Errorf("planner.sample_step must be positive, got %v", c.Planner.SampleStep))
	}
	if c.Planner.ScanHorizon <= 0 {
		err = multierr.Append(err, fmt.Errorf("planner.scan_horizon must be positive, got %v", c.Planner.ScanHorizon))
	}
	if c.Planner.StopSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("planner.stop_speed must not be negative, got %v", c.Planner.StopSpeed))
	}
	if c.Control.Step.Interval <= 0 || c.Control.BehaviorInterval <= 0 {
		err = multierr.Append(err, errors.New("control intervals must be positive"))
	}
	if c.Control.Step.Total < 0 {
		err = multierr.Append(err, fmt.Errorf("control.step.total must not be negative, got %v", c.Control.Step.Total))
	}
	if c.Telemetry.MaxAge < 0 {
		err = multierr.Append(err, fmt.Errorf("telemetry.max_age must not be negative, got %v", c.Telemetry.MaxAge))
	}

	if len(c.Planner.Routes) < 2 {
		err = multierr.Append(err, fmt.Errorf("planner.routes needs at least 2 routes, got %d", len(c.Planner.Routes)))
	}
	names := make(map[string]struct{}, len(c.Planner.Routes))
	for i, r := range c.Planner.Routes {
		if r.Name == "" {
			err = multierr.Append(err, fmt.Errorf("planner.routes[%d] has no name", i))
			continue
		}
		if _, ok := names[r.Name]; ok {
			err = multierr.Append(err, fmt.Errorf("duplicated route name %s", r.Name))
		}
		names[r.Name] = struct{}{}
		if len(r.Segments) == 0 {
			err = multierr.Append(err, fmt.Errorf("route %s has no segments", r.Name))
		}
	}
	if _, ok := names[c.Planner.InitialRoute]; !ok && len(names) > 0 {
		err = multierr.Append(err, fmt.Errorf("planner.initial_route %q is not a route", c.Planner.InitialRoute))
	}
	for _, roadID := range lo.Keys(c.Planner.Triggers) {
		if _, ok := names[c.Planner.Triggers[roadID]]; !ok {
			err = multierr.Append(err, fmt.Errorf("trigger on road %s targets unknown route %q", roadID, c.Planner.Triggers[roadID]))
		}
	}
	return
}
