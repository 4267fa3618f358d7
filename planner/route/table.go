// 预计算路线表与运行时路线切换
package route

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/planner/path"
)

// Table 路线表
// 功能：保存启动时采样好的若干条命名路径与当前激活的路径，按切换规则在运行时更换激活路径
// 说明：路径本身不可变；切换只是激活引用的重新赋值。Table只能由规划tick所在的goroutine访问
type Table struct {
	paths    map[string]*path.Path
	names    []string          // 路线名，保持输入顺序
	triggers map[string]string // 道路ID->目标路线名
	active   *path.Path
}

// NewTable 创建路线表
// 参数：paths-命名路径（至少2条，名字唯一），initial-初始激活路线名，triggers-切换规则（道路ID->路线名）
// 返回：路线表与错误信息
func NewTable(paths []*path.Path, initial string, triggers map[string]string) (*Table, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("route table needs at least 2 paths, got %d", len(paths))
	}
	t := &Table{
		paths: lo.SliceToMap(paths, func(p *path.Path) (string, *path.Path) {
			return p.Name, p
		}),
		names:    lo.Map(paths, func(p *path.Path, _ int) string { return p.Name }),
		triggers: lo.Assign(triggers),
	}
	if len(t.paths) != len(paths) {
		return nil, fmt.Errorf("duplicated route names in %v", t.names)
	}
	for roadID, target := range t.triggers {
		if _, ok := t.paths[target]; !ok {
			return nil, fmt.Errorf("trigger on road %s targets unknown route %s", roadID, target)
		}
	}
	active, ok := t.paths[initial]
	if !ok {
		return nil, fmt.Errorf("unknown initial route %s", initial)
	}
	t.active = active
	return t, nil
}

// Build 采样全部路线并创建路线表
// 参数：sampler-路线采样器，specs-路线定义，initial-初始路线名，triggers-切换规则
// 返回：路线表与错误信息
func Build(sampler *path.Sampler, specs []path.RouteSpec, initial string, triggers map[string]string) (*Table, error) {
	return NewTable(lo.Map(specs, func(spec path.RouteSpec, _ int) *path.Path {
		return sampler.Sample(spec)
	}), initial, triggers)
}

// ActivePath 当前激活的路径
func (t *Table) ActivePath() *path.Path {
	return t.active
}

// ActiveName 当前激活的路线名
func (t *Table) ActiveName() string {
	return t.active.Name
}

// Path 按路线名获取路径
func (t *Table) Path(name string) (*path.Path, bool) {
	p, ok := t.paths[name]
	return p, ok
}

// Names 全部路线名
func (t *Table) Names() []string {
	return t.names
}

// OnCurrentRoad 根据车辆当前所在道路应用切换规则
// 功能：若当前道路有切换规则且目标路线不是当前激活路线，则切换激活路径
// 参数：roadID-车辆当前所在道路ID
// 返回：是否发生了切换
// 说明：切换到已激活的路线是空操作；离开触发道路不会自动切回，只有其他规则能再次改变激活路线
func (t *Table) OnCurrentRoad(roadID string) bool {
	target, ok := t.triggers[roadID]
	if !ok || target == t.active.Name {
		return false
	}
	from := t.active.Name
	t.active = t.paths[target]
	log.Infof("switched route %s -> %s on road %s", from, target, roadID)
	return true
}
