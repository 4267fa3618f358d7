// 沿路径前视扫描路口
package scan

import (
	"github.com/golang/geo/r3"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
)

// Result 扫描结果
type Result struct {
	JunctionAhead bool     // 前视范围内是否有路口
	Junctions     []string // 按首次出现顺序记录的路口ID（去重）
}

// Scanner 路口前视扫描器
type Scanner struct {
	roads   entity.IRoadManager
	horizon int // 前视点数，前视距离约为 horizon*采样步长
}

// New 创建路口前视扫描器
// 参数：roads-路网，horizon-前视点数，必须为正数
func New(roads entity.IRoadManager, horizon int) *Scanner {
	if horizon <= 0 {
		log.Panicf("bad scan horizon %d", horizon)
	}
	return &Scanner{roads: roads, horizon: horizon}
}

// Horizon 前视点数
func (s *Scanner) Horizon() int {
	return s.horizon
}

// Scan 从start开始沿路径扫描horizon个点
// 功能：查找每个点所在车道的道路，记录前视范围内出现的全部路口
// 参数：points-路径点，start-起始下标（通常为车辆最近点）
// 返回：扫描结果
// 算法说明：
// 1. 下标按路径长度取模，路径视为首尾相接
// 2. 点不在任何车道上时跳过
// 3. 道路junction id不是非路口哨兵值且本次扫描未出现过时记录，并置JunctionAhead
// 4. 不在首次命中时提前结束，保证范围内所有路口都被记录
func (s *Scanner) Scan(points []r3.Vector, start int) Result {
	res := Result{Junctions: make([]string, 0)}
	n := len(points)
	if n == 0 {
		return res
	}
	start = ((start % n) + n) % n
	visited := make(map[string]struct{})
	for i := 0; i < s.horizon; i++ {
		p := points[(start+i)%n]
		lane := s.roads.LaneAt(p.X, p.Y)
		if lane == nil {
			continue
		}
		junctionID := lane.ParentRoad().JunctionID()
		if junctionID == entity.NotJunction {
			continue
		}
		if _, ok := visited[junctionID]; ok {
			continue
		}
		visited[junctionID] = struct{}{}
		res.Junctions = append(res.Junctions, junctionID)
		res.JunctionAhead = true
	}
	log.Debugf("scan from %d over %d points: %v", start, s.horizon, res.Junctions)
	return res
}
