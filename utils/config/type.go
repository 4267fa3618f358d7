package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：支持MongoDB数据库和文件系统两种数据源，MongoDB数据支持本地缓存
type InputPath struct {
	DB        string `yaml:"db"`                   // 数据库名
	Col       string `yaml:"col"`                  // 集合名
	Cache     string `yaml:"cache,omitempty"`      // 缓存文件名，为空则采用默认路径{db}.{col}.yml
	OnlyCache bool   `yaml:"only_cache,omitempty"` // 只从缓存中获取
	File      string `yaml:"file,omitempty"`       // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// GetCachePath 获取缓存文件路径
// 功能：返回缓存文件名
// 返回：缓存文件名字符串
// 说明：如果指定了缓存路径则直接返回，否则使用默认命名规则{数据库名}.{集合名}.yml
func (p InputPath) GetCachePath() string {
	if p.Cache != "" {
		return p.Cache
	}
	return p.DB + "." + p.Col + ".yml"
}

// Input 指定规划器所有输入数据的配置项
type Input struct {
	URI string    `yaml:"uri"` // MongoDB连接字符串
	Map InputPath `yaml:"map"` // 路网地图
}

// ControlStep 指定规划tick的范围和间隔
// 功能：定义规划时钟参数
// 说明：Total为0表示不限步数，一直运行直到被关闭
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 规划tick（路径切换与发布）间隔，秒
}

// Control 规划器控制配置
type Control struct {
	Step             ControlStep `yaml:"step"`
	BehaviorInterval float64     `yaml:"behavior_interval,omitempty"` // 行为tick间隔，秒
}

// RouteSegment 路线中的一段（道路+车道）
type RouteSegment struct {
	Road string `yaml:"road"` // 道路ID
	Lane int32  `yaml:"lane"` // 车道ID，有符号
}

// Route 命名路线
type Route struct {
	Name     string         `yaml:"name"`
	Segments []RouteSegment `yaml:"segments"`
}

// Planner 规划配置
// 功能：定义路径采样、路线切换、路口探测与行为状态机的参数
// 说明：路口探测的实际前视距离约为SampleStep*ScanHorizon
type Planner struct {
	SampleStep     float64           `yaml:"sample_step,omitempty"`      // 中心线采样步长
	ScanHorizon    int               `yaml:"scan_horizon,omitempty"`     // 路口探测前视点数
	StopSpeed      float64           `yaml:"stop_speed,omitempty"`       // 认为车辆已停下的速度阈值
	StopAtJunction bool              `yaml:"stop_at_junction,omitempty"` // 探测到路口时是否进入STOPPING
	ZoneMaxSpeed   float64           `yaml:"zone_max_speed,omitempty"`   // 路口警示区域限速
	AllowedRoads   []string          `yaml:"allowed_roads,omitempty"`    // 定位时允许的道路集合，为空则不限制
	InitialRoute   string            `yaml:"initial_route"`              // 初始激活路线
	Routes         []Route           `yaml:"routes"`                     // 预计算路线
	Triggers       map[string]string `yaml:"triggers,omitempty"`         // 路线切换规则：道路ID->路线名
}

// Simulate 遥测模拟配置
type Simulate struct {
	Enable   bool      `yaml:"enable"`
	Speeds   []float64 `yaml:"speeds,omitempty"`    // 速度曲线，每个规划tick取一个值，用完后保持最后一个
	NoiseStd float64   `yaml:"noise_std,omitempty"` // 位置噪声标准差
	Seed     uint64    `yaml:"seed,omitempty"`      // 随机种子
}

// Telemetry 遥测配置
type Telemetry struct {
	MaxAge   float64  `yaml:"max_age,omitempty"` // 遥测最大允许时延（秒），0表示不检查
	Simulate Simulate `yaml:"simulate,omitempty"`
}

// Config YAML配置文件的根结构
type Config struct {
	Input     Input     `yaml:"input"`               // 输入
	Control   Control   `yaml:"control"`             // 规划过程控制
	Planner   Planner   `yaml:"planner"`             // 规划参数
	Telemetry Telemetry `yaml:"telemetry,omitempty"` // 遥测
}
