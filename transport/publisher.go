package transport

import (
	"github.com/tsinghua-fib-lab/navigator-planner/utils/container"
)

// Publisher 规划结果的发布接口
// 说明：由规划tick所在的goroutine调用，实现不得阻塞
type Publisher interface {
	PublishPath(msg PathMessage)
	PublishZones(msg ZonesMessage)
}

// LatestPublisher 保存最近一次发布的消息
// 功能：作为RPC查询的数据来源，读取与发布可以在不同goroutine中进行
type LatestPublisher struct {
	path  container.Cell[PathMessage]
	zones container.Cell[ZonesMessage]
}

// NewLatestPublisher 创建LatestPublisher
func NewLatestPublisher() *LatestPublisher {
	return &LatestPublisher{}
}

func (p *LatestPublisher) PublishPath(msg PathMessage) {
	p.path.Store(msg)
	log.Debugf("publish path %v (seq=%d)", msg.Path, msg.Header.Seq)
}

func (p *LatestPublisher) PublishZones(msg ZonesMessage) {
	p.zones.Store(msg)
	log.Debugf("publish %d zones in state %s (seq=%d)", len(msg.Zones), msg.State, msg.Header.Seq)
}

// LatestPath 最近一次发布的路径消息
func (p *LatestPublisher) LatestPath() (PathMessage, bool) {
	return p.path.Load()
}

// LatestZones 最近一次发布的警示区域消息
func (p *LatestPublisher) LatestZones() (ZonesMessage, bool) {
	return p.zones.Load()
}

// Published 已发布的路径消息数与警示区域消息数
func (p *LatestPublisher) Published() (paths, zones uint64) {
	return p.path.Version(), p.zones.Version()
}

// MultiPublisher 将消息依次转发给多个Publisher
type MultiPublisher []Publisher

func (m MultiPublisher) PublishPath(msg PathMessage) {
	for _, p := range m {
		p.PublishPath(msg)
	}
}

func (m MultiPublisher) PublishZones(msg ZonesMessage) {
	for _, p := range m {
		p.PublishZones(msg)
	}
}
