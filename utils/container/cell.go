package container

import (
	"sync/atomic"
)

// Cell 单槽位的最新值容器
// 功能：一个goroutine写入、其他goroutine读取，后写覆盖先写，读取者总是看到完整的一次写入
// 说明：不排队、不背压，只保留最新值
type Cell[T any] struct {
	v       atomic.Pointer[T]
	version atomic.Uint64
}

// Store 写入新值
func (c *Cell[T]) Store(v T) {
	c.v.Store(&v)
	c.version.Add(1)
}

// Load 读取最新值
// 返回：值与是否已写入过
func (c *Cell[T]) Load() (T, bool) {
	p := c.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Version 写入次数
func (c *Cell[T]) Version() uint64 {
	return c.version.Load()
}
