// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成

	log = logrus.WithField("module", "randengine")
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，支持正态分布噪声与线程安全操作
// 说明：基于golang.org/x/exp/rand库
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Gaussian 生成均值为0、标准差为std的正态分布随机数（非线程安全）
// 说明：std为0时直接返回0，不消耗随机数
func (e *Engine) Gaussian(std float64) float64 {
	if std < 0 {
		log.Panicf("randengine: Gaussian: negative std %f", std)
	}
	if std == 0 {
		return 0
	}
	return e.NormFloat64() * std
}

// GaussianSafe 生成正态分布随机数（线程安全）
func (e *Engine) GaussianSafe(std float64) float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Gaussian(std)
}

// PTrue 以指定概率返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Float64Safe 随机生成[0.0, 1.0)范围内的浮点数（线程安全）
func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}
