package container_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/navigator-planner/utils/container"
)

type snapshot struct {
	X, Y  float64
	Speed float64
}

func TestCellInit(t *testing.T) {
	c := &container.Cell[snapshot]{}
	v, ok := c.Load()
	assert.False(t, ok)
	assert.Equal(t, snapshot{}, v)
	assert.Zero(t, c.Version())
}

func TestCellLastValueWins(t *testing.T) {
	c := &container.Cell[snapshot]{}
	c.Store(snapshot{X: 1, Y: 1, Speed: 1})
	c.Store(snapshot{X: 2, Y: 2, Speed: 2})
	v, ok := c.Load()
	assert.True(t, ok)
	assert.Equal(t, snapshot{X: 2, Y: 2, Speed: 2}, v)
	assert.Equal(t, uint64(2), c.Version())
}

func TestCellConcurrent(t *testing.T) {
	c := &container.Cell[snapshot]{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			f := float64(i)
			c.Store(snapshot{X: f, Y: f, Speed: f})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if v, ok := c.Load(); ok {
				// 不会读到一半写入的记录
				assert.Equal(t, v.X, v.Y)
				assert.Equal(t, v.X, v.Speed)
			}
		}
	}()
	wg.Wait()
	v, _ := c.Load()
	assert.Equal(t, 999.0, v.X)
}
