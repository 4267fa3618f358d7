package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/navigator-planner/utils"
)

func TestFind(t *testing.T) {
	data := []int{1, 2, 3}
	dataMap := map[string]int{"a": 1, "b": 2, "c": 3}

	ok, failed := utils.Find(dataMap, data, nil)
	assert.Equal(t, data, ok)
	assert.Nil(t, failed)

	ok, failed = utils.Find(dataMap, data, []string{"c", "x", "a"})
	assert.Equal(t, []int{3, 1}, ok)
	assert.Equal(t, []string{"x"}, failed)
}
