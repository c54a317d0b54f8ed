package util

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatIter(t *testing.T) {
	first := slices.Values([]int{1, 2})
	second := slices.Values([]int{3})

	assert.Equal(t, []int{1, 2, 3}, slices.Collect(ConcatIter(first, second)))
	assert.Empty(t, slices.Collect(ConcatIter[int]()))
}

func TestReverse(t *testing.T) {
	assert.Equal(t, []int{3, 2, 1}, slices.Collect(Reverse([]int{1, 2, 3})))
	assert.Empty(t, slices.Collect(Reverse([]int{})))
}
