package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStats(t *testing.T) {
	assert.Equal(t, Stats{}, NewStats(nil))

	sizes := []int{9, 2, 4, 5, 4, 7, 4, 5}
	s := NewStats(sizes)
	assert.Equal(t, 2, s.Min)
	assert.Equal(t, 9, s.Max)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 4.5, s.Median)
	assert.InDelta(t, 2.0, s.StdDeviation, 1e-9)
	assert.Equal(t, []int{9, 2, 4, 5, 4, 7, 4, 5}, sizes, "input must not be reordered")

	assert.Equal(t, 3.0, NewStats([]int{1, 3, 8}).Median)
}

func TestNewDistributionStats(t *testing.T) {
	even := NewDistributionStats([]int{3, 3, 3})
	assert.Equal(t, 3, even.Buckets)
	assert.Equal(t, 9, even.Keys)
	assert.InDelta(t, 1.0, even.Quality, 1e-9)
	assert.InDelta(t, 1.0/3.0, even.Selectivity, 1e-9)

	skewed := NewDistributionStats([]int{1, 1, 100})
	assert.Less(t, skewed.Quality, even.Quality)
	assert.Equal(t, 1.0, skewed.Median)

	single := NewDistributionStats([]int{5})
	assert.InDelta(t, 1.0, single.Quality, 1e-9)
	assert.Equal(t, 1.0, single.Selectivity)

	assert.Equal(t, DistributionStats{}, NewDistributionStats(nil))
}
