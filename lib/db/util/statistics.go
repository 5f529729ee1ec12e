package util

import (
	"math"
	"slices"
)

// Stats summarizes a list of sizes, for example the number of keys per bucket.
type Stats struct {
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDeviation float64 `json:"std_deviation"`
}

// NewStats summarizes sizes. The standard deviation uses the population formula.
// An empty input returns the zero Stats.
func NewStats(sizes []int) Stats {
	if len(sizes) == 0 {
		return Stats{}
	}

	sorted := slices.Clone(sizes)
	slices.Sort(sorted)
	n := len(sorted)

	var total int
	for _, s := range sorted {
		total += s
	}
	mean := float64(total) / float64(n)

	var squares float64
	for _, s := range sorted {
		d := float64(s) - mean
		squares += d * d
	}

	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return Stats{
		Min:          sorted[0],
		Max:          sorted[n-1],
		Mean:         mean,
		Median:       median,
		StdDeviation: math.Sqrt(squares / float64(n)),
	}
}

// DistributionStats describes how the keys of an index are spread over its buckets.
type DistributionStats struct {
	Buckets int `json:"buckets"`
	Keys    int `json:"keys"`
	Stats
	// Selectivity is the share of all keys a lookup of an average bucket returns.
	Selectivity float64 `json:"selectivity"`
	// Quality is 1 when every bucket holds the same number of keys and drops towards 0
	// as a few large buckets hold most keys. Skewed indexes prune filters less
	// reliably, since a lookup on a popular value returns a large part of the store.
	Quality float64 `json:"quality"`
}

// NewDistributionStats computes the distribution of bucketSizes, one entry per bucket.
func NewDistributionStats(bucketSizes []int) DistributionStats {
	out := DistributionStats{Buckets: len(bucketSizes), Stats: NewStats(bucketSizes)}
	if out.Buckets == 0 {
		return out
	}
	for _, s := range bucketSizes {
		out.Keys += s
	}
	if out.Keys == 0 {
		return out
	}

	out.Selectivity = out.Mean / float64(out.Keys)

	// half from the coefficient of variation, half from the smallest to largest bucket
	cv := math.Min(1, out.StdDeviation/out.Mean)
	out.Quality = (1-cv)/2 + float64(out.Min)/float64(out.Max)/2
	return out
}
