// Package util provides statistics helpers for db.JSONDB implementations.
//
// The package contains:
//   - Stats: mean, standard deviation, minimum and maximum of a series
//   - DistributionStats: how evenly items are spread over groups, used to describe
//     the bucket sizes of secondary indexes in db.IndexInfo
package util
