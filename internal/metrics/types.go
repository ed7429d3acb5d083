// internal/metrics/types.go
package metrics

import (
	"math"
	"time"
)

// ModelMetrics is the aggregated record for one model.
type ModelMetrics struct {
	ModelName          string                 `json:"model_name"`
	LastUpdatedUTC     time.Time              `json:"last_updated_utc"`
	OverallStats       RunningAggregatedStats `json:"overall_stats"`
	PerformanceBuckets []PerformanceBucket    `json:"performance_buckets"`
}

// PerformanceBucket holds aggregated stats for a specific dimension, like input token count.
type PerformanceBucket struct {
	Dimension string                 `json:"dimension"`
	Bucket    string                 `json:"bucket"`
	Stats     RunningAggregatedStats `json:"stats"`
}

// RunningAggregatedStats stores the running statistical values for a set of generations.
// It uses Welford's online algorithm for calculating mean and standard deviation.
type RunningAggregatedStats struct {
	TotalRequests int64 `json:"total_requests"`
	Failures      int64 `json:"failures"`

	LatencyMillis   RunningStat `json:"latency_ms"`
	TokensPerSecond RunningStat `json:"tokens_per_second"`
	InputTokens     RunningStat `json:"input_tokens"`
	OutputTokens    RunningStat `json:"output_tokens"`
}

// ToolMetrics aggregates executor outcomes for one tool.
type ToolMetrics struct {
	Name          string      `json:"name"`
	Calls         int64       `json:"calls"`
	Failures      int64       `json:"failures"`
	LatencyMillis RunningStat `json:"latency_ms"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"m2"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev is the sample standard deviation.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}

// Snapshot is a point-in-time copy of everything the aggregator holds.
type Snapshot struct {
	Models []ModelMetrics `json:"models"`
	Tools  []ToolMetrics  `json:"tools"`
}
