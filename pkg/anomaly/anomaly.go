// Package anomaly scores healthcare claims with interchangeable
// detection strategies and combines their outputs.
package anomaly

import (
	"math"
	"sort"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

// Method identifies the strategy that produced a result.
type Method string

const (
	MethodThreshold   Method = "threshold"
	MethodStatistical Method = "statistical"
	MethodMLOutlier   Method = "ml-outlier"
	MethodVelocity    Method = "velocity"
)

// Result is one scored outcome per input record. The score scale is
// method-specific until normalized by the combiner.
type Result struct {
	Record    claims.ClaimRecord
	Method    Method
	Score     float64
	IsAnomaly bool
}

// Scores extracts the score column from a result set.
func Scores(results []Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	return out
}

// TopN returns the n highest-scoring results in descending order. Ties
// keep their original input order; fewer than n results returns all of
// them.
func TopN(results []Result, n int) []Result {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	return sorted[:n]
}

// Summarize reports aggregate counts for a flagged result set. The map
// is empty for empty input, never nil.
func Summarize(results []Result) map[string]float64 {
	summary := map[string]float64{}
	if len(results) == 0 {
		return summary
	}

	var flagged int
	var flaggedAmount, normalAmount float64
	for _, r := range results {
		if r.IsAnomaly {
			flagged++
			flaggedAmount += r.Record.ClaimAmount
		} else {
			normalAmount += r.Record.ClaimAmount
		}
	}

	total := len(results)
	normal := total - flagged

	summary["total_claims"] = float64(total)
	summary["anomalies_detected"] = float64(flagged)
	summary["anomaly_percentage"] = float64(flagged) / float64(total) * 100
	summary["normal_claims"] = float64(normal)
	if flagged > 0 {
		summary["avg_amount_anomaly"] = flaggedAmount / float64(flagged)
	} else {
		summary["avg_amount_anomaly"] = 0
	}
	if normal > 0 {
		summary["avg_amount_normal"] = normalAmount / float64(normal)
	} else {
		summary["avg_amount_normal"] = 0
	}
	return summary
}

// amounts extracts the claim amount column.
func amounts(records []claims.ClaimRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.ClaimAmount
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(values []float64, mu float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// percentile returns the p-th percentile of values by nearest rank.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}
