package anomaly

import (
	"math"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

// ZScore flags claims whose amount deviates from the input-set mean by
// more than a cutoff number of sample standard deviations. When the
// standard deviation is zero (all amounts identical, or fewer than two
// records) every record scores 0 and nothing is flagged; the undefined
// division is never propagated.
type ZScore struct {
	cutoff float64
}

// ZScoreOption configures a ZScore detector.
type ZScoreOption func(*ZScore)

// WithCutoff sets the z-score cutoff. Default 3.0.
func WithCutoff(z float64) ZScoreOption {
	return func(d *ZScore) { d.cutoff = z }
}

// NewZScore creates a ZScore detector.
func NewZScore(opts ...ZScoreOption) *ZScore {
	d := &ZScore{cutoff: 3.0}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect scores every record as |amount - mean| / stddev.
func (d *ZScore) Detect(records []claims.ClaimRecord) []Result {
	results := make([]Result, len(records))
	for i, r := range records {
		results[i] = Result{Record: r, Method: MethodStatistical}
	}

	values := amounts(records)
	mu := mean(values)
	sigma := stddev(values, mu)
	if sigma == 0 {
		return results
	}

	for i, r := range records {
		score := math.Abs(r.ClaimAmount-mu) / sigma
		results[i].Score = score
		results[i].IsAnomaly = score > d.cutoff
	}
	return results
}
