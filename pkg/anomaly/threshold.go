package anomaly

import "github.com/nithinmohantk/claimguard/pkg/claims"

// Threshold flags claims whose amount exceeds a cutoff, either fixed or
// derived from a percentile of the input set. With neither configured
// it is a deliberate no-op: every record scores 0 and nothing is
// flagged.
type Threshold struct {
	value    float64
	hasValue bool
	pct      float64
	hasPct   bool
}

// ThresholdOption configures a Threshold detector.
type ThresholdOption func(*Threshold)

// WithValue sets a fixed cutoff T.
func WithValue(t float64) ThresholdOption {
	return func(d *Threshold) {
		d.value = t
		d.hasValue = true
	}
}

// WithPercentile derives the cutoff from the p-th percentile of the
// claim amounts in the input set. Ignored when a fixed value is also
// set.
func WithPercentile(p float64) ThresholdOption {
	return func(d *Threshold) {
		d.pct = p
		d.hasPct = true
	}
}

// NewThreshold creates a Threshold detector.
func NewThreshold(opts ...ThresholdOption) *Threshold {
	d := &Threshold{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect scores every record as amount/T and flags amounts strictly
// above T. Total on any well-formed input.
func (d *Threshold) Detect(records []claims.ClaimRecord) []Result {
	results := make([]Result, len(records))
	for i, r := range records {
		results[i] = Result{Record: r, Method: MethodThreshold}
	}

	var cutoff float64
	switch {
	case d.hasValue:
		cutoff = d.value
	case d.hasPct:
		cutoff = percentile(amounts(records), d.pct)
	default:
		return results
	}

	for i, r := range records {
		if cutoff > 0 {
			results[i].Score = r.ClaimAmount / cutoff
		}
		results[i].IsAnomaly = r.ClaimAmount > cutoff
	}
	return results
}
