package anomaly

import (
	"math"

	"github.com/nithinmohantk/claimguard/pkg/claims"
	"github.com/nithinmohantk/claimguard/pkg/detectors"
	"github.com/nithinmohantk/claimguard/pkg/detectors/iforest"
)

// Feature column names understood by the ML-outlier detector.
const (
	FeatureClaimAmount = "claim_amount"
	FeatureDate        = "date"
)

// MLOutlier detects anomalies with an isolation forest over one or more
// numeric feature columns. Missing values are imputed with the column
// mean and features are standardized before fitting. The forest scores
// already follow the higher-is-more-anomalous convention, so no sign
// flip is applied. If none of the configured columns exists in the
// input, every record scores 0 and nothing is flagged.
type MLOutlier struct {
	features      []string
	contamination float64
	seed          int64
	trees         int
}

// MLOption configures an MLOutlier detector.
type MLOption func(*MLOutlier)

// WithFeatures selects the feature columns. Default: claim amount only.
func WithFeatures(names ...string) MLOption {
	return func(d *MLOutlier) { d.features = names }
}

// WithContamination sets the expected outlier fraction. Default 0.05.
func WithContamination(c float64) MLOption {
	return func(d *MLOutlier) { d.contamination = c }
}

// WithSeed fixes the model's random seed. Default 42.
func WithSeed(seed int64) MLOption {
	return func(d *MLOutlier) { d.seed = seed }
}

// WithEstimators sets the number of isolation trees. Default 100.
func WithEstimators(n int) MLOption {
	return func(d *MLOutlier) { d.trees = n }
}

// NewMLOutlier creates an MLOutlier detector.
func NewMLOutlier(opts ...MLOption) *MLOutlier {
	base := detectors.DefaultConfig()
	d := &MLOutlier{
		features:      []string{FeatureClaimAmount},
		contamination: base.Contamination,
		seed:          base.RandomSeed,
		trees:         100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect fits the forest on the input snapshot and scores each record.
func (d *MLOutlier) Detect(records []claims.ClaimRecord) []Result {
	results := make([]Result, len(records))
	for i, r := range records {
		results[i] = Result{Record: r, Method: MethodMLOutlier}
	}
	if len(records) == 0 {
		return results
	}

	available := availableFeatures(d.features, records)
	if len(available) == 0 {
		return results
	}

	matrix := featureMatrix(available, records)
	imputeColumnMeans(matrix)
	standardize(matrix)

	forest := iforest.New(
		iforest.WithTrees(d.trees),
		iforest.WithContamination(d.contamination),
		iforest.WithSeed(d.seed),
	)
	if err := forest.Fit(matrix); err != nil {
		return results
	}
	verdicts, err := forest.Classify(matrix)
	if err != nil {
		return results
	}

	for i, v := range verdicts {
		results[i].Score = v.Value
		results[i].IsAnomaly = v.IsAnomaly
	}
	return results
}

// featureValue extracts one named column value from a record. The
// second return reports whether the value is present for this record.
func featureValue(name string, r claims.ClaimRecord) (float64, bool) {
	switch name {
	case FeatureClaimAmount:
		return r.ClaimAmount, true
	case FeatureDate:
		if r.Date == nil {
			return 0, false
		}
		return float64(r.Date.Unix()), true
	default:
		return 0, false
	}
}

// availableFeatures keeps the configured columns that exist in the
// input: claim_amount always, date only when at least one record
// carries one.
func availableFeatures(names []string, records []claims.ClaimRecord) []string {
	var out []string
	for _, name := range names {
		switch name {
		case FeatureClaimAmount:
			out = append(out, name)
		case FeatureDate:
			for _, r := range records {
				if r.Date != nil {
					out = append(out, name)
					break
				}
			}
		}
	}
	return out
}

// featureMatrix builds the sample matrix; missing values are NaN until
// imputation.
func featureMatrix(names []string, records []claims.ClaimRecord) [][]float64 {
	matrix := make([][]float64, len(records))
	for i, r := range records {
		row := make([]float64, len(names))
		for j, name := range names {
			if v, ok := featureValue(name, r); ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		matrix[i] = row
	}
	return matrix
}

// imputeColumnMeans replaces NaN cells with the mean of the present
// values in their column (0 when the whole column is missing).
func imputeColumnMeans(matrix [][]float64) {
	if len(matrix) == 0 {
		return
	}
	cols := len(matrix[0])
	for j := 0; j < cols; j++ {
		var sum float64
		var n int
		for _, row := range matrix {
			if !math.IsNaN(row[j]) {
				sum += row[j]
				n++
			}
		}
		var mu float64
		if n > 0 {
			mu = sum / float64(n)
		}
		for _, row := range matrix {
			if math.IsNaN(row[j]) {
				row[j] = mu
			}
		}
	}
}

// standardize scales each column to zero mean and unit variance in
// place. Constant columns become all zeros.
func standardize(matrix [][]float64) {
	if len(matrix) == 0 {
		return
	}
	cols := len(matrix[0])
	n := float64(len(matrix))

	for j := 0; j < cols; j++ {
		var sum float64
		for _, row := range matrix {
			sum += row[j]
		}
		mu := sum / n

		var sq float64
		for _, row := range matrix {
			d := row[j] - mu
			sq += d * d
		}
		sigma := math.Sqrt(sq / n)

		for _, row := range matrix {
			if sigma > 0 {
				row[j] = (row[j] - mu) / sigma
			} else {
				row[j] = 0
			}
		}
	}
}
