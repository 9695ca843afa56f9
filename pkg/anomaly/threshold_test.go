package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

func claimsWithAmounts(amounts ...float64) []claims.ClaimRecord {
	records := make([]claims.ClaimRecord, len(amounts))
	for i, a := range amounts {
		records[i] = claims.ClaimRecord{
			PatientID:     "101",
			ProviderID:    "501",
			ClaimAmount:   a,
			DiagnosisCode: "E11.9",
		}
	}
	return records
}

func TestThresholdFixedValue(t *testing.T) {
	records := claimsWithAmounts(1000, 2500, 1500, 5000, 2000)

	results := NewThreshold(WithValue(2000)).Detect(records)
	require.Len(t, results, len(records))

	var flagged []float64
	for _, r := range results {
		assert.Equal(t, MethodThreshold, r.Method)
		assert.Equal(t, r.Record.ClaimAmount > 2000, r.IsAnomaly)
		if r.IsAnomaly {
			flagged = append(flagged, r.Record.ClaimAmount)
		}
	}
	assert.Equal(t, []float64{2500, 5000}, flagged)

	assert.InDelta(t, 1.25, results[1].Score, 1e-9)
	assert.InDelta(t, 2.5, results[3].Score, 1e-9)
	assert.InDelta(t, 0.5, results[0].Score, 1e-9)
}

func TestThresholdPercentile(t *testing.T) {
	records := claimsWithAmounts(100, 200, 300, 400, 1000)

	results := NewThreshold(WithPercentile(50)).Detect(records)
	require.Len(t, results, 5)

	// Median cutoff flags everything strictly above 300
	var flagged int
	for _, r := range results {
		if r.IsAnomaly {
			flagged++
		}
	}
	assert.Equal(t, 2, flagged)
}

func TestThresholdNoOp(t *testing.T) {
	records := claimsWithAmounts(100, 5000, 250)

	results := NewThreshold().Detect(records)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Zero(t, r.Score)
		assert.False(t, r.IsAnomaly)
	}
}

func TestThresholdEmptyInput(t *testing.T) {
	results := NewThreshold(WithValue(100)).Detect(nil)
	assert.Empty(t, results)
}
