package claims

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(patient, provider string, amount float64) ClaimRecord {
	return ClaimRecord{
		PatientID:     patient,
		ProviderID:    provider,
		ClaimAmount:   amount,
		DiagnosisCode: "E11.9",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  ClaimRecord
		wantErr bool
	}{
		{
			name:   "valid record",
			record: record("101", "501", 250),
		},
		{
			name:    "missing patient id",
			record:  record("", "501", 250),
			wantErr: true,
		},
		{
			name:    "missing provider id",
			record:  record("101", "", 250),
			wantErr: true,
		},
		{
			name:    "negative amount",
			record:  record("101", "501", -10),
			wantErr: true,
		},
		{
			name: "missing diagnosis code",
			record: ClaimRecord{
				PatientID:   "101",
				ProviderID:  "501",
				ClaimAmount: 250,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	records := []ClaimRecord{
		record("101", "501", 250),
		record("101", "501", 250), // exact duplicate
		record("", "501", 100),    // missing id
		record("102", "502", 0),   // non-positive amount
		record("103", "503", 75),
	}

	clean := Sanitize(records)
	require.Len(t, clean, 2)
	assert.Equal(t, "101", clean[0].PatientID)
	assert.Equal(t, "103", clean[1].PatientID)
}

func TestFilterApply(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	a := record("101", "501", 100)
	a.Date = &jan
	b := record("102", "502", 900)
	b.Date = &mar
	c := record("103", "501", 450)
	records := []ClaimRecord{a, b, c}

	t.Run("by provider", func(t *testing.T) {
		got := Filter{ProviderIDs: []string{"501"}}.Apply(records)
		require.Len(t, got, 2)
		assert.Equal(t, "101", got[0].PatientID)
		assert.Equal(t, "103", got[1].PatientID)
	})

	t.Run("by amount range", func(t *testing.T) {
		min, max := 200.0, 500.0
		got := Filter{MinAmount: &min, MaxAmount: &max}.Apply(records)
		require.Len(t, got, 1)
		assert.Equal(t, "103", got[0].PatientID)
	})

	t.Run("by date range drops undated records", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		got := Filter{From: &from, To: &to}.Apply(records)
		require.Len(t, got, 1)
		assert.Equal(t, "101", got[0].PatientID)
	})

	t.Run("empty filter keeps everything", func(t *testing.T) {
		assert.Len(t, Filter{}.Apply(records), 3)
	})
}

func TestGenerate(t *testing.T) {
	records := Generate(200, WithGenSeed(1), WithAnomalyRate(0.1))
	require.Len(t, records, 200)

	for _, r := range records {
		assert.NoError(t, r.Validate())
		assert.Greater(t, r.ClaimAmount, 0.0)
		assert.NotNil(t, r.Date)
	}
}

func TestGenerateUUIDs(t *testing.T) {
	records := Generate(10, WithUUIDs(), WithPopulation(3, 2))
	for _, r := range records {
		assert.Len(t, r.PatientID, 36)
		assert.Len(t, r.ProviderID, 36)
	}
}
