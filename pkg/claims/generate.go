package claims

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateOption configures the synthetic claim generator.
type GenerateOption func(*generator)

type generator struct {
	rng          *rand.Rand
	patients     int
	providers    int
	uuidIDs      bool
	anomalyRate  float64
	anomalyScale float64
	start        time.Time
}

// WithGenSeed fixes the random seed.
func WithGenSeed(seed int64) GenerateOption {
	return func(g *generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithPopulation sets how many distinct patients and providers appear.
func WithPopulation(patients, providers int) GenerateOption {
	return func(g *generator) {
		g.patients = patients
		g.providers = providers
	}
}

// WithUUIDs makes patient and provider ids UUID strings instead of
// small integers, exercising the non-numeric id rendering path.
func WithUUIDs() GenerateOption {
	return func(g *generator) { g.uuidIDs = true }
}

// WithAnomalyRate sets the fraction of claims with inflated amounts.
func WithAnomalyRate(rate float64) GenerateOption {
	return func(g *generator) { g.anomalyRate = rate }
}

// Generate produces n synthetic claims for demos and tests. Normal
// claim amounts cluster around a few hundred dollars; a configurable
// fraction is inflated by an order of magnitude.
func Generate(n int, opts ...GenerateOption) []ClaimRecord {
	g := &generator{
		rng:          rand.New(rand.NewSource(42)),
		patients:     50,
		providers:    10,
		anomalyRate:  0.05,
		anomalyScale: 12,
		start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(g)
	}

	patientIDs := g.identifiers("1%03d", g.patients)
	providerIDs := g.identifiers("5%03d", g.providers)
	diagnoses := []string{"E11.9", "I10", "J45.909", "M54.5", "Z00.00"}
	procedures := []string{"99213", "99214", "80053", ""}

	records := make([]ClaimRecord, n)
	for i := range records {
		amount := 100 + g.rng.Float64()*400
		if g.rng.Float64() < g.anomalyRate {
			amount *= g.anomalyScale
		}
		date := g.start.AddDate(0, 0, g.rng.Intn(90))

		records[i] = ClaimRecord{
			PatientID:     patientIDs[g.rng.Intn(len(patientIDs))],
			ProviderID:    providerIDs[g.rng.Intn(len(providerIDs))],
			ClaimAmount:   float64(int(amount*100)) / 100,
			DiagnosisCode: diagnoses[g.rng.Intn(len(diagnoses))],
			ProcedureCode: procedures[g.rng.Intn(len(procedures))],
			Date:          &date,
		}
	}
	return records
}

func (g *generator) identifiers(format string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		if g.uuidIDs {
			ids[i] = uuid.NewString()
		} else {
			ids[i] = fmt.Sprintf(format, i)
		}
	}
	return ids
}
