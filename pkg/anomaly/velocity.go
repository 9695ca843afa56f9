package anomaly

import (
	"fmt"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

// Entity selects which side of a claim velocity detection groups by.
type Entity string

const (
	EntityProvider Entity = "provider"
	EntityPatient  Entity = "patient"
)

// Window is the bucketing period for claim-velocity counting.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// Velocity flags claims belonging to unusually busy (entity, time
// window) buckets: an entity filing far more claims per period than its
// peers is a fraud signal independent of amounts. Records without a
// date are never flagged.
type Velocity struct {
	entity Entity
	window Window
	pct    float64
}

// VelocityOption configures a Velocity detector.
type VelocityOption func(*Velocity)

// WithEntity groups by provider or patient. Default provider.
func WithEntity(e Entity) VelocityOption {
	return func(d *Velocity) { d.entity = e }
}

// WithWindow sets the bucketing period. Default day.
func WithWindow(w Window) VelocityOption {
	return func(d *Velocity) { d.window = w }
}

// WithVelocityPercentile sets the percentile of bucket claim counts
// above which a bucket is flagged. Default 90.
func WithVelocityPercentile(p float64) VelocityOption {
	return func(d *Velocity) { d.pct = p }
}

// NewVelocity creates a Velocity detector.
func NewVelocity(opts ...VelocityOption) *Velocity {
	d := &Velocity{entity: EntityProvider, window: WindowDay, pct: 90}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect counts claims per (entity, window) bucket, takes the
// configured percentile of the counts as the cutoff, and flags every
// record in a bucket whose count is strictly above it. The score is the
// record's bucket count.
func (d *Velocity) Detect(records []claims.ClaimRecord) []Result {
	results := make([]Result, len(records))
	for i, r := range records {
		results[i] = Result{Record: r, Method: MethodVelocity}
	}

	buckets := make(map[string]int)
	keys := make([]string, len(records))
	for i, r := range records {
		if r.Date == nil {
			continue
		}
		key := d.bucketKey(r)
		keys[i] = key
		buckets[key]++
	}
	if len(buckets) == 0 {
		return results
	}

	counts := make([]float64, 0, len(buckets))
	for _, c := range buckets {
		counts = append(counts, float64(c))
	}
	cutoff := percentile(counts, d.pct)

	for i := range records {
		if keys[i] == "" {
			continue
		}
		count := float64(buckets[keys[i]])
		results[i].Score = count
		results[i].IsAnomaly = count > cutoff
	}
	return results
}

func (d *Velocity) bucketKey(r claims.ClaimRecord) string {
	id := r.ProviderID
	if d.entity == EntityPatient {
		id = r.PatientID
	}

	t := r.Date.UTC()
	switch d.window {
	case WindowWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%s|%04d-W%02d", id, year, week)
	case WindowMonth:
		return fmt.Sprintf("%s|%04d-%02d", id, t.Year(), t.Month())
	default:
		return fmt.Sprintf("%s|%s", id, t.Format("2006-01-02"))
	}
}
