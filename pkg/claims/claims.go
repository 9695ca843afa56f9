// Package claims defines the healthcare claim data model and the
// sanitization boundary in front of the analysis engine.
package claims

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ClaimRecord is a single healthcare claim. Records are treated as
// immutable for the duration of a scoring or graph pass.
type ClaimRecord struct {
	PatientID     string     `json:"patient_id" validate:"required"`
	ProviderID    string     `json:"provider_id" validate:"required"`
	ClaimAmount   float64    `json:"claim_amount" validate:"gte=0"`
	DiagnosisCode string     `json:"diagnosis_code" validate:"required"`
	ProcedureCode string     `json:"procedure_code,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
}

var validate = validator.New()

// Validate checks the record invariants: both ids and the diagnosis code
// present, claim amount non-negative.
func (r ClaimRecord) Validate() error {
	return validate.Struct(r)
}

// Sanitize returns a cleaned copy of the input batch: exact duplicate
// rows, records with missing ids or diagnosis codes, and records with a
// non-positive amount are dropped. The input slice is not modified.
func Sanitize(records []ClaimRecord) []ClaimRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]ClaimRecord, 0, len(records))

	for _, r := range records {
		if r.Validate() != nil || r.ClaimAmount <= 0 {
			continue
		}
		key := dedupeKey(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func dedupeKey(r ClaimRecord) string {
	var ts int64
	if r.Date != nil {
		ts = r.Date.Unix()
	}
	return fmt.Sprintf("%s|%s|%.2f|%s|%s|%d",
		r.PatientID, r.ProviderID, r.ClaimAmount, r.DiagnosisCode, r.ProcedureCode, ts)
}

// Filter selects records matching user-specified parameters. Nil or
// empty fields match everything.
type Filter struct {
	PatientIDs  []string
	ProviderIDs []string
	From        *time.Time
	To          *time.Time
	MinAmount   *float64
	MaxAmount   *float64
}

// Apply returns the records accepted by every set criterion, preserving
// input order.
func (f Filter) Apply(records []ClaimRecord) []ClaimRecord {
	patients := toSet(f.PatientIDs)
	providers := toSet(f.ProviderIDs)

	out := make([]ClaimRecord, 0, len(records))
	for _, r := range records {
		if patients != nil {
			if _, ok := patients[r.PatientID]; !ok {
				continue
			}
		}
		if providers != nil {
			if _, ok := providers[r.ProviderID]; !ok {
				continue
			}
		}
		if f.MinAmount != nil && r.ClaimAmount < *f.MinAmount {
			continue
		}
		if f.MaxAmount != nil && r.ClaimAmount > *f.MaxAmount {
			continue
		}
		if f.From != nil || f.To != nil {
			if r.Date == nil {
				continue
			}
			if f.From != nil && r.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && r.Date.After(*f.To) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
