// Package io provides claim ingestion and result export boundaries.
package io

import "github.com/nithinmohantk/claimguard/pkg/claims"

// Reader is the interface for reading claim batches from a source.
type Reader interface {
	// Read returns the complete claim batch.
	Read() ([]claims.ClaimRecord, error)

	// Close releases resources.
	Close() error
}

// Writer is the interface for writing detection results.
type Writer interface {
	// Write outputs a single result.
	Write(result Result) error

	// WriteAll outputs multiple results.
	WriteAll(results []Result) error

	// Close releases resources.
	Close() error
}

// Result is one exported scoring outcome.
type Result struct {
	PatientID     string  `json:"patient_id"`
	ProviderID    string  `json:"provider_id"`
	ClaimAmount   float64 `json:"claim_amount"`
	DiagnosisCode string  `json:"diagnosis_code"`
	Method        string  `json:"method"`
	Score         float64 `json:"anomaly_score"`
	IsAnomaly     bool    `json:"is_anomaly"`
	CombinedScore float64 `json:"combined_anomaly_score,omitempty"`
}
