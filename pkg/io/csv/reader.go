// Package csv reads claim batches from CSV files.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/nithinmohantk/claimguard/pkg/claims"
	claimio "github.com/nithinmohantk/claimguard/pkg/io"
)

var _ claimio.Reader = (*Reader)(nil)

// Required and optional column names recognized in the header row.
var requiredColumns = []string{"patient_id", "provider_id", "claim_amount", "diagnosis_code"}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Reader reads claim records from a CSV file with a header row.
type Reader struct {
	file    *os.File
	reader  *csv.Reader
	columns map[string]int
}

// NewReader opens a claims CSV and maps its header. Missing required
// columns are an error; extra columns are ignored.
func NewReader(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		file:   file,
		reader: csv.NewReader(file),
	}
	r.reader.FieldsPerRecord = -1

	header, err := r.reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("reading header: %w", err)
	}

	r.columns = make(map[string]int, len(header))
	for i, name := range header {
		r.columns[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := r.columns[name]; !ok {
			file.Close()
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	return r, nil
}

// Read returns every well-formed claim in the file. Malformed rows are
// skipped, matching the lenient ingestion policy of the sanitizer
// behind it.
func (r *Reader) Read() ([]claims.ClaimRecord, error) {
	var records []claims.ClaimRecord

	for {
		row, err := r.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		record, err := r.parseRow(row)
		if err != nil {
			continue // Skip malformed rows
		}
		records = append(records, record)
	}

	return records, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func (r *Reader) parseRow(row []string) (claims.ClaimRecord, error) {
	get := func(name string) string {
		idx, ok := r.columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	amount, err := strconv.ParseFloat(get("claim_amount"), 64)
	if err != nil {
		return claims.ClaimRecord{}, err
	}

	record := claims.ClaimRecord{
		PatientID:     get("patient_id"),
		ProviderID:    get("provider_id"),
		ClaimAmount:   amount,
		DiagnosisCode: get("diagnosis_code"),
		ProcedureCode: get("procedure_code"),
	}
	if record.PatientID == "" || record.ProviderID == "" {
		return claims.ClaimRecord{}, errors.New("missing id")
	}

	if raw := get("date"); raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				record.Date = &t
				break
			}
		}
	}

	return record, nil
}
