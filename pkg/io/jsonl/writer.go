// Package jsonl writes detection results as JSON lines.
package jsonl

import (
	"encoding/json"
	stdio "io"
	"os"

	"github.com/nithinmohantk/claimguard/pkg/io"
)

var _ io.Writer = (*Writer)(nil)

// Writer streams results to an underlying writer, one JSON object per
// line.
type Writer struct {
	enc    *json.Encoder
	closer stdio.Closer
}

// NewWriter wraps an existing writer.
func NewWriter(w stdio.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Create opens (or truncates) a file for writing results.
func Create(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &Writer{enc: json.NewEncoder(file), closer: file}, nil
}

// Write outputs a single result.
func (w *Writer) Write(result io.Result) error {
	return w.enc.Encode(result)
}

// WriteAll outputs multiple results.
func (w *Writer) WriteAll(results []io.Result) error {
	for _, r := range results {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
