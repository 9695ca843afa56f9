package jsonl

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinmohantk/claimguard/pkg/io"
)

func TestWriteAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	results := []io.Result{
		{PatientID: "101", ProviderID: "501", ClaimAmount: 100, Method: "threshold", Score: 0.5},
		{PatientID: "102", ProviderID: "502", ClaimAmount: 5000, Method: "threshold", Score: 2.5, IsAnomaly: true},
	}
	require.NoError(t, w.WriteAll(results))
	require.NoError(t, w.Close())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var decoded io.Result
	require.NoError(t, json.Unmarshal(lines[1], &decoded))
	assert.Equal(t, "102", decoded.PatientID)
	assert.True(t, decoded.IsAnomaly)
	assert.Equal(t, 2.5, decoded.Score)
}
