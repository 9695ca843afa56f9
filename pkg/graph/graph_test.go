package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

func claim(patient, provider string, amount float64) claims.ClaimRecord {
	return claims.ClaimRecord{
		PatientID:     patient,
		ProviderID:    provider,
		ClaimAmount:   amount,
		DiagnosisCode: "E11.9",
	}
}

func TestBuildAggregatesEdges(t *testing.T) {
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 1000),
		claim("101", "501", 500),
		claim("101", "502", 2000),
	})

	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())

	e, ok := g.EdgeBetween(
		NodeID{Type: Patient, Raw: "101"},
		NodeID{Type: Provider, Raw: "501"},
	)
	require.True(t, ok)
	assert.Equal(t, 1500.0, e.TotalAmount)
	assert.Equal(t, 2, e.ClaimCount)

	e, ok = g.EdgeBetween(
		NodeID{Type: Patient, Raw: "101"},
		NodeID{Type: Provider, Raw: "502"},
	)
	require.True(t, ok)
	assert.Equal(t, 2000.0, e.TotalAmount)
	assert.Equal(t, 1, e.ClaimCount)
}

func TestBuildNoSelfLoops(t *testing.T) {
	// A patient and a provider sharing the raw id stay distinct nodes
	g := Build([]claims.ClaimRecord{
		claim("700", "700", 100),
	})

	assert.Equal(t, 2, g.NumNodes())
	assert.Equal(t, 1, g.NumEdges())
	for _, n := range g.Nodes() {
		assert.False(t, g.HasEdge(n, n))
	}
}

func TestBuildEmptyInput(t *testing.T) {
	g := Build(nil)
	assert.Equal(t, 0, g.NumNodes())
	assert.Equal(t, 0, g.NumEdges())
}

func TestAddClaimRejectsSelfLoop(t *testing.T) {
	g := New()
	id := NodeID{Type: Patient, Raw: "1"}
	g.AddClaim(id, id, 50)

	assert.Equal(t, 1, g.NumNodes())
	assert.Equal(t, 0, g.NumEdges())
}

func TestNodeIDString(t *testing.T) {
	tests := []struct {
		name string
		id   NodeID
		want string
	}{
		{
			name: "numeric patient id",
			id:   NodeID{Type: Patient, Raw: "101"},
			want: "Patient_101",
		},
		{
			name: "numeric id with decimal part",
			id:   NodeID{Type: Provider, Raw: "501.0"},
			want: "Provider_501",
		},
		{
			name: "uuid truncated to 8 chars",
			id:   NodeID{Type: Patient, Raw: "a1b2c3d4-e5f6-7890-abcd-ef1234567890"},
			want: "Patient_a1b2c3d4",
		},
		{
			name: "short non-numeric id kept whole",
			id:   NodeID{Type: Provider, Raw: "acme"},
			want: "Provider_acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.String())
		})
	}
}

func TestTruncatedDisplayDoesNotMergeNodes(t *testing.T) {
	// Two raw ids sharing an 8-char prefix must remain distinct
	g := Build([]claims.ClaimRecord{
		claim("aaaaaaaa-1111", "501", 100),
		claim("aaaaaaaa-2222", "501", 100),
	})

	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())
}

func TestDegreeAndNeighbors(t *testing.T) {
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 100),
		claim("101", "502", 100),
		claim("102", "501", 100),
	})

	p101 := NodeID{Type: Patient, Raw: "101"}
	assert.Equal(t, 2, g.Degree(p101))
	assert.Len(t, g.Neighbors(p101), 2)
	assert.Equal(t, 0, g.Degree(NodeID{Type: Patient, Raw: "absent"}))
}
