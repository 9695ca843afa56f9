package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

// triangleGraph is one patient and two providers that are all mutually
// connected, the smallest closed billing circle.
func triangleGraph() *Graph {
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 100),
		claim("101", "502", 100),
	})
	g.AddClaim(
		NodeID{Type: Provider, Raw: "501"},
		NodeID{Type: Provider, Raw: "502"},
		100,
	)
	return g
}

func TestSuspiciousClustersTriangle(t *testing.T) {
	g := triangleGraph()

	report := g.SuspiciousClusters(context.Background())
	assert.GreaterOrEqual(t, report.TotalCliques, 1)
	assert.GreaterOrEqual(t, report.SuspiciousCliques, 1)
	assert.False(t, report.Truncated)

	require.NotEmpty(t, report.CliqueDetails)
	assert.ElementsMatch(t,
		[]string{"Patient_101", "Provider_501", "Provider_502"},
		report.CliqueDetails[0])
}

func TestSuspiciousClustersMinSizeFilter(t *testing.T) {
	g := triangleGraph()

	// No clique reaches size 4
	report := g.SuspiciousClusters(context.Background(), WithMinClusterSize(4))
	assert.Equal(t, 0, report.SuspiciousCliques)
	assert.Empty(t, report.CliqueDetails)
	assert.GreaterOrEqual(t, report.TotalCliques, 1)
}

func TestSuspiciousClustersBipartiteGraph(t *testing.T) {
	// A pure patient-provider graph has no triangles; every maximal
	// clique is a single edge.
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 100),
		claim("101", "502", 100),
		claim("102", "501", 100),
	})

	report := g.SuspiciousClusters(context.Background())
	assert.Equal(t, 3, report.TotalCliques)
	assert.Equal(t, 0, report.SuspiciousCliques)
}

func TestSuspiciousClustersEmptyGraph(t *testing.T) {
	report := New().SuspiciousClusters(context.Background())
	assert.Equal(t, 0, report.TotalCliques)
	assert.Equal(t, 0, report.SuspiciousCliques)
	assert.NotNil(t, report.CliqueDetails)
	assert.False(t, report.Truncated)
}

func TestSuspiciousClustersDetailCap(t *testing.T) {
	g := New()
	// 15 disjoint triangles, each a suspicious clique
	for i := 0; i < 15; i++ {
		p := NodeID{Type: Patient, Raw: fmt.Sprintf("p%02d", i)}
		a := NodeID{Type: Provider, Raw: fmt.Sprintf("a%02d", i)}
		b := NodeID{Type: Provider, Raw: fmt.Sprintf("b%02d", i)}
		g.AddClaim(p, a, 100)
		g.AddClaim(p, b, 100)
		g.AddClaim(a, b, 100)
	}

	report := g.SuspiciousClusters(context.Background())
	assert.Equal(t, 15, report.SuspiciousCliques)
	assert.Len(t, report.CliqueDetails, 10)
}

func TestSuspiciousClustersNodeBudget(t *testing.T) {
	g := triangleGraph()

	report := g.SuspiciousClusters(context.Background(), WithMaxNodes(2))
	assert.True(t, report.Truncated)
	assert.Equal(t, 0, report.TotalCliques)
}

func TestSuspiciousClustersCliqueBudget(t *testing.T) {
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 100),
		claim("102", "502", 100),
		claim("103", "503", 100),
	})

	report := g.SuspiciousClusters(context.Background(), WithMaxCliques(1))
	assert.True(t, report.Truncated)
	assert.Equal(t, 1, report.TotalCliques)
}

func TestSuspiciousClustersExactBudgetNotTruncated(t *testing.T) {
	// The triangle has exactly one maximal clique. Landing on the
	// budget with nothing left to enumerate is a complete report.
	g := triangleGraph()

	report := g.SuspiciousClusters(context.Background(), WithMaxCliques(1))
	assert.Equal(t, 1, report.TotalCliques)
	assert.Equal(t, 1, report.SuspiciousCliques)
	assert.False(t, report.Truncated)
}

func TestSuspiciousClustersCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := triangleGraph().SuspiciousClusters(ctx)
	assert.True(t, report.Truncated)
}
