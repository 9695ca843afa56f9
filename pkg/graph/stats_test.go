package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

func TestStatisticsEmptyGraph(t *testing.T) {
	stats := New().Statistics()

	assert.Equal(t, 0, stats.NumNodes)
	assert.Equal(t, 0, stats.NumEdges)
	assert.Equal(t, 0.0, stats.AvgDegree)
	assert.Equal(t, 0.0, stats.Density)
	assert.Equal(t, 0, stats.NumConnectedComponents)
	assert.False(t, stats.IsConnected)
}

func TestStatisticsConnectedGraph(t *testing.T) {
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 100),
		claim("102", "501", 100),
		claim("101", "502", 100),
	})

	stats := g.Statistics()
	assert.Equal(t, 4, stats.NumNodes)
	assert.Equal(t, 3, stats.NumEdges)
	assert.InDelta(t, 1.5, stats.AvgDegree, 1e-9)
	assert.InDelta(t, 0.5, stats.Density, 1e-9)
	assert.Equal(t, 1, stats.NumConnectedComponents)
	assert.True(t, stats.IsConnected)
}

func TestStatisticsDisconnectedComponents(t *testing.T) {
	g := Build([]claims.ClaimRecord{
		claim("101", "501", 100),
		claim("102", "502", 100),
	})

	stats := g.Statistics()
	assert.Equal(t, 2, stats.NumConnectedComponents)
	assert.False(t, stats.IsConnected)
}

func TestStatisticsSingleNode(t *testing.T) {
	g := New()
	g.AddNode(NodeID{Type: Patient, Raw: "1"})

	stats := g.Statistics()
	assert.Equal(t, 1, stats.NumNodes)
	assert.Equal(t, 0.0, stats.Density)
	assert.True(t, stats.IsConnected)
}
