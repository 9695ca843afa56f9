package graph

import "context"

// maxReportedCliques caps how many qualifying cliques the report lists.
const maxReportedCliques = 10

// ClusterReport is the outcome of suspicious cluster detection. A
// clique mixing patients and providers that are all mutually connected
// is a closed billing circle, the classic collusion signature.
type ClusterReport struct {
	TotalCliques      int        `json:"total_cliques"`
	SuspiciousCliques int        `json:"suspicious_cliques"`
	CliqueDetails     [][]string `json:"clique_details"`
	// Truncated is set when a resource budget stopped enumeration
	// early; counts and details cover only what was enumerated.
	Truncated bool `json:"truncated"`
}

type cliqueConfig struct {
	minSize    int
	maxNodes   int
	maxCliques int
}

// CliqueOption configures suspicious cluster detection.
type CliqueOption func(*cliqueConfig)

// WithMinClusterSize sets the minimum clique size considered
// suspicious. Default 3.
func WithMinClusterSize(n int) CliqueOption {
	return func(c *cliqueConfig) { c.minSize = n }
}

// WithMaxNodes caps the graph size enumeration will attempt. Larger
// graphs return an empty truncated report immediately. Default 5000.
func WithMaxNodes(n int) CliqueOption {
	return func(c *cliqueConfig) { c.maxNodes = n }
}

// WithMaxCliques caps how many maximal cliques are enumerated before
// the report is returned partial. Default 100000.
func WithMaxCliques(n int) CliqueOption {
	return func(c *cliqueConfig) { c.maxCliques = n }
}

// SuspiciousClusters enumerates all maximal cliques (exact
// Bron-Kerbosch with pivoting) and filters them by minimum size.
// Enumeration is exponential in the worst case, so it runs under a
// budget: the configured graph-size and clique-count caps plus
// whatever deadline or cancellation ctx carries. A tripped budget
// yields a partial report with Truncated set, never an error.
func (g *Graph) SuspiciousClusters(ctx context.Context, opts ...CliqueOption) ClusterReport {
	cfg := cliqueConfig{
		minSize:    3,
		maxNodes:   5000,
		maxCliques: 100000,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var report ClusterReport
	if g.NumNodes() == 0 {
		report.CliqueDetails = [][]string{}
		return report
	}
	if g.NumNodes() > cfg.maxNodes {
		report.CliqueDetails = [][]string{}
		report.Truncated = true
		return report
	}

	e := &enumerator{g: g, ctx: ctx, cfg: cfg, report: &report}
	report.CliqueDetails = [][]string{}
	e.expand(nil, g.Nodes(), nil)
	return report
}

type enumerator struct {
	g      *Graph
	ctx    context.Context
	cfg    cliqueConfig
	report *ClusterReport
}

// expand is the Bron-Kerbosch recursion over (R, P, X). It returns
// false once a budget trips, which unwinds the whole recursion.
func (e *enumerator) expand(r, p, x []NodeID) bool {
	select {
	case <-e.ctx.Done():
		e.report.Truncated = true
		return false
	default:
	}

	if len(p) == 0 {
		if len(x) == 0 {
			e.emit(r)
		}
		// With X non-empty, R cannot be extended and is not maximal
		return true
	}

	pivot := e.choosePivot(p, x)
	for i := 0; i < len(p); i++ {
		v := p[i]
		if e.g.HasEdge(pivot, v) {
			continue
		}

		// Budget check sits before the remaining work, so finishing on
		// exactly the last allowed clique is not mislabeled partial.
		if e.report.TotalCliques >= e.cfg.maxCliques {
			e.report.Truncated = true
			return false
		}

		if !e.expand(
			append(r[:len(r):len(r)], v),
			e.intersectNeighbors(p, v),
			e.intersectNeighbors(x, v),
		) {
			return false
		}

		// Move v from P to X
		p = append(p[:i:i], p[i+1:]...)
		i--
		x = append(x, v)
	}
	return true
}

// choosePivot picks the node of P union X with the most neighbors in P,
// minimizing the branching of the recursion.
func (e *enumerator) choosePivot(p, x []NodeID) NodeID {
	best := p[0]
	bestCount := -1
	consider := func(u NodeID) {
		count := 0
		for _, v := range p {
			if e.g.HasEdge(u, v) {
				count++
			}
		}
		if count > bestCount {
			best = u
			bestCount = count
		}
	}
	for _, u := range p {
		consider(u)
	}
	for _, u := range x {
		consider(u)
	}
	return best
}

func (e *enumerator) intersectNeighbors(set []NodeID, v NodeID) []NodeID {
	var out []NodeID
	for _, u := range set {
		if e.g.HasEdge(v, u) {
			out = append(out, u)
		}
	}
	return out
}

func (e *enumerator) emit(clique []NodeID) {
	e.report.TotalCliques++
	if len(clique) >= e.cfg.minSize {
		e.report.SuspiciousCliques++
		if len(e.report.CliqueDetails) < maxReportedCliques {
			ids := make([]string, len(clique))
			for i, id := range clique {
				ids[i] = id.String()
			}
			e.report.CliqueDetails = append(e.report.CliqueDetails, ids)
		}
	}
}
