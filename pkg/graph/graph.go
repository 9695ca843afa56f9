// Package graph models the patient-provider relationship network built
// from claim records and analyzes its structure.
package graph

import (
	"sort"
	"strconv"

	"github.com/nithinmohantk/claimguard/pkg/claims"
)

// NodeType tags a node as a patient or a provider.
type NodeType string

const (
	Patient  NodeType = "patient"
	Provider NodeType = "provider"
)

// NodeID is the stable identity of a node: role plus the raw underlying
// id. Equality and edge aggregation always use the raw id; the
// truncated display rendering is presentation only, so raw ids that
// collide after truncation remain distinct nodes.
type NodeID struct {
	Type NodeType
	Raw  string
}

// String renders the display form: numeric raw ids verbatim (with any
// decimal part stripped), other ids truncated to their first 8
// characters.
func (id NodeID) String() string {
	tag := "Patient"
	if id.Type == Provider {
		tag = "Provider"
	}

	raw := id.Raw
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		raw = strconv.FormatInt(int64(v), 10)
	} else if len(raw) > 8 {
		raw = raw[:8]
	}
	return tag + "_" + raw
}

// Edge aggregates every claim observed between one patient and one
// provider.
type Edge struct {
	TotalAmount float64
	ClaimCount  int
}

// Graph is a weighted undirected graph keyed by stable node ids. Each
// analysis pass owns its own Graph; no locking is needed.
type Graph struct {
	adj      map[NodeID]map[NodeID]*Edge
	numEdges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[NodeID]map[NodeID]*Edge)}
}

// Build constructs the patient-provider graph from a claim snapshot.
// Every record adds (idempotently) its patient and provider nodes and
// creates or aggregates the edge between them. Role-prefixed identities
// mean a patient and a provider sharing a raw id never collide, so the
// builder cannot produce self-loops. An empty snapshot yields an empty
// graph.
func Build(records []claims.ClaimRecord) *Graph {
	g := New()
	for _, r := range records {
		patient := NodeID{Type: Patient, Raw: r.PatientID}
		provider := NodeID{Type: Provider, Raw: r.ProviderID}

		g.AddNode(patient)
		g.AddNode(provider)
		g.AddClaim(patient, provider, r.ClaimAmount)
	}
	return g
}

// AddNode ensures the node exists. Adding an existing node is a no-op.
func (g *Graph) AddNode(id NodeID) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[NodeID]*Edge)
	}
}

// AddClaim records one claim between two nodes: the edge is created
// with the claim's amount and a count of 1, or aggregated in place if
// it already exists. Both nodes are ensured; a self-loop edge is
// rejected.
func (g *Graph) AddClaim(a, b NodeID, amount float64) {
	g.AddNode(a)
	g.AddNode(b)
	if a == b {
		return
	}

	if e, ok := g.adj[a][b]; ok {
		e.TotalAmount += amount
		e.ClaimCount++
		return
	}

	e := &Edge{TotalAmount: amount, ClaimCount: 1}
	g.adj[a][b] = e
	g.adj[b][a] = e
	g.numEdges++
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.adj) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return g.numEdges }

// Nodes returns all node ids in deterministic order.
func (g *Graph) Nodes() []NodeID {
	nodes := make([]NodeID, 0, len(g.adj))
	for id := range g.adj {
		nodes = append(nodes, id)
	}
	sortNodes(nodes)
	return nodes
}

// Degree returns the number of neighbors of a node, 0 if absent.
func (g *Graph) Degree(id NodeID) int { return len(g.adj[id]) }

// Neighbors returns a node's neighbors in deterministic order.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	out := make([]NodeID, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		out = append(out, n)
	}
	sortNodes(out)
	return out
}

// HasEdge reports whether a and b are connected.
func (g *Graph) HasEdge(a, b NodeID) bool {
	_, ok := g.adj[a][b]
	return ok
}

// EdgeBetween returns the aggregated edge between two nodes.
func (g *Graph) EdgeBetween(a, b NodeID) (Edge, bool) {
	if e, ok := g.adj[a][b]; ok {
		return *e, true
	}
	return Edge{}, false
}

func sortNodes(nodes []NodeID) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type < nodes[j].Type
		}
		return nodes[i].Raw < nodes[j].Raw
	})
}
