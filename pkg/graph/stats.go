package graph

// Statistics summarizes the structure of a graph. Every field has a
// defined zero value on the empty graph.
type Statistics struct {
	NumNodes               int     `json:"num_nodes"`
	NumEdges               int     `json:"num_edges"`
	AvgDegree              float64 `json:"avg_degree"`
	Density                float64 `json:"density"`
	NumConnectedComponents int     `json:"num_connected_components"`
	IsConnected            bool    `json:"is_connected"`
}

// Statistics computes degree, density, and connectivity measures.
func (g *Graph) Statistics() Statistics {
	n := g.NumNodes()
	e := g.NumEdges()
	if n == 0 {
		return Statistics{}
	}

	stats := Statistics{
		NumNodes:  n,
		NumEdges:  e,
		AvgDegree: 2 * float64(e) / float64(n),
	}
	if n > 1 {
		stats.Density = 2 * float64(e) / (float64(n) * float64(n-1))
	}

	stats.NumConnectedComponents = g.countComponents()
	stats.IsConnected = stats.NumConnectedComponents == 1
	return stats
}

func (g *Graph) countComponents() int {
	visited := make(map[NodeID]bool, len(g.adj))
	var components int

	for start := range g.adj {
		if visited[start] {
			continue
		}
		components++

		queue := []NodeID{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for next := range g.adj[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return components
}
