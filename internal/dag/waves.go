package dag

import "fmt"

// Waves partitions the graph into dependency layers: every node in wave i
// depends only on nodes in earlier waves. Nodes within one wave have no
// edges between them and may be deployed concurrently. Wave membership is
// deterministic — nodes keep their insertion order within a wave.
func (g *Graph) Waves() ([][]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
	}

	var waves [][]string
	placed := 0
	remaining := g.order

	for placed < len(g.nodes) {
		var wave []string
		var next []string
		for _, id := range remaining {
			if indegree[id] == 0 {
				wave = append(wave, id)
			} else {
				next = append(next, id)
			}
		}
		if len(wave) == 0 {
			return nil, fmt.Errorf("dependency graph contains a cycle among %d remaining nodes", len(remaining))
		}
		for _, id := range wave {
			indegree[id] = -1 // placed
			for _, dependent := range g.nodes[id].dependents {
				if indegree[dependent.id] > 0 {
					indegree[dependent.id]--
				}
			}
		}
		placed += len(wave)
		remaining = next
		waves = append(waves, wave)
	}
	return waves, nil
}
