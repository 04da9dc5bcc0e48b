package dependency

import (
	"errors"

	"github.com/kda-constructs/generator/internal/graph"
)

// ErrCycle is returned when the reference graph contains a cycle.
var ErrCycle = errors.New("dependency cycle detected")

// Resolve orders the nodes of g so that every node comes after the nodes it references.
// It returns:
// - ordered: node IDs in topological order (dependencies first)
// - tiers: node IDs grouped by depth (tier 0 = no references, tier 1 = references only tier 0, etc.)
// Within a tier, nodes keep their insertion order.
func Resolve(g *graph.Graph) (ordered []string, tiers [][]string, err error) {
	if g == nil || g.Len() == 0 {
		return nil, nil, nil
	}
	nodes := g.Nodes()

	// dependents[a] lists the nodes that reference a; inDegree counts distinct references.
	dependents := make(map[string][]string)
	inDegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = 0
	}
	for _, n := range nodes {
		seen := make(map[string]bool)
		for _, r := range n.Resource.References() {
			if r.ID == n.ID || seen[r.ID] || g.Node(r.ID) == nil {
				continue
			}
			seen[r.ID] = true
			inDegree[n.ID]++
			dependents[r.ID] = append(dependents[r.ID], n.ID)
		}
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	position := make(map[string]int, len(nodes))
	for i, n := range nodes {
		position[n.ID] = i
	}

	ordered = make([]string, 0, len(nodes))
	for len(queue) > 0 {
		tier := make([]string, len(queue))
		copy(tier, queue)
		tiers = append(tiers, tier)
		var nextQueue []string
		for _, u := range queue {
			ordered = append(ordered, u)
			for _, v := range dependents[u] {
				inDegree[v]--
				if inDegree[v] == 0 {
					nextQueue = insertByPosition(nextQueue, v, position)
				}
			}
		}
		queue = nextQueue
	}

	if len(ordered) != len(nodes) {
		return nil, nil, ErrCycle
	}
	return ordered, tiers, nil
}

func insertByPosition(queue []string, id string, position map[string]int) []string {
	i := len(queue)
	for i > 0 && position[queue[i-1]] > position[id] {
		i--
	}
	queue = append(queue, "")
	copy(queue[i+1:], queue[i:])
	queue[i] = id
	return queue
}
