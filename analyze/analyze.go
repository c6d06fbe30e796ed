// Package analyze computes the structural summary the submit flow reports:
// node count, edge count and whether the edges form a directed acyclic graph.
package analyze

import "github.com/meikuraledutech/pipeline"

// Analyze summarises p. Edges whose endpoints are not among p.Nodes still take
// part in cycle detection.
func Analyze(p *pipeline.Pipeline) pipeline.Analysis {
	return pipeline.Analysis{
		NumNodes: len(p.Nodes),
		NumEdges: len(p.Edges),
		IsDAG:    IsAcyclic(p.Nodes, p.Edges),
	}
}

// IsAcyclic reports whether the edges contain no directed cycle, using an
// iterative three-colour DFS.
func IsAcyclic(nodes []*pipeline.Node, edges []*pipeline.Edge) bool {
	adj := make(map[string][]string)
	for _, e := range edges {
		if e == nil {
			continue
		}
		adj[e.SourceNodeID] = append(adj[e.SourceNodeID], e.TargetNodeID)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	// Visit order follows input order so results are deterministic.
	order := make([]string, 0, len(nodes)+2*len(edges))
	state := make(map[string]int)
	add := func(id string) {
		if _, ok := state[id]; !ok {
			state[id] = unvisited
			order = append(order, id)
		}
	}
	for _, n := range nodes {
		if n != nil {
			add(n.ID)
		}
	}
	// Also include nodes referenced only in edges.
	for _, e := range edges {
		if e != nil {
			add(e.SourceNodeID)
			add(e.TargetNodeID)
		}
	}

	type frame struct {
		id   string
		next int
	}

	for _, root := range order {
		if state[root] != unvisited {
			continue
		}
		stack := []frame{{id: root}}
		state[root] = visiting
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(adj[top.id]) {
				state[top.id] = visited
				stack = stack[:len(stack)-1]
				continue
			}
			next := adj[top.id][top.next]
			top.next++
			switch state[next] {
			case visiting:
				return false
			case unvisited:
				state[next] = visiting
				stack = append(stack, frame{id: next})
			}
		}
	}

	return true
}
