package refgraph

import "slices"

// Cycles returns one cycle per back edge found by a depth-first search over
// the cross-schema edges. Each cycle lists schema URIs from the first node
// back to the one that closes it, e.g. ["a.json", "b.json"] for a -> b -> a.
//
// A schema-level cycle is not necessarily a cyclic reference: a.json#/x may
// point into b.json while b.json#/y points back to an unrelated part of
// a.json. The dereferencer decides that; this report lists candidates.
func (g *Graph) Cycles() [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var stack []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		stack = append(stack, node)
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				start := slices.Index(stack, child)
				cycles = append(cycles, slices.Clone(stack[start:]))
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, uri := range g.order {
		if color[uri] == white {
			dfs(uri)
		}
	}
	return cycles
}

// Acyclic reports whether no schema refers back to itself through other
// schemas.
func (g *Graph) Acyclic() bool {
	return len(g.Cycles()) == 0
}
