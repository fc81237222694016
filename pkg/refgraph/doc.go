// Package refgraph builds the schema-level reference graph of a document set.
//
// Nodes are schema URIs and an edge a -> b means some $ref inside a points
// into b. References inside one document are counted on the node instead of
// drawn. The graph is a static view of the input: it does not dereference
// anything, so it also works on sets the dereferencer rejects.
//
//	g, err := refgraph.Build(docs)
//	for _, c := range g.Cycles() {
//	    fmt.Println(strings.Join(c, " -> "))
//	}
//	svg, err := refgraph.RenderSVG(ctx, refgraph.ToDOT(g, refgraph.Options{Detailed: true}))
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no system installation is needed.
package refgraph
