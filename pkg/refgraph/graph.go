package refgraph

import (
	"cmp"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/jsonderef/pkg/errors"
	"github.com/matzehuels/jsonderef/pkg/jsonref"
	"github.com/matzehuels/jsonderef/pkg/jsonvalue"
)

// Node is a schema document, or a schema URI that is referenced but not
// registered.
type Node struct {
	URI      string
	Missing  bool // referenced but not part of the input
	SelfRefs int  // references that stay inside this document
}

// Edge counts the references from one document into another.
type Edge struct {
	From  string
	To    string
	Count int
}

// Graph is the schema-level reference graph of a set of documents.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges map[[2]string]int
}

// Build scans docs for $ref strings and records which schema each one points
// into. Documents are identified like the dereferencer does: by normalized
// $id. Subtrees marked "$deref": false are skipped. References are not
// followed, so a broken pointer inside a known schema is not reported here.
func Build(docs []any) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[[2]string]int),
	}

	roots := make(map[string]any, len(docs))
	for i, doc := range docs {
		m, ok := doc.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "schema #%d is not an object (got %T)", i, doc)
		}
		id, ok := m[jsonvalue.KeyID].(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "schema #%d has no string %s", i, jsonvalue.KeyID)
		}
		uri, err := jsonref.Normalize(id)
		if err != nil {
			return nil, err
		}
		if _, dup := roots[uri]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateSchemaURI, "duplicate schema for URI %q", uri)
		}
		roots[uri] = m
		g.addNode(uri, false)
	}

	for _, uri := range slices.Clone(g.order) {
		if err := g.scan(uri, uri, roots[uri]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) addNode(uri string, missing bool) *Node {
	if n, ok := g.nodes[uri]; ok {
		return n
	}
	n := &Node{URI: uri, Missing: missing}
	g.nodes[uri] = n
	g.order = append(g.order, uri)
	return n
}

func (g *Graph) scan(schemaURI, location string, v any) error {
	if jsonvalue.OptedOut(v) {
		return nil
	}
	switch t := v.(type) {
	case []any:
		for i, elem := range t {
			if err := g.scan(schemaURI, jsonref.AppendPointer(location, strconv.Itoa(i)), elem); err != nil {
				return err
			}
		}
	case map[string]any:
		if raw, ok := t[jsonvalue.KeyRef]; ok {
			ref, ok := raw.(string)
			if !ok {
				return errors.New(errors.ErrCodeNonStringReference,
					"reference in %q is not a string (got %T)", location, raw)
			}
			target, err := jsonref.Resolve(location, ref)
			if err != nil {
				return err
			}
			g.addRef(schemaURI, jsonref.SchemaURI(target))
		}
		for _, k := range jsonvalue.SortedKeys(t) {
			if k == jsonvalue.KeyRef {
				continue
			}
			if err := g.scan(schemaURI, jsonref.AppendPointer(location, k), t[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) addRef(from, to string) {
	if from == to {
		g.nodes[from].SelfRefs++
		return
	}
	g.addNode(to, true)
	g.edges[[2]string{from, to}]++
}

// Nodes returns all nodes, registered documents first in input order, then
// missing targets in discovery order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, uri := range g.order {
		out = append(out, *g.nodes[uri])
	}
	return out
}

// Node returns the node for uri.
func (g *Graph) Node(uri string) (Node, bool) {
	n, ok := g.nodes[uri]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edges returns the cross-schema edges ordered by source, then target.
func (g *Graph) Edges() []Edge {
	keys := slices.SortedFunc(maps.Keys(g.edges), func(a, b [2]string) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
	})
	out := make([]Edge, len(keys))
	for i, k := range keys {
		out[i] = Edge{From: k[0], To: k[1], Count: g.edges[k]}
	}
	return out
}

// EdgeCount returns the number of references from one schema into another.
func (g *Graph) EdgeCount(from, to string) int {
	return g.edges[[2]string{from, to}]
}

// Children returns the schemas uri refers to, sorted.
func (g *Graph) Children(uri string) []string {
	var out []string
	for k := range g.edges {
		if k[0] == uri {
			out = append(out, k[1])
		}
	}
	slices.Sort(out)
	return out
}

// Missing returns the referenced schema URIs that are not registered.
func (g *Graph) Missing() []string {
	var out []string
	for _, uri := range g.order {
		if g.nodes[uri].Missing {
			out = append(out, uri)
		}
	}
	return out
}
