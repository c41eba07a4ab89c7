package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/cpdg/graph"
)

func sampleGraph() *graph.Graph {
	g := graph.New()
	fn := &graph.Node{ID: 0, Kind: "function_definition", Line: 1, Text: "int add(int a, int b)"}
	decl := &graph.Node{ID: 1, Kind: "declaration", Line: 1, Text: "int c = a + b;", Defs: graph.NewSet("c"), Uses: graph.NewSet("a", "b")}
	ret := &graph.Node{ID: 2, Kind: "return_statement", Line: 1, Text: "return c;", Uses: graph.NewSet("c")}
	g.AddNode(fn)
	g.AddNode(decl)
	g.AddNode(ret)
	g.AddEdge(&graph.Edge{Source: fn, Target: decl, Kind: graph.CFG})
	g.AddEdge(&graph.Edge{Source: decl, Target: ret, Kind: graph.CFG})
	g.AddEdge(&graph.Edge{Source: decl, Target: ret, Kind: graph.DDG, Variables: graph.NewSet("c")})
	return g
}

func TestDOTRendersShapesAndStyles(t *testing.T) {
	out := DOT("add", sampleGraph())
	assert.Contains(t, out, "digraph add {")
	assert.Contains(t, out, "shape=ellipse")
	assert.Contains(t, out, `style=dotted, color=red`)
}

func TestYAMLIncludesNodeFields(t *testing.T) {
	out, err := YAML(sampleGraph())
	assert.NoError(t, err)
	assert.Contains(t, string(out), "kind: declaration")
	assert.Contains(t, string(out), "- c")
}
