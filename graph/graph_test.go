package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOperations(t *testing.T) {
	a := NewSet("x", "y")
	b := NewSet("y", "z")

	assert.True(t, a.Has("x"))
	assert.False(t, a.Has("z"))
	assert.Equal(t, []string{"y"}, a.Intersect(b).Slice())
	assert.Equal(t, []string{"x", "y", "z"}, a.Union(b).Slice())
}

func TestGraphAddNodeIdempotent(t *testing.T) {
	g := New()
	n := &Node{ID: 1, Kind: "return_statement", Line: 3}
	g.AddNode(n)
	g.AddNode(n)
	assert.Len(t, g.Nodes, 1)
	assert.Same(t, n, g.Node(1))
}

func TestGraphEdgeIndices(t *testing.T) {
	g := New()
	a := &Node{ID: 1, Line: 1}
	b := &Node{ID: 2, Line: 2}
	g.AddNode(a)
	g.AddNode(b)
	e := &Edge{Source: a, Target: b, Kind: CFG, Label: "Y"}
	g.AddEdge(e)

	assert.Equal(t, []*Edge{e}, g.Out(1))
	assert.Equal(t, []*Edge{e}, g.In(2))
	assert.True(t, g.HasEdge(1, 2, "Y"))
	assert.False(t, g.HasEdge(1, 2, "N"))
	assert.Len(t, g.OfKind(CFG), 1)
	assert.Len(t, g.OfKind(DDG), 0)
}

func TestByLineOrdersByLineThenID(t *testing.T) {
	g := New()
	a := &Node{ID: 2, Line: 5}
	b := &Node{ID: 1, Line: 5}
	c := &Node{ID: 3, Line: 2}
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)

	ordered := g.ByLine()
	assert.Equal(t, []int{3, 1, 2}, []int{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}
