package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpdg/graph"
)

func hasDDGEdge(g *graph.Graph, sourceID, targetID int, variable string) bool {
	for _, e := range g.OfKind(graph.DDG) {
		if e.Source.ID == sourceID && e.Target.ID == targetID && e.Variables.Has(variable) {
			return true
		}
	}
	return false
}

const sumSource = `int sum(int n) {
	int s = 0;
	int i = 0;
	while (i < n) {
		i = i + 1;
		if (i % 2 == 0)
			continue;
		s = s + i;
	}
	return s;
}`

func TestDDGStraightLineAddWitnessesC(t *testing.T) {
	a := newTestAnalyzer()
	code := `int add(int a, int b) {
	int c = a + b;
	return c;
}`
	g, err := a.ConstructDDG([]byte(code), "")
	require.NoError(t, err)

	decl := findByText(g.Nodes, "int c = a + b;")
	ret := findByText(g.Nodes, "return c;")
	require.NotNil(t, decl)
	require.NotNil(t, ret)

	require.True(t, hasDDGEdge(g, decl.ID, ret.ID, "c"))
}

func TestDDGWhileSumTransitiveChain(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructDDG([]byte(sumSource), "")
	require.NoError(t, err)

	sInit := findByText(g.Nodes, "int s = 0;")
	sUpdate := findByText(g.Nodes, "s = s + i;")
	iInit := findByText(g.Nodes, "int i = 0;")
	iUpdate := findByText(g.Nodes, "i = i + 1;")
	require.NotNil(t, sInit)
	require.NotNil(t, sUpdate)
	require.NotNil(t, iInit)
	require.NotNil(t, iUpdate)

	assert.True(t, hasDDGEdge(g, sInit.ID, sUpdate.ID, "s"))
	assert.True(t, hasDDGEdge(g, iUpdate.ID, sUpdate.ID, "i"))
	assert.True(t, hasDDGEdge(g, iInit.ID, iUpdate.ID, "i"))
}

func TestDDGIntercedingRedefinitionBlocksEdge(t *testing.T) {
	a := newTestAnalyzer()
	code := `int f(int a) {
	int x = a;
	x = 0;
	return x;
}`
	g, err := a.ConstructDDG([]byte(code), "")
	require.NoError(t, err)

	decl := findByText(g.Nodes, "int x = a;")
	kill := findByText(g.Nodes, "x = 0;")
	ret := findByText(g.Nodes, "return x;")
	require.NotNil(t, decl)
	require.NotNil(t, kill)
	require.NotNil(t, ret)

	assert.False(t, hasDDGEdge(g, decl.ID, ret.ID, "x"), "x = 0; kills the initial definition")
	assert.True(t, hasDDGEdge(g, kill.ID, ret.ID, "x"))
}

func TestDDGEveryEdgeHasNonEmptyWitnessSubsetOfDefsUses(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructDDG([]byte(sumSource), "")
	require.NoError(t, err)

	require.NotEmpty(t, g.OfKind(graph.DDG))
	for _, e := range g.OfKind(graph.DDG) {
		assert.NotEmpty(t, e.Variables)
		allowed := e.Source.Defs.Union(e.Source.Uses).Union(e.Target.Defs).Union(e.Target.Uses)
		for v := range e.Variables {
			assert.True(t, allowed.Has(v), "witness %q must be in defs/uses of source or target", v)
		}
	}
}
