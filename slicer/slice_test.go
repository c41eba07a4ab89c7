package slicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpdg/analyzer"
	"github.com/viant/cpdg/cst"
	"github.com/viant/cpdg/graph"
)

func newTestAnalyzer() *analyzer.Analyzer {
	return analyzer.New(cst.C)
}

func findByText(g *graph.Graph, text string) *graph.Node {
	for _, n := range g.Nodes {
		if n.Text == text {
			return n
		}
	}
	return nil
}

func textsOf(set nodeSet) []string {
	var out []string
	for _, n := range set {
		out = append(out, n.Text)
	}
	return out
}

func nodesOf(set nodeSet) []*graph.Node {
	var out []*graph.Node
	for _, n := range set {
		out = append(out, n)
	}
	return out
}

func TestBackwardSliceStraightLineAdd(t *testing.T) {
	a := newTestAnalyzer()
	code := `int add(int a, int b) {
	int c = a + b;
	return c;
}`
	pdg, err := a.ConstructPDG([]byte(code), "")
	require.NoError(t, err)

	ret := findByText(pdg, "return c;")
	require.NotNil(t, ret)

	back := Backward(pdg, []*graph.Node{ret})
	assert.Contains(t, textsOf(back), "int c = a + b;")
	assert.Contains(t, textsOf(back), "return c;")
}

func TestBackwardIsIdempotent(t *testing.T) {
	a := newTestAnalyzer()
	pdg, err := a.ConstructPDG([]byte(`int sum(int n) {
		int s = 0;
		int i = 0;
		while (i < n) { i = i + 1; if (i % 2 == 0) continue; s = s + i; }
		return s;
	}`), "")
	require.NoError(t, err)

	ret := findByText(pdg, "return s;")
	require.NotNil(t, ret)

	once := Backward(pdg, []*graph.Node{ret})
	twice := Backward(pdg, nodesOf(once))
	assert.Equal(t, len(once), len(twice))
	for id := range once {
		_, ok := twice[id]
		assert.True(t, ok)
	}
}

func TestSliceByFunctionCall(t *testing.T) {
	a := newTestAnalyzer()
	s := New(a)
	code := `int f(int x) {
	int y = x + 1;
	if (g(y))
		return y;
	return -1;
}`
	text, found, err := s.SliceByFunctionCall([]byte(code), "", "g")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, text, "int f(int x)")
	assert.Contains(t, text, "int y = x + 1;")
	assert.Contains(t, text, "if (g(y))")
	assert.Contains(t, text, "return y;")
	assert.Contains(t, text, "return -1;")
}

func TestSliceByFunctionCallSoundness(t *testing.T) {
	a := newTestAnalyzer()
	pdg, err := a.ConstructPDG([]byte("int f(int x) { int y = x + 1; if (g(y)) return y; return -1; }"), "")
	require.NoError(t, err)

	seeds := CallSites(pdg, "g")
	require.NotEmpty(t, seeds)
	for _, n := range seeds {
		assert.Contains(t, n.Text, "g(")
	}
}

func TestSliceByFunctionCallMissingCalleeIsLegalEmptyResult(t *testing.T) {
	a := newTestAnalyzer()
	s := New(a)
	text, found, err := s.SliceByFunctionCall([]byte("int f(int x) { return x; }"), "", "g")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, text)
}
