package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpdg/graph"
)

func TestPDGIsExactlyCDGUnionDDG(t *testing.T) {
	a := newTestAnalyzer()
	code := `int sum(int n) {
		int s = 0;
		int i = 0;
		while (i < n) { i = i + 1; if (i % 2 == 0) continue; s = s + i; }
		return s;
	}`
	cdg, err := a.ConstructCDG([]byte(code), "")
	require.NoError(t, err)
	ddg, err := a.ConstructDDG([]byte(code), "")
	require.NoError(t, err)
	pdg, err := a.ConstructPDG([]byte(code), "")
	require.NoError(t, err)

	assert.Equal(t, len(cdg.Nodes), len(pdg.Nodes))
	assert.Len(t, pdg.Edges, len(cdg.OfKind(graph.CDG))+len(ddg.OfKind(graph.DDG)))
	for _, e := range pdg.Edges {
		assert.True(t, e.Kind == graph.CDG || e.Kind == graph.DDG, "PDG has no edges beyond CDG/DDG")
	}
}

func TestNodeIdentityAcrossGraphs(t *testing.T) {
	a := newTestAnalyzer()
	cfg, err := a.ConstructCFG([]byte(sumSource), "")
	require.NoError(t, err)

	constructors := []func([]byte, string) (*graph.Graph, error){
		a.ConstructCDG, a.ConstructDDG, a.ConstructPDG,
	}
	for _, construct := range constructors {
		g, err := construct([]byte(sumSource), "")
		require.NoError(t, err)
		require.Equal(t, len(cfg.Nodes), len(g.Nodes))
		for _, want := range cfg.Nodes {
			got := g.Node(want.ID)
			require.NotNil(t, got)
			assert.Equal(t, want.Kind, got.Kind)
			assert.Equal(t, want.Line, got.Line)
			assert.Equal(t, want.Text, got.Text)
			assert.Equal(t, want.IsBranch, got.IsBranch)
			assert.Equal(t, want.Defs, got.Defs)
			assert.Equal(t, want.Uses, got.Uses)
		}
	}
}

func TestComputeStats(t *testing.T) {
	a := newTestAnalyzer()
	code := `int add(int a, int b) {
	int c = a + b;
	return c;
}`
	stats, err := a.ComputeStats([]byte(code), "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Nodes)
	assert.Greater(t, stats.CDGEdges, 0)
	assert.Greater(t, stats.DDGEdges, 0)
}
