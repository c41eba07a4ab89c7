package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFunctionSource = `int inc(int x) {
	return x + 1;
}

int dec(int x) {
	return x - 1;
}`

func TestConstructCFGAllBuildsOneGraphPerFunction(t *testing.T) {
	a := newTestAnalyzer()
	graphs, err := a.ConstructCFGAll([]byte(twoFunctionSource))
	require.NoError(t, err)
	require.Len(t, graphs, 2)

	for _, name := range []string{"inc", "dec"} {
		g, ok := graphs[name]
		require.True(t, ok, "expected a CFG for %q", name)
		assert.Len(t, g.Nodes, 2)
		fn := findByKind(g.Nodes, "function_definition")
		ret := findByKind(g.Nodes, "return_statement")
		require.NotNil(t, fn)
		require.NotNil(t, ret)
		assert.True(t, g.HasEdge(fn.ID, ret.ID, ""))
	}
}

func TestConstructPDGAllSharesNodeIdentityPerFunction(t *testing.T) {
	a := newTestAnalyzer()
	cfgs, err := a.ConstructCFGAll([]byte(twoFunctionSource))
	require.NoError(t, err)
	pdgs, err := a.ConstructPDGAll([]byte(twoFunctionSource))
	require.NoError(t, err)

	for name, cfg := range cfgs {
		pdg, ok := pdgs[name]
		require.True(t, ok)
		assert.Equal(t, len(cfg.Nodes), len(pdg.Nodes))
	}
}

func TestConstructAllSyntaxError(t *testing.T) {
	a := newTestAnalyzer()
	_, err := a.ConstructCFGAll([]byte("int broken( { return; }"))
	assert.ErrorIs(t, err, ErrSyntax)
}
