package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpdg/graph"
)

func findByText(nodes []*graph.Node, text string) *graph.Node {
	for _, n := range nodes {
		if n.Text == text {
			return n
		}
	}
	return nil
}

func TestDefUseDeclarationWithInitializer(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructCFG([]byte("int add(int a, int b) { int c = a + b; return c; }"), "")
	require.NoError(t, err)

	decl := findByText(g.Nodes, "int c = a + b;")
	require.NotNil(t, decl)
	assert.True(t, decl.Defs.Has("c"))
	assert.True(t, decl.Uses.Has("a"))
	assert.True(t, decl.Uses.Has("b"))
	assert.False(t, decl.Uses.Has("c"))
}

func TestDefUseParametersAreDefsOnFunctionNode(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructCFG([]byte("int add(int a, int b) { int c = a + b; return c; }"), "")
	require.NoError(t, err)

	fn := findByKind(g.Nodes, "function_definition")
	require.NotNil(t, fn)
	assert.True(t, fn.Defs.Has("a"))
	assert.True(t, fn.Defs.Has("b"))
}

func TestDefUseAssignmentLHSIsDefOnly(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructCFG([]byte("int f(int a, int b) { b = a + 1; return b; }"), "")
	require.NoError(t, err)

	assign := findByText(g.Nodes, "b = a + 1;")
	require.NotNil(t, assign)
	assert.True(t, assign.Defs.Has("b"))
	assert.False(t, assign.Uses.Has("b"))
	assert.True(t, assign.Uses.Has("a"))
}

func TestDefUseUpdateExpressionIsDefAndUse(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructCFG([]byte("int f(int n) { int i = 0; while (i < n) { i++; } return i; }"), "")
	require.NoError(t, err)

	inc := findByText(g.Nodes, "i++;")
	require.NotNil(t, inc)
	assert.True(t, inc.Defs.Has("i"))
	assert.True(t, inc.Uses.Has("i"))
}

func TestDefUseCallArgumentsAreConservativeDefAndUse(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructCFG([]byte("int f(int x) { int y = g(x); return y; }"), "")
	require.NoError(t, err)

	call := findByText(g.Nodes, "int y = g(x);")
	require.NotNil(t, call)
	assert.True(t, call.Defs.Has("y"))
	assert.True(t, call.Defs.Has("x"))
	assert.True(t, call.Uses.Has("x"))
}

func TestDefUseScanfAddressOfIsDefOnly(t *testing.T) {
	a := newTestAnalyzer()
	g, err := a.ConstructCFG([]byte("int f() { int x; scanf(\"%d\", &x); return x; }"), "")
	require.NoError(t, err)

	call := findByText(g.Nodes, "scanf(\"%d\", &x);")
	require.NotNil(t, call)
	assert.True(t, call.Defs.Has("x"))
	assert.False(t, call.Uses.Has("x"))
}
