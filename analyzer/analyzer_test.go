package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/cpdg/cst"
)

func newTestAnalyzer() *Analyzer {
	return New(cst.C)
}

func TestFindFunctionByNameAndDefault(t *testing.T) {
	a := newTestAnalyzer()
	root, err := a.parse([]byte(`int add(int a, int b) { return a + b; }`))
	require.NoError(t, err)

	fn, err := findFunction(root, "")
	require.NoError(t, err)
	assert.Equal(t, "add", functionName(fn))

	fn, err = findFunction(root, "add")
	require.NoError(t, err)
	assert.Equal(t, "add", functionName(fn))

	_, err = findFunction(root, "missing")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestParseSyntaxError(t *testing.T) {
	a := newTestAnalyzer()
	_, err := a.parse([]byte(`int add(int a, int b) { return a + ; }`))
	assert.ErrorIs(t, err, ErrSyntax)
}
