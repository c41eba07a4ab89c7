package analyzer

import (
	"fmt"

	"github.com/viant/cpdg/cst"
	"github.com/viant/cpdg/graph"
)

// ConstructCFGAll builds one CFG per function_definition in the translation
// unit, keyed by function name. A function whose declarator carries no
// identifiable name is keyed by its ordinal position ("#0", "#1", ...).
func (a *Analyzer) ConstructCFGAll(code []byte) (map[string]*graph.Graph, error) {
	return a.forEachFunction(code, func(fn cst.Node) *graph.Graph {
		g, _ := a.buildCFG(fn, code)
		return g
	})
}

// ConstructCDGAll builds one CDG per function_definition in the translation
// unit, keyed like ConstructCFGAll.
func (a *Analyzer) ConstructCDGAll(code []byte) (map[string]*graph.Graph, error) {
	return a.forEachFunction(code, func(fn cst.Node) *graph.Graph {
		cfg, _ := a.buildCFG(fn, code)
		return a.cdgFromCFG(cfg)
	})
}

// ConstructDDGAll builds one DDG per function_definition in the translation
// unit, keyed like ConstructCFGAll.
func (a *Analyzer) ConstructDDGAll(code []byte) (map[string]*graph.Graph, error) {
	return a.forEachFunction(code, func(fn cst.Node) *graph.Graph {
		cfg, _ := a.buildCFG(fn, code)
		return ddgFromCFG(cfg)
	})
}

// ConstructPDGAll builds one PDG per function_definition in the translation
// unit, keyed like ConstructCFGAll.
func (a *Analyzer) ConstructPDGAll(code []byte) (map[string]*graph.Graph, error) {
	return a.forEachFunction(code, func(fn cst.Node) *graph.Graph {
		cfg, _ := a.buildCFG(fn, code)
		return a.pdgFromCFG(cfg)
	})
}

func (a *Analyzer) forEachFunction(code []byte, build func(cst.Node) *graph.Graph) (map[string]*graph.Graph, error) {
	root, err := a.parse(code)
	if err != nil {
		return nil, err
	}
	out := map[string]*graph.Graph{}
	for i, fn := range functions(root) {
		name := functionName(fn)
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		out[name] = build(fn)
	}
	return out, nil
}
