package analyzer

import "github.com/viant/cpdg/graph"

// ConstructPDG builds the program-dependence graph of the named function:
// the CFG's node set with every CDG edge and every DDG edge overlaid, with
// no deduplication (spec §4.5, §6).
func (a *Analyzer) ConstructPDG(code []byte, name string) (*graph.Graph, error) {
	cfg, err := a.ConstructCFG(code, name)
	if err != nil {
		return graph.New(), err
	}
	return a.pdgFromCFG(cfg), nil
}

func (a *Analyzer) pdgFromCFG(cfg *graph.Graph) *graph.Graph {
	cdg := a.cdgFromCFG(cfg)
	ddg := ddgFromCFG(cfg)

	pdg := graph.New()
	for _, n := range cfg.Nodes {
		pdg.AddNode(n)
	}
	for _, e := range cdg.Edges {
		pdg.AddEdge(e)
	}
	for _, e := range ddg.Edges {
		pdg.AddEdge(e)
	}
	return pdg
}

// Stats summarizes a function's dependence graphs, supplementing the core
// graph-construction API with the node/edge counters the Python original
// exposed via analyze_function_complexity.
type Stats struct {
	Nodes    int
	CDGEdges int
	DDGEdges int
}

// ComputeStats builds a PDG for the named function and reports its size.
func (a *Analyzer) ComputeStats(code []byte, name string) (Stats, error) {
	pdg, err := a.ConstructPDG(code, name)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Nodes:    len(pdg.Nodes),
		CDGEdges: len(pdg.OfKind(graph.CDG)),
		DDGEdges: len(pdg.OfKind(graph.DDG)),
	}, nil
}
