package render

import (
	"gopkg.in/yaml.v3"

	"github.com/viant/cpdg/graph"
	"github.com/viant/cpdg/slicer"
)

// GraphDoc is the YAML-serializable shape of one Graph (spec §6's
// machine-readable output mode).
type GraphDoc struct {
	Nodes []NodeDoc `yaml:"nodes"`
	Edges []EdgeDoc `yaml:"edges"`
}

type NodeDoc struct {
	ID       int      `yaml:"id"`
	Kind     string   `yaml:"kind"`
	Line     int      `yaml:"line"`
	Text     string   `yaml:"text"`
	IsBranch bool     `yaml:"is_branch,omitempty"`
	Defs     []string `yaml:"defs,omitempty"`
	Uses     []string `yaml:"uses,omitempty"`
}

type EdgeDoc struct {
	Source    int      `yaml:"source"`
	Target    int      `yaml:"target"`
	Kind      string   `yaml:"kind"`
	Label     string   `yaml:"label,omitempty"`
	Variables []string `yaml:"variables,omitempty"`
}

// ToGraphDoc converts g into its YAML-serializable form.
func ToGraphDoc(g *graph.Graph) GraphDoc {
	doc := GraphDoc{}
	for _, n := range g.ByLine() {
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:       n.ID,
			Kind:     n.Kind,
			Line:     n.Line,
			Text:     n.Text,
			IsBranch: n.IsBranch,
			Defs:     n.Defs.Slice(),
			Uses:     n.Uses.Slice(),
		})
	}
	for _, e := range g.Edges {
		if e.Source == nil || e.Target == nil {
			continue
		}
		doc.Edges = append(doc.Edges, EdgeDoc{
			Source:    e.Source.ID,
			Target:    e.Target.ID,
			Kind:      string(e.Kind),
			Label:     e.Label,
			Variables: e.Variables.Slice(),
		})
	}
	return doc
}

// YAML marshals g as YAML text.
func YAML(g *graph.Graph) ([]byte, error) {
	return yaml.Marshal(ToGraphDoc(g))
}

// ParameterAnalysisDoc is the YAML-serializable shape of a
// slicer.ParameterSliceResult.
type ParameterAnalysisDoc struct {
	Function        string                      `yaml:"function"`
	Parameters      []string                    `yaml:"parameters"`
	ParameterSlices map[string][]int            `yaml:"parameter_slices,omitempty"`
	ReturnSlice     []int                       `yaml:"return_slice,omitempty"`
	Interactions    map[string]map[string][]int `yaml:"interactions,omitempty"`
}

// ParameterAnalysisYAML marshals a parameter-slice result as YAML text,
// omitting the rendered code snippets (kept only in the in-memory result).
func ParameterAnalysisYAML(r slicer.ParameterSliceResult) ([]byte, error) {
	doc := ParameterAnalysisDoc{
		Function:        r.Function,
		Parameters:      r.Parameters,
		ParameterSlices: r.ParameterSlices,
		ReturnSlice:     r.ReturnSlice,
		Interactions:    r.Interactions,
	}
	return yaml.Marshal(doc)
}
