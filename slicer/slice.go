// Package slicer implements program slicing over a function's program-
// dependence graph: backward/forward/combined slices, slicing by call-site,
// and the variable-relatedness fallback (spec §4.6).
package slicer

import (
	"fmt"
	"strings"

	"github.com/viant/cpdg/analyzer"
	"github.com/viant/cpdg/graph"
)

// Slicer computes program slices for one language's functions, built atop
// an Analyzer's PDG construction (spec §4.6).
type Slicer struct {
	a *analyzer.Analyzer
}

// New returns a Slicer that delegates graph construction to a.
func New(a *analyzer.Analyzer) *Slicer {
	return &Slicer{a: a}
}

// nodeSet is the id-keyed working set a fixpoint grows.
type nodeSet map[int]*graph.Node

func (s nodeSet) add(n *graph.Node) bool {
	if _, ok := s[n.ID]; ok {
		return false
	}
	s[n.ID] = n
	return true
}

// Backward computes the transitive predecessor closure of seed over the
// PDG's combined CDG ∪ DDG edge set (spec §4.6).
func Backward(pdg *graph.Graph, seed []*graph.Node) nodeSet {
	return fixpoint(pdg, seed, func(g *graph.Graph, id int) []*graph.Edge { return g.In(id) }, edgeSource)
}

// Forward computes the transitive successor closure of seed over the PDG's
// combined CDG ∪ DDG edge set (spec §4.6).
func Forward(pdg *graph.Graph, seed []*graph.Node) nodeSet {
	return fixpoint(pdg, seed, func(g *graph.Graph, id int) []*graph.Edge { return g.Out(id) }, edgeTarget)
}

func edgeSource(e *graph.Edge) *graph.Node { return e.Source }
func edgeTarget(e *graph.Edge) *graph.Node { return e.Target }

func fixpoint(pdg *graph.Graph, seed []*graph.Node, edgesOf func(*graph.Graph, int) []*graph.Edge, endpoint func(*graph.Edge) *graph.Node) nodeSet {
	set := nodeSet{}
	var stack []*graph.Node
	for _, n := range seed {
		if set.add(n) {
			stack = append(stack, n)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range edgesOf(pdg, n.ID) {
			if e.Kind != graph.CDG && e.Kind != graph.DDG {
				continue
			}
			next := endpoint(e)
			if set.add(next) {
				stack = append(stack, next)
			}
		}
	}
	return set
}

// CallSites returns every PDG node whose text contains the literal
// substring "<callee>(" (spec §4.6's seed-selection rule).
func CallSites(pdg *graph.Graph, callee string) []*graph.Node {
	needle := callee + "("
	var out []*graph.Node
	for _, n := range pdg.Nodes {
		if strings.Contains(n.Text, needle) {
			out = append(out, n)
		}
	}
	return out
}

// Combined computes backward(seed) ∪ forward(seed) ∪ backward(forward(seed)
// \ backward(seed)), then applies the declaration-closure rule (spec
// §4.6).
func Combined(pdg *graph.Graph, seed []*graph.Node) nodeSet {
	back := Backward(pdg, seed)
	fwd := Forward(pdg, seed)

	var onlyForward []*graph.Node
	for id, n := range fwd {
		if _, ok := back[id]; !ok {
			onlyForward = append(onlyForward, n)
		}
	}
	backOfForward := Backward(pdg, onlyForward)

	combined := nodeSet{}
	for id, n := range back {
		combined[id] = n
	}
	for id, n := range fwd {
		combined[id] = n
	}
	for id, n := range backOfForward {
		combined[id] = n
	}

	closeDeclarations(pdg, combined)
	return combined
}

// closeDeclarations extends set in place: for every variable appearing in
// the selected nodes' defs/uses, add any node that defines it and has an
// empty uses set (a pure declaration), per spec §4.6.
func closeDeclarations(pdg *graph.Graph, set nodeSet) {
	vars := graph.Set{}
	for _, n := range set {
		for v := range n.Defs {
			vars.Add(v)
		}
		for v := range n.Uses {
			vars.Add(v)
		}
	}
	for _, n := range pdg.Nodes {
		if len(n.Uses) != 0 {
			continue
		}
		for v := range n.Defs {
			if vars.Has(v) {
				set.add(n)
				break
			}
		}
	}
}

// SliceByFunctionCall runs the combined slice seeded by every call-site of
// callee and renders it as source text, or returns false if callee has no
// call-site in the function (spec §4.6, §6, §7).
func (s *Slicer) SliceByFunctionCall(code []byte, function, callee string) (string, bool, error) {
	pdg, err := s.a.ConstructPDG(code, function)
	if err != nil {
		return "", false, err
	}
	seeds := CallSites(pdg, callee)
	if len(seeds) == 0 {
		return "", false, nil
	}
	selected := Combined(pdg, seeds)
	return Render(pdg, selected), true, nil
}

// Render produces a textual rendering of the selected nodes, preserving
// source order and wrapped in the function signature (spec §4.6's
// "Emission" rule). Compound-header branches contribute only their header
// text.
func Render(pdg *graph.Graph, selected nodeSet) string {
	var sig string
	var lines []string
	for _, n := range pdg.ByLine() {
		if _, ok := selected[n.ID]; !ok {
			continue
		}
		if n.Kind == "function_definition" {
			sig = n.Text
			continue
		}
		lines = append(lines, fmt.Sprintf("    %s", n.Text))
	}

	var b strings.Builder
	if sig != "" {
		b.WriteString(sig)
		b.WriteString(" {\n")
	} else {
		b.WriteString("{\n")
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
