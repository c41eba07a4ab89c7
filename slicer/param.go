package slicer

import (
	"fmt"
	"sort"

	"github.com/viant/cpdg/graph"
)

// ParameterSliceResult is the parameter-interaction analysis of one function
// (spec §4.7): for every parameter, the statements its value can reach; the
// union of every return statement's backward slice; and, for every ordered
// pair of parameters, the statements through which the first can influence
// the second.
type ParameterSliceResult struct {
	Function        string
	Parameters      []string
	ParameterSlices map[string][]int
	ReturnSlice     []int
	Interactions    map[string]map[string][]int
	Snippets        map[string]string
}

// AnalyzeParameters builds the PDG for function and computes its parameter
// slice analysis (spec §4.7).
func (s *Slicer) AnalyzeParameters(code []byte, function string) (ParameterSliceResult, error) {
	result := ParameterSliceResult{
		Function:        function,
		ParameterSlices: map[string][]int{},
		Interactions:    map[string]map[string][]int{},
		Snippets:        map[string]string{},
	}

	params, err := s.a.Parameters(code, function)
	if err != nil {
		return result, err
	}
	result.Parameters = params

	pdg, err := s.a.ConstructPDG(code, function)
	if err != nil {
		return result, err
	}
	byLine := pdg.ByLine()

	forwardSets := make(map[string]nodeSet, len(params))
	for _, p := range params {
		seed := firstUseWithoutDef(byLine, p)
		if seed == nil {
			continue
		}
		fwd := Forward(pdg, []*graph.Node{seed})
		forwardSets[p] = fwd
		result.ParameterSlices[p] = linesOf(fwd)
		result.Snippets[fmt.Sprintf("param:%s", p)] = Render(pdg, fwd)
	}

	var returns []*graph.Node
	for _, n := range byLine {
		if n.Kind == "return_statement" {
			returns = append(returns, n)
		}
	}
	if len(returns) > 0 {
		returnSlice := Backward(pdg, returns)
		result.ReturnSlice = linesOf(returnSlice)
		result.Snippets["return"] = Render(pdg, returnSlice)
	}

	for _, p1 := range params {
		fwd, ok := forwardSets[p1]
		if !ok {
			continue
		}
		for _, p2 := range params {
			if p1 == p2 {
				continue
			}
			var witness nodeSet
			for _, n := range fwd {
				if n.Defs.Has(p2) {
					if witness == nil {
						witness = nodeSet{}
					}
					witness.add(n)
				}
			}
			if len(witness) == 0 {
				continue
			}
			if result.Interactions[p1] == nil {
				result.Interactions[p1] = map[string][]int{}
			}
			result.Interactions[p1][p2] = linesOf(witness)
			result.Snippets[fmt.Sprintf("interaction:%s->%s", p1, p2)] = Render(pdg, witness)
		}
	}

	return result, nil
}

// firstUseWithoutDef returns the earliest (by line, then ID) node that uses
// param without also defining it, the seed for its forward slice (spec
// §4.7).
func firstUseWithoutDef(byLine []*graph.Node, param string) *graph.Node {
	for _, n := range byLine {
		if n.Uses.Has(param) && !n.Defs.Has(param) {
			return n
		}
	}
	return nil
}

func linesOf(set nodeSet) []int {
	seen := map[int]bool{}
	var lines []int
	for _, n := range set {
		if !seen[n.Line] {
			seen[n.Line] = true
			lines = append(lines, n.Line)
		}
	}
	sort.Ints(lines)
	return lines
}
