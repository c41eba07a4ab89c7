package analyzer

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/viant/cpdg/graph"
)

// ConstructDDG builds the data-dependence graph of the named function.
// Spec §4.4, §6.
func (a *Analyzer) ConstructDDG(code []byte, name string) (*graph.Graph, error) {
	cfg, err := a.ConstructCFG(code, name)
	if err != nil {
		return graph.New(), err
	}
	return ddgFromCFG(cfg), nil
}

// varIndex assigns a stable bit position to every variable name seen across
// a function's defs/uses, so set operations in the hot def/use/redefinition
// loop run as bitset intersections rather than map churn.
type varIndex struct {
	bit map[string]uint
}

func newVarIndex(nodes []*graph.Node) *varIndex {
	vi := &varIndex{bit: map[string]uint{}}
	for _, n := range nodes {
		for name := range n.Defs {
			vi.intern(name)
		}
		for name := range n.Uses {
			vi.intern(name)
		}
	}
	return vi
}

func (vi *varIndex) intern(name string) uint {
	if b, ok := vi.bit[name]; ok {
		return b
	}
	b := uint(len(vi.bit))
	vi.bit[name] = b
	return b
}

func (vi *varIndex) bits(names graph.Set) *bitset.BitSet {
	b := bitset.New(uint(len(vi.bit)))
	for name := range names {
		b.Set(vi.bit[name])
	}
	return b
}

func (vi *varIndex) names(b *bitset.BitSet) graph.Set {
	out := graph.Set{}
	for name, bit := range vi.bit {
		if b.Test(bit) {
			out.Add(name)
		}
	}
	return out
}

// ddgFromCFG implements spec §4.4's line-order approximation: for every
// ordered pair (x, y) with x.line < y.line, emit a DDG edge when their
// defs/uses intersect in one of three ways and no intervening node (by
// line) redefines the witnessing variable(s).
func ddgFromCFG(cfg *graph.Graph) *graph.Graph {
	out := graph.New()
	for _, n := range cfg.Nodes {
		out.AddNode(n)
	}

	byLine := cfg.ByLine()
	vi := newVarIndex(byLine)

	defs := make([]*bitset.BitSet, len(byLine))
	uses := make([]*bitset.BitSet, len(byLine))
	for i, n := range byLine {
		defs[i] = vi.bits(n.Defs)
		uses[i] = vi.bits(n.Uses)
	}

	for i, x := range byLine {
		for j := i + 1; j < len(byLine); j++ {
			y := byLine[j]
			if y.Line == x.Line {
				continue
			}

			witness := defs[i].Intersection(uses[j])
			witness.InPlaceUnion(uses[i].Intersection(defs[j]))
			witness.InPlaceUnion(defs[i].Intersection(defs[j]))
			if witness.None() {
				continue
			}
			if redefinedBetween(byLine, defs, i, j, witness) {
				continue
			}
			out.AddEdge(&graph.Edge{Source: x, Target: y, Kind: graph.DDG, Variables: vi.names(witness)})
		}
	}
	return out
}

// redefinedBetween reports whether any node strictly between positions i and
// j in byLine (line-ordered) redefines a variable in witness.
func redefinedBetween(byLine []*graph.Node, defs []*bitset.BitSet, i, j int, witness *bitset.BitSet) bool {
	xLine, yLine := byLine[i].Line, byLine[j].Line
	for k := i + 1; k < j; k++ {
		if byLine[k].Line <= xLine || byLine[k].Line >= yLine {
			continue
		}
		if defs[k].IntersectionCardinality(witness) > 0 {
			return true
		}
	}
	return false
}
