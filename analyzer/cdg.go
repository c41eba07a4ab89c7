package analyzer

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/viant/cpdg/graph"
)

// CDGStrategy selects the control-dependence construction policy of
// spec §4.3.
type CDGStrategy int

const (
	// Region is the simplified "controlled successor region" policy: the
	// core's canonical strategy.
	Region CDGStrategy = iota
	// Postdominator is the classical postdominator-tree / dominance-frontier
	// construction, offered as an equally acceptable alternative (spec §9).
	Postdominator
)

// ConstructCDG builds the control-dependence graph of the named function.
// Spec §4.3, §6.
func (a *Analyzer) ConstructCDG(code []byte, name string) (*graph.Graph, error) {
	cfg, err := a.ConstructCFG(code, name)
	if err != nil {
		return graph.New(), err
	}
	return a.cdgFromCFG(cfg), nil
}

func (a *Analyzer) cdgFromCFG(cfg *graph.Graph) *graph.Graph {
	switch a.cdgStrategy {
	case Postdominator:
		return a.cdgPostdominator(cfg)
	default:
		return a.cdgRegion(cfg)
	}
}

// cdgRegion implements spec §4.3's simplified "region" policy.
func (a *Analyzer) cdgRegion(cfg *graph.Graph) *graph.Graph {
	out := graph.New()
	for _, n := range cfg.Nodes {
		out.AddNode(n)
	}
	if len(out.Nodes) == 0 {
		return out
	}

	for _, n := range out.Nodes {
		for _, label := range controlledLabels(n, cfg) {
			for _, t := range a.controlledClosure(cfg, n, label) {
				if t.ID == n.ID {
					continue
				}
				out.AddEdge(&graph.Edge{Source: n, Target: t, Label: label, Kind: graph.CDG})
			}
		}
	}

	attachRoot(out)
	return out
}

// attachRoot gives every node without a CDG in-edge a synthetic edge from
// the function-definition node, labelled "branch" for branches and "entry"
// otherwise, keeping the CDG connected and rooted (spec §4.3 step 5).
func attachRoot(out *graph.Graph) {
	if len(out.Nodes) == 0 {
		return
	}
	var root *graph.Node
	for _, n := range out.Nodes {
		if n.Kind == "function_definition" {
			root = n
			break
		}
	}
	if root == nil {
		root = out.Nodes[0]
	}

	for _, n := range out.Nodes {
		if n.ID == root.ID || len(out.In(n.ID)) > 0 {
			continue
		}
		label := "entry"
		if n.IsBranch || n.Kind == "switch_statement" {
			label = "branch"
		}
		out.AddEdge(&graph.Edge{Source: root, Target: n, Label: label, Kind: graph.CDG})
	}
}

// controlledLabels returns the set of outgoing CFG edge labels from n that
// represent a true control dependence, per spec §4.3 step 3.
func controlledLabels(n *graph.Node, cfg *graph.Graph) []string {
	switch n.Kind {
	case "while_statement", "for_statement":
		return []string{"Y"}
	case "if_statement", "case_statement":
		return []string{"Y", "N"}
	case "switch_statement":
		labels := map[string]bool{}
		for _, e := range cfg.Out(n.ID) {
			if e.Kind == graph.CFG {
				labels[e.Label] = true
			}
		}
		out := make([]string, 0, len(labels))
		for l := range labels {
			out = append(out, l)
		}
		sort.Strings(out)
		return out
	default:
		if n.IsBranch {
			// A do-statement's synthetic condition node: loop-like, only
			// the back-edge ("Y") is a control dependence.
			return []string{"Y"}
		}
		return nil
	}
}

// controlledClosure walks the unique-CFG-successor chain starting from n's
// edge(s) labelled label, stopping at a join point or after the hop limit
// (spec §4.3 step 3).
func (a *Analyzer) controlledClosure(cfg *graph.Graph, n *graph.Node, label string) []*graph.Node {
	var seeds []*graph.Node
	for _, e := range cfg.Out(n.ID) {
		if e.Kind == graph.CFG && e.Label == label {
			seeds = append(seeds, e.Target)
		}
	}

	var result []*graph.Node
	seen := map[int]bool{}
	for _, t := range seeds {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)

		cur := t
		for hops := 0; ; hops++ {
			outs := cfgEdgesOf(cfg.Out(cur.ID))
			if len(outs) != 1 {
				break
			}
			next := outs[0].Target
			if len(cfgEdgesOf(cfg.In(next.ID))) > 1 {
				break // join point: do not include, do not continue past it
			}
			if seen[next.ID] {
				break // back-edge into an already-controlled node
			}
			if hops >= a.cdgHopLimit {
				a.warnf("controlled-region walk from node %d exceeded %d hops; truncating", n.ID, a.cdgHopLimit)
				break
			}
			seen[next.ID] = true
			result = append(result, next)
			cur = next
		}
	}
	return result
}

func cfgEdgesOf(edges []*graph.Edge) []*graph.Edge {
	var out []*graph.Edge
	for _, e := range edges {
		if e.Kind == graph.CFG {
			out = append(out, e)
		}
	}
	return out
}

// cdgPostdominator implements the classical alternative (spec §4.3, §9):
// build the postdominator tree by an iterative bitset dataflow fixpoint,
// then, for every CFG edge (u -> v) where v does not postdominate u, mark
// each node from v up the postdominator tree (stopping at u's immediate
// postdominator) as control-dependent on u.
func (a *Analyzer) cdgPostdominator(cfg *graph.Graph) *graph.Graph {
	out := graph.New()
	for _, n := range cfg.Nodes {
		out.AddNode(n)
	}
	if len(out.Nodes) == 0 {
		return out
	}

	index := map[int]int{} // node ID -> bit position
	nodes := make([]*graph.Node, len(out.Nodes))
	copy(nodes, out.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for i, n := range nodes {
		index[n.ID] = i
	}
	n := uint(len(nodes))

	exits := exitNodes(cfg, nodes)

	postdom := make([]*bitset.BitSet, n)
	for i := range postdom {
		full := bitset.New(n)
		for j := uint(0); j < n; j++ {
			full.Set(j)
		}
		postdom[i] = full
	}
	for _, ex := range exits {
		only := bitset.New(n)
		only.Set(uint(index[ex.ID]))
		postdom[index[ex.ID]] = only
	}

	changed := true
	for changed {
		changed = false
		for _, node := range nodes {
			i := index[node.ID]
			if isExit(node, exits) {
				continue
			}
			succs := cfgEdgesOf(cfg.Out(node.ID))
			if len(succs) == 0 {
				continue
			}
			var merged *bitset.BitSet
			for _, e := range succs {
				sIdx := index[e.Target.ID]
				if merged == nil {
					merged = postdom[sIdx].Clone()
				} else {
					merged = merged.Intersection(postdom[sIdx])
				}
			}
			merged.Set(uint(i))
			if !merged.Equal(postdom[i]) {
				postdom[i] = merged
				changed = true
			}
		}
	}

	// Immediate postdominator: the unique strict postdominator closest to n
	// (the one whose own postdom set is the largest strict subset).
	ipdom := make([]int, n)
	for idx := range nodes {
		strict := stripSelf(postdom[idx], uint(idx))
		if strict.Count() == 0 {
			ipdom[idx] = -1
			continue
		}
		// Choose the strict postdominator with the largest postdom set
		// (closest to i in the postdominator tree).
		best := -1
		bestCard := uint(0)
		for j := uint(0); j < n; j++ {
			if !strict.Test(j) {
				continue
			}
			card := postdom[j].Count()
			if best == -1 || card > bestCard {
				bestCard = card
				best = int(j)
			}
		}
		ipdom[idx] = best
	}

	for _, node := range nodes {
		u := index[node.ID]
		for _, e := range cfgEdgesOf(cfg.Out(node.ID)) {
			v := index[e.Target.ID]
			if postdom[u].Test(uint(v)) {
				continue // v postdominates u (or is u): no dependence
			}
			// Walk from v up the postdominator tree, stopping at u's
			// immediate postdominator; every visited node is
			// control-dependent on u.
			stop := ipdom[u]
			for cur := v; cur != -1 && cur != stop; cur = ipdom[cur] {
				if cur != u {
					out.AddEdge(&graph.Edge{Source: node, Target: nodes[cur], Label: e.Label, Kind: graph.CDG})
				}
			}
		}
	}

	attachRoot(out)
	return out
}

func exitNodes(cfg *graph.Graph, nodes []*graph.Node) []*graph.Node {
	var exits []*graph.Node
	for _, n := range nodes {
		if len(cfgEdgesOf(cfg.Out(n.ID))) == 0 {
			exits = append(exits, n)
		}
	}
	if len(exits) == 0 && len(nodes) > 0 {
		exits = append(exits, nodes[len(nodes)-1])
	}
	return exits
}

func isExit(n *graph.Node, exits []*graph.Node) bool {
	for _, e := range exits {
		if e.ID == n.ID {
			return true
		}
	}
	return false
}

func stripSelf(b *bitset.BitSet, self uint) *bitset.BitSet {
	c := b.Clone()
	c.Clear(self)
	return c
}
