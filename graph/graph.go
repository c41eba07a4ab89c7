// Package graph holds the shared Node/Edge/Graph data model used by every
// stage of the analysis pipeline (CFG, CDG, DDG, PDG). CDG, DDG and PDG
// graphs reuse the exact *Node values the CFG builder created for a given
// function, so node identity (by ID) is stable across all four artifacts.
package graph

import "sort"

// Set is an unordered string set, used for a Node's defs/uses and for a
// DDG Edge's witnessing variable set.
type Set map[string]struct{}

// NewSet builds a Set from the given members.
func NewSet(members ...string) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Has reports whether name is a member.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Intersect returns the members shared by s and o.
func (s Set) Intersect(o Set) Set {
	out := Set{}
	small, big := s, o
	if len(o) < len(s) {
		small, big = o, s
	}
	for k := range small {
		if big.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Union returns the members of s and o combined.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for k := range s {
		out.Add(k)
	}
	for k := range o {
		out.Add(k)
	}
	return out
}

// Slice returns the set's members in sorted order, for deterministic output.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Node is a statement-granularity unit of analysis (spec §3).
type Node struct {
	// ID is stable and unique within one analysis; CDG/DDG/PDG graphs built
	// from the same CFG reuse the identical *Node, so IDs agree everywhere.
	ID int
	// Kind is copied verbatim from the CST node's kind (e.g.
	// "if_statement", "declaration", "function_definition").
	Kind string
	// Line is the 1-based source line of the node's first token.
	Line int
	// Text is the node's headline text (see spec §3/§4.1 for the rules
	// governing branches, case arms, and the function signature).
	Text string
	// IsBranch is true for if/while/for headers, `case V:` arms (not the
	// default arm) and a do-statement's condition clause.
	IsBranch bool
	Defs     Set
	Uses     Set
}

// EdgeKind tags which artifact an Edge belongs to.
type EdgeKind string

const (
	CFG EdgeKind = "CFG"
	CDG EdgeKind = "CDG"
	DDG EdgeKind = "DDG"
)

// Edge is a directed edge between two Nodes of a Graph.
//
//   - CFG edges carry Label "" (unconditional, including a switch's dispatch
//     edge to each case arm) or "Y"/"N" (branch outcome).
//   - CDG edges carry the branch outcome that makes Target control-dependent
//     on Source, or "entry"/"branch" for the synthetic root attachment.
//   - DDG edges carry a non-empty Variables set naming the def/use pair that
//     justifies the dependence; Label is always "".
type Edge struct {
	Source    *Node
	Target    *Node
	Label     string
	Kind      EdgeKind
	Variables Set
}

// Graph is an ordered node list plus its edge collection, as defined by
// spec §3. A Graph may hold edges of more than one EdgeKind (the PDG is
// exactly a CFG's node set with its CDG and DDG edges overlaid).
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	byID map[int]*Node
	out  map[int][]*Edge
	in   map[int][]*Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		byID: map[int]*Node{},
		out:  map[int][]*Edge{},
		in:   map[int][]*Edge{},
	}
}

// AddNode appends n to the graph, unless a node with the same ID is already
// present (CDG/DDG/PDG construction copies the CFG's node slice verbatim,
// so this makes re-adding idempotent).
func (g *Graph) AddNode(n *Node) {
	if n == nil {
		return
	}
	if _, ok := g.byID[n.ID]; ok {
		return
	}
	g.Nodes = append(g.Nodes, n)
	g.byID[n.ID] = n
}

// AddEdge appends e, indexing it for Out/In/HasEdge lookups. Both
// endpoints must already have been added via AddNode.
func (g *Graph) AddEdge(e *Edge) {
	if e == nil || e.Source == nil || e.Target == nil {
		return
	}
	g.Edges = append(g.Edges, e)
	g.out[e.Source.ID] = append(g.out[e.Source.ID], e)
	g.in[e.Target.ID] = append(g.in[e.Target.ID], e)
}

// Node looks up a node by ID.
func (g *Graph) Node(id int) *Node { return g.byID[id] }

// Out returns every edge leaving id, in insertion order.
func (g *Graph) Out(id int) []*Edge { return g.out[id] }

// In returns every edge entering id, in insertion order.
func (g *Graph) In(id int) []*Edge { return g.in[id] }

// HasEdge reports whether an edge from srcID to dstID with the given label
// exists. This is the public contract spec §4.2 asks CFG storage to honor;
// it holds for any EdgeKind since all edges share one index.
func (g *Graph) HasEdge(srcID, dstID int, label string) bool {
	for _, e := range g.out[srcID] {
		if e.Target.ID == dstID && e.Label == label {
			return true
		}
	}
	return false
}

// OfKind returns every edge of the given kind, in insertion order.
func (g *Graph) OfKind(kind EdgeKind) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ByLine returns the graph's nodes sorted by source line, ties broken by
// ID (which is assigned in CST pre-order), matching spec §5's ordering
// guarantee.
func (g *Graph) ByLine() []*Node {
	out := make([]*Node, len(g.Nodes))
	copy(out, g.Nodes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].ID < out[j].ID
	})
	return out
}
