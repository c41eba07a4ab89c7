package analyzer

import (
	"github.com/viant/cpdg/cst"
	"github.com/viant/cpdg/graph"
)

// pending is a (predecessor, label) pair awaiting an outgoing edge, per
// spec §4.2's in_nodes/out_nodes contract.
type pending struct {
	node  *graph.Node
	label string
}

type span struct{ start, end uint32 }

func spanOf(n cst.Node) span { return span{n.StartByte(), n.EndByte()} }

// cfgBuilder holds the mutable state threaded through one function's
// recursive CFG lowering.
type cfgBuilder struct {
	a     *Analyzer
	src   []byte
	ids   *idGenerator
	g     *graph.Graph
	byCST map[span]*graph.Node
}

// ConstructCFG builds the control-flow graph of the named function (or the
// first function in the source when name is empty). Spec §4.2, §6.
func (a *Analyzer) ConstructCFG(code []byte, name string) (*graph.Graph, error) {
	root, err := a.parse(code)
	if err != nil {
		return graph.New(), err
	}
	fn, err := findFunction(root, name)
	if err != nil {
		return graph.New(), err
	}
	g, _ := a.buildCFG(fn, code)
	return g, nil
}

// buildCFG lowers one function_definition into a fresh graph, returning the
// graph and the function's (empty) out_nodes set.
func (a *Analyzer) buildCFG(fn cst.Node, src []byte) (*graph.Graph, []pending) {
	b := &cfgBuilder{a: a, src: src, ids: &idGenerator{}, g: graph.New(), byCST: map[span]*graph.Node{}}
	_, out := b.lower(fn, []pending{{}})
	return b.g, out
}

// makeNode builds, registers, and indexes the analysis node for a CST span.
func (b *cfgBuilder) makeNode(n cst.Node) *graph.Node {
	node := b.a.buildNode(n, b.src, b.ids)
	b.g.AddNode(node)
	b.byCST[spanOf(n)] = node
	return node
}

func (b *cfgBuilder) nodeOf(n cst.Node) *graph.Node {
	if n == nil {
		return nil
	}
	return b.byCST[spanOf(n)]
}

func edgesFrom(in []pending, g *graph.Graph, target *graph.Node) {
	for _, p := range in {
		if p.node == nil {
			continue
		}
		g.AddEdge(&graph.Edge{Source: p.node, Target: target, Label: p.label, Kind: graph.CFG})
	}
}

// lower implements the recursive syntax-directed lowering of spec §4.2. It
// returns the node created for n (nil for compound statements, which create
// none directly) and n's out_nodes.
func (b *cfgBuilder) lower(n cst.Node, in []pending) (*graph.Node, []pending) {
	if n == nil || len(in) == 0 {
		return nil, in
	}

	switch n.Kind() {
	case "function_definition":
		root := b.makeNode(n)
		body := n.ChildByFieldName("body")
		b.lower(body, []pending{{node: root, label: ""}})
		return root, nil

	case "compound_statement":
		for _, c := range n.Children() {
			if c.Kind() == "{" || c.Kind() == "}" {
				continue
			}
			_, out := b.lower(c, in)
			in = out
		}
		return nil, in

	case "if_statement":
		return b.lowerIf(n, in)
	case "while_statement", "for_statement":
		return b.lowerLoop(n, in)
	case "do_statement":
		return b.lowerDo(n, in)
	case "switch_statement":
		return b.lowerSwitch(n, in)
	case "case_statement", "default_statement":
		return b.lowerCase(n, in)
	case "labeled_statement":
		// Transparent: lower the wrapped statement under the same in_nodes.
		if inner := n.ChildByFieldName("statement"); inner != nil {
			return b.lower(inner, in)
		}
		return nil, in

	case "return_statement", "break_statement", "continue_statement":
		node := b.makeNode(n)
		edgesFrom(in, b.g, node)
		return node, nil

	default:
		node := b.makeNode(n)
		edgesFrom(in, b.g, node)
		return node, []pending{{node: node, label: ""}}
	}
}

func (b *cfgBuilder) lowerIf(n cst.Node, in []pending) (*graph.Node, []pending) {
	cond := b.makeNode(n)
	edgesFrom(in, b.g, cond)

	consequence := n.ChildByFieldName("consequence")
	_, thenOut := b.lower(consequence, []pending{{node: cond, label: "Y"}})

	alternative := n.ChildByFieldName("alternative")
	if alternative != nil && alternative.Kind() == "else_clause" {
		// The grammar wraps the else branch in an else_clause; lower the
		// wrapped statement itself rather than the wrapper.
		var stmt cst.Node
		for _, c := range alternative.Children() {
			if c.Kind() != "else" {
				stmt = c
			}
		}
		alternative = stmt
	}
	var out []pending
	if alternative != nil {
		_, elseOut := b.lower(alternative, []pending{{node: cond, label: "N"}})
		out = append(append(out, thenOut...), elseOut...)
	} else {
		out = append(append(out, thenOut...), pending{node: cond, label: "N"})
	}
	return cond, out
}

func (b *cfgBuilder) lowerLoop(n cst.Node, in []pending) (*graph.Node, []pending) {
	header := b.makeNode(n)
	edgesFrom(in, b.g, header)

	body := n.ChildByFieldName("body")
	_, bodyOut := b.lower(body, []pending{{node: header, label: "Y"}})

	// Back-edges: every body out_node re-enters the header (spec §4.2).
	for _, p := range bodyOut {
		if p.node != nil {
			b.g.AddEdge(&graph.Edge{Source: p.node, Target: header, Label: "", Kind: graph.CFG})
		}
	}

	breaks, continues := collectBreakContinue(n)
	out := []pending{{node: header, label: "N"}}
	for _, brk := range breaks {
		if bn := b.nodeOf(brk); bn != nil {
			out = append(out, pending{node: bn, label: ""})
		}
	}
	for _, cont := range continues {
		if cn := b.nodeOf(cont); cn != nil {
			b.g.AddEdge(&graph.Edge{Source: cn, Target: header, Label: "", Kind: graph.CFG})
		}
	}
	return header, out
}

func (b *cfgBuilder) lowerDo(n cst.Node, in []pending) (*graph.Node, []pending) {
	body := n.ChildByFieldName("body")
	_, bodyOut := b.lower(body, in)

	condField := n.ChildByFieldName("condition")
	if condField == nil {
		b.a.warnf("do_statement at line %d has no condition; keeping partial graph", n.Start().Line)
		return nil, bodyOut
	}
	cond := b.makeNode(condField)
	cond.IsBranch = true
	edgesFrom(bodyOut, b.g, cond)

	if bodyEntry := b.firstNodeOf(body); bodyEntry != nil {
		b.g.AddEdge(&graph.Edge{Source: cond, Target: bodyEntry, Label: "Y", Kind: graph.CFG})
	}

	breaks, continues := collectBreakContinue(n)
	out := []pending{{node: cond, label: "N"}}
	for _, brk := range breaks {
		if bn := b.nodeOf(brk); bn != nil {
			out = append(out, pending{node: bn, label: ""})
		}
	}
	// A continue inside do...while re-tests the condition, never itself.
	for _, cont := range continues {
		if cn := b.nodeOf(cont); cn != nil {
			b.g.AddEdge(&graph.Edge{Source: cn, Target: cond, Label: "", Kind: graph.CFG})
		}
	}
	return cond, out
}

func (b *cfgBuilder) lowerSwitch(n cst.Node, in []pending) (*graph.Node, []pending) {
	sw := b.makeNode(n)
	edgesFrom(in, b.g, sw)

	body := n.ChildByFieldName("body")
	if body == nil {
		return sw, []pending{{node: sw, label: ""}}
	}

	// Every case arm receives a direct dispatch edge from the switch, plus
	// whatever fall-through pending edges the previous arm left behind
	// (spec §4.2: "each child case_statement receives an edge from the
	// switch... otherwise cases fall through").
	var fallThrough []pending
	for _, c := range body.Children() {
		switch c.Kind() {
		case "{", "}":
			continue
		}
		in := append([]pending{{node: sw, label: ""}}, fallThrough...)
		_, out := b.lower(c, in)
		fallThrough = out
	}
	bodyOut := fallThrough

	breaks, _ := collectBreakContinue(n)
	for _, brk := range breaks {
		if bn := b.nodeOf(brk); bn != nil {
			bodyOut = append(bodyOut, pending{node: bn, label: ""})
		}
	}
	return sw, bodyOut
}

func (b *cfgBuilder) lowerCase(n cst.Node, in []pending) (*graph.Node, []pending) {
	caseNode := b.makeNode(n)
	edgesFrom(in, b.g, caseNode)

	isDefault := n.Kind() == "default_statement"
	if !isDefault {
		for _, c := range n.Children() {
			if c.Kind() == "default" {
				isDefault = true
				break
			}
		}
	}

	skip := 2 // "default", ":"
	if !isDefault {
		skip = 3 // "case", <value>, ":"
	}
	children := n.Children()
	if skip > len(children) {
		skip = len(children)
	}

	var label string
	if !isDefault {
		label = "Y"
	}
	out := []pending{{node: caseNode, label: label}}
	for _, c := range children[skip:] {
		_, o := b.lower(c, out)
		out = o
	}
	if !isDefault {
		out = append(out, pending{node: caseNode, label: "N"})
	}
	return caseNode, out
}

// firstNodeOf returns the first CFG node lowered from within n, by
// descending to the earliest leading statement already registered in the
// span index.
func (b *cfgBuilder) firstNodeOf(n cst.Node) *graph.Node {
	if n == nil {
		return nil
	}
	if n.Kind() == "compound_statement" {
		for _, c := range n.Children() {
			switch c.Kind() {
			case "{", "}":
				continue
			}
			if fn := b.firstNodeOf(c); fn != nil {
				return fn
			}
		}
		return nil
	}
	return b.nodeOf(n)
}

// collectBreakContinue finds break/continue statements inside n that belong
// to n's own loop or switch, per spec §4.2. It does not descend into a
// nested loop, which owns its own breaks/continues. It does descend into a
// nested switch, but only for continues: the nested switch owns its breaks,
// while a continue inside it still belongs to the enclosing loop.
func collectBreakContinue(n cst.Node) (breaks, continues []cst.Node) {
	var walk func(cst.Node, bool)
	walk = func(x cst.Node, inSwitch bool) {
		if x == nil {
			return
		}
		switch x.Kind() {
		case "break_statement":
			if !inSwitch {
				breaks = append(breaks, x)
			}
			return
		case "continue_statement":
			continues = append(continues, x)
			return
		case "for_statement", "while_statement", "do_statement":
			return
		case "switch_statement":
			inSwitch = true
		}
		for _, c := range x.Children() {
			walk(c, inSwitch)
		}
	}
	for _, c := range n.Children() {
		walk(c, false)
	}
	return breaks, continues
}
