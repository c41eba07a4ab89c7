package analyzer

import (
	"strings"

	"github.com/viant/cpdg/cst"
	"github.com/viant/cpdg/graph"
)

// idGenerator hands out stable, strictly increasing node IDs for one
// analysis. Two distinct CST spans always yield distinct IDs (spec §4.1).
type idGenerator struct{ next int }

func (g *idGenerator) take() int {
	id := g.next
	g.next++
	return id
}

// branchHeaderTypes names statement kinds whose headline Text stops at the
// body/consequence child (spec §3, §4.1).
var branchHeaderTypes = map[string]bool{
	"if_statement":     true,
	"while_statement":  true,
	"for_statement":    true,
	"switch_statement": true,
}

// buildNode lifts a CST statement node into an analysis Node, computing
// Kind/Line/Text/IsBranch per spec §3/§4.1. Def/use extraction is performed
// separately by extractDefUse (defuse.go) since it needs the same node
// classification logic the CFG builder already has in scope.
func (a *Analyzer) buildNode(n cst.Node, src []byte, ids *idGenerator) *graph.Node {
	node := &graph.Node{
		ID:   ids.take(),
		Kind: n.Kind(),
		Line: n.Start().Line,
	}

	switch n.Kind() {
	case "function_definition":
		node.Text = functionSignatureText(n, src)
	case "do_statement":
		node.Text = branchHeaderText(n, src)
	case "case_statement":
		node.Text = caseHeaderText(n, src)
		// A `case V:` arm is a branch (Y into its arm, N on to the next);
		// the default arm has no value and a single unlabelled successor.
		node.IsBranch = n.ChildByFieldName("value") != nil
	default:
		if branchHeaderTypes[n.Kind()] {
			node.Text = branchHeaderText(n, src)
			if n.Kind() != "switch_statement" {
				node.IsBranch = true
			}
		} else {
			node.Text = strings.TrimSpace(string(n.Text()))
		}
	}

	// The condition clause of a do-statement is itself a branch: the CFG
	// builder lowers the `condition` field into its own node and sets
	// IsBranch there (see cfg.go's lowerDo).

	node.Defs, node.Uses = a.extractDefUse(n, src)
	return node
}

// functionSignatureText concatenates the return-type subtree with the
// declarator subtree (spec §4.1): "return type + declarator", e.g.
// "int add(int a, int b)".
func functionSignatureText(fn cst.Node, src []byte) string {
	declarator := fn.ChildByFieldName("declarator")
	body := fn.ChildByFieldName("body")
	end := fn.EndByte()
	if body != nil {
		end = body.StartByte()
	} else if declarator != nil {
		end = declarator.EndByte()
	}
	return strings.TrimSpace(string(src[fn.StartByte():end]))
}

// branchHeaderText returns the prefix of an if/while/for/switch node up to
// (but excluding) its body/consequence child (spec §3, §4.1).
func branchHeaderText(n cst.Node, src []byte) string {
	var body cst.Node
	if n.Kind() == "if_statement" {
		body = n.ChildByFieldName("consequence")
	} else {
		body = n.ChildByFieldName("body")
	}
	start := n.StartByte()
	end := n.EndByte()
	if body != nil {
		end = body.StartByte()
	}
	return strings.TrimSpace(string(src[start:end]))
}

// caseHeaderText returns the prefix of a case_statement up to (and
// including) the `:` token (spec §3, §4.1).
func caseHeaderText(n cst.Node, src []byte) string {
	start := n.StartByte()
	end := n.EndByte()
	for _, c := range n.Children() {
		if c.Kind() == ":" {
			end = c.EndByte()
			break
		}
	}
	return strings.TrimSpace(string(src[start:end]))
}
