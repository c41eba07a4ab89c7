package slicer

import (
	"strings"

	"github.com/viant/cpdg/cst"
)

// VariableSlicer performs the conservative, AST-text-matching
// variable-relatedness slice: a fallback usable on inputs the PDG-based
// slicer cannot handle (spec §4.6, §6).
type VariableSlicer struct {
	parser   cst.Parser
	language cst.Language
}

// NewVariableSlicer builds a VariableSlicer over the given parser and
// language, so both slicing strategies agree on CST semantics.
func NewVariableSlicer(parser cst.Parser, language cst.Language) *VariableSlicer {
	return &VariableSlicer{parser: parser, language: language}
}

// topLevelStatementKinds are the function-body statements this fallback
// reasons about; anything else is ignored rather than mis-sliced.
var topLevelStatementKinds = map[string]bool{
	"declaration":          true,
	"expression_statement": true,
	"if_statement":         true,
	"while_statement":      true,
	"for_statement":        true,
	"do_statement":         true,
	"switch_statement":     true,
	"return_statement":     true,
	"break_statement":      true,
	"continue_statement":   true,
}

// SliceByVariable returns a syntactically-complete code fragment containing
// every top-level statement in function whose subtree mentions variable, as
// a whole identifier (spec §4.6).
func (v *VariableSlicer) SliceByVariable(code []byte, function, variable string) (string, error) {
	tree, err := v.parser.Parse(code, v.language)
	if err != nil {
		return "", err
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return "", cst.ErrSyntax
	}

	fn := findFunctionNode(root, function)
	if fn == nil {
		return "", nil
	}
	body := fn.ChildByFieldName("body")
	if body == nil {
		return "", nil
	}

	var matched []cst.Node
	for _, stmt := range body.Children() {
		if !topLevelStatementKinds[stmt.Kind()] {
			continue
		}
		if mentionsIdentifier(stmt, variable) {
			matched = append(matched, stmt)
		}
	}
	if len(matched) == 0 {
		return "", nil
	}

	sig := fn.ChildByFieldName("declarator")
	var b strings.Builder
	if sig != nil {
		b.Write(sig.Text())
	}
	b.WriteString(" {\n")
	for _, stmt := range matched {
		b.WriteString("    ")
		b.Write(stmt.Text())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String(), nil
}

func mentionsIdentifier(n cst.Node, name string) bool {
	if n == nil {
		return false
	}
	if n.Kind() == "identifier" && string(n.Text()) == name {
		return true
	}
	for _, c := range n.Children() {
		if mentionsIdentifier(c, name) {
			return true
		}
	}
	return false
}

func findFunctionNode(root cst.Node, name string) cst.Node {
	var found cst.Node
	var walk func(cst.Node)
	walk = func(n cst.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Kind() == "function_definition" {
			if name == "" || functionDeclaratorName(n) == name {
				found = n
				return
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return found
}

func functionDeclaratorName(fn cst.Node) string {
	declarator := fn.ChildByFieldName("declarator")
	for declarator != nil {
		if declarator.Kind() == "identifier" {
			return string(declarator.Text())
		}
		inner := declarator.ChildByFieldName("declarator")
		if inner == nil {
			return ""
		}
		declarator = inner
	}
	return ""
}
