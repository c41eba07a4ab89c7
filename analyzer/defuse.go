package analyzer

import (
	"github.com/viant/cpdg/cst"
	"github.com/viant/cpdg/graph"
)

// extractDefUse computes the defs/uses sets for a statement node, scoping
// the scan to the relevant sub-tree for branch headers, for-statements, and
// function signatures (spec §4.1).
func (a *Analyzer) extractDefUse(n cst.Node, src []byte) (graph.Set, graph.Set) {
	defs := graph.Set{}
	uses := graph.Set{}

	switch n.Kind() {
	case "function_definition":
		a.scanParams(n, defs)
	case "if_statement", "while_statement", "do_statement":
		if cond := n.ChildByFieldName("condition"); cond != nil {
			a.scanExpr(cond, false, defs, uses)
		}
	case "switch_statement":
		cond := n.ChildByFieldName("value")
		if cond == nil {
			cond = n.ChildByFieldName("condition")
		}
		if cond != nil {
			a.scanExpr(cond, false, defs, uses)
		}
	case "case_statement":
		// Only the case value; the arm's statements are nodes of their own.
		if value := n.ChildByFieldName("value"); value != nil {
			a.scanExpr(value, false, defs, uses)
		}
	case "for_statement":
		body := n.ChildByFieldName("body")
		for _, c := range n.Children() {
			if sameNode(c, body) {
				break
			}
			a.scanExpr(c, false, defs, uses)
		}
	default:
		a.scanExpr(n, false, defs, uses)
	}

	return defs, uses
}

// scanParams collects a function_definition's formal parameter identifiers
// as definitions (spec §4.1 rule 2).
func (a *Analyzer) scanParams(fn cst.Node, defs graph.Set) {
	fd := findDeclaratorKind(fn.ChildByFieldName("declarator"), "function_declarator")
	if fd == nil {
		return
	}
	params := fd.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for _, id := range collectIdentifiers(params) {
		defs.Add(string(id.Text()))
	}
}

// scanExpr walks n classifying every identifier it finds into defs and/or
// uses, applying spec §4.1's rules 1, 3-7 in priority order. inCallArgs is
// true when n is (transitively) inside a call_expression's argument list,
// which activates rule 6 as the fallback classification instead of rule 7.
func (a *Analyzer) scanExpr(n cst.Node, inCallArgs bool, defs, uses graph.Set) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case "identifier":
		if inCallArgs {
			defs.Add(string(n.Text()))
			uses.Add(string(n.Text()))
		} else {
			uses.Add(string(n.Text()))
		}
		return

	case "declaration":
		for _, c := range n.Children() {
			a.scanDeclarationChild(c, inCallArgs, defs, uses)
		}
		return

	case "init_declarator":
		a.scanInitDeclarator(n, inCallArgs, defs, uses)
		return

	case "parameter_declaration":
		for _, id := range collectIdentifiers(n) {
			defs.Add(string(id.Text()))
		}
		return

	case "assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		for _, id := range collectIdentifiers(left) {
			defs.Add(string(id.Text()))
		}
		a.scanExpr(right, inCallArgs, defs, uses)
		return

	case "update_expression":
		arg := n.ChildByFieldName("argument")
		if arg == nil {
			arg = n.ChildByFieldName("operand")
		}
		for _, id := range collectIdentifiers(arg) {
			defs.Add(string(id.Text()))
			uses.Add(string(id.Text()))
		}
		return

	case "call_expression":
		a.scanCall(n, defs, uses)
		return
	}

	for _, c := range n.Children() {
		a.scanExpr(c, inCallArgs, defs, uses)
	}
}

// scanDeclarationChild handles one child of a declaration node: either an
// init_declarator, or a bare declarator (no initializer).
func (a *Analyzer) scanDeclarationChild(c cst.Node, inCallArgs bool, defs, uses graph.Set) {
	switch c.Kind() {
	case "init_declarator":
		a.scanInitDeclarator(c, inCallArgs, defs, uses)
	case "identifier", "pointer_declarator", "array_declarator", "init_declarator_list", "parenthesized_declarator":
		for _, id := range collectIdentifiers(c) {
			defs.Add(string(id.Text()))
		}
	}
}

// scanInitDeclarator marks the declared name a definition and recurses into
// the initializer expression, if any (spec §4.1 rule 1).
func (a *Analyzer) scanInitDeclarator(n cst.Node, inCallArgs bool, defs, uses graph.Set) {
	declarator := n.ChildByFieldName("declarator")
	value := n.ChildByFieldName("value")
	for _, id := range collectIdentifiers(declarator) {
		defs.Add(string(id.Text()))
	}
	if value != nil {
		a.scanExpr(value, inCallArgs, defs, uses)
	}
}

// scanCall handles a call_expression's argument list, skipping the callee
// identifier (spec §4.1's lead-in rule) and applying the known-input-function
// &x rule (rule 5) ahead of the generic call-argument rule (rule 6).
func (a *Analyzer) scanCall(n cst.Node, defs, uses graph.Set) {
	calleeName := ""
	if fn := n.ChildByFieldName("function"); fn != nil && fn.Kind() == "identifier" {
		calleeName = string(fn.Text())
	}
	_, knownInput := a.knownInputFuncs[calleeName]

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return
	}
	for _, arg := range args.Children() {
		switch arg.Kind() {
		case ",", "(", ")":
			continue
		}
		if knownInput {
			if operand, ok := addressOfOperand(arg); ok {
				for _, id := range collectIdentifiers(operand) {
					defs.Add(string(id.Text()))
				}
				continue
			}
		}
		a.scanExpr(arg, true, defs, uses)
	}
}

// addressOfOperand reports whether n is an address-of expression (&x) and,
// if so, returns its operand.
func addressOfOperand(n cst.Node) (cst.Node, bool) {
	switch n.Kind() {
	case "pointer_expression", "unary_expression":
	default:
		return nil, false
	}
	children := n.Children()
	if len(children) == 0 || string(children[0].Text()) != "&" {
		return nil, false
	}
	if operand := n.ChildByFieldName("argument"); operand != nil {
		return operand, true
	}
	if len(children) > 1 {
		return children[len(children)-1], true
	}
	return nil, false
}

// collectIdentifiers returns every "identifier" leaf under n, in source
// order.
func collectIdentifiers(n cst.Node) []cst.Node {
	var out []cst.Node
	var walk func(cst.Node)
	walk = func(x cst.Node) {
		if x == nil {
			return
		}
		if x.Kind() == "identifier" {
			out = append(out, x)
			return
		}
		for _, c := range x.Children() {
			walk(c)
		}
	}
	walk(n)
	return out
}

// findDeclaratorKind walks a chain of nested declarators (pointer, array,
// function, ...) looking for one of the given kind.
func findDeclaratorKind(n cst.Node, kind string) cst.Node {
	for n != nil {
		if n.Kind() == kind {
			return n
		}
		inner := n.ChildByFieldName("declarator")
		if inner == nil {
			return nil
		}
		n = inner
	}
	return nil
}

// sameNode compares two CST nodes by source span, since distinct wrapper
// values may refer to the identical underlying span.
func sameNode(a, b cst.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
