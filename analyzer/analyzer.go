// Package analyzer implements the core intraprocedural analysis pipeline:
// CST-to-Node lowering, def/use extraction, and CFG/CDG/DDG/PDG
// construction (spec §2, §4). Every exported Construct* method is a pure
// function of its input source string (spec §5): no shared mutable state,
// no I/O beyond the caller-supplied bytes.
package analyzer

import (
	"errors"
	"fmt"
	"log"

	"github.com/viant/cpdg/cst"
)

// Error taxonomy (spec §7). Callers distinguish "no such function" from
// "syntax error in the translation unit" via errors.Is.
var (
	// ErrSyntax wraps a parse error reported by the CST backend.
	ErrSyntax = errors.New("analyzer: syntax error")
	// ErrFunctionNotFound means the requested function name has no
	// function_definition in the translation unit. This is a legal,
	// observable outcome (spec §7's "missing-target" kind), not a failure.
	ErrFunctionNotFound = errors.New("analyzer: function not found")
)

// Analyzer builds CFG/CDG/DDG/PDG graphs for C/C++ functions.
type Analyzer struct {
	parser   cst.Parser
	language cst.Language

	// cdgStrategy selects the control-dependence construction policy
	// (spec §4.3): region (default) or postdominator.
	cdgStrategy CDGStrategy
	// cdgHopLimit bounds the region policy's transitive-controlled walk
	// (spec §4.3 step 3's "10 hops" recursion guard).
	cdgHopLimit int
	// knownInputFuncs names callees whose `&x` argument counts as a
	// definition of x (spec §4.1 rule 5).
	knownInputFuncs map[string]struct{}

	warnf func(format string, args ...interface{})
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithParser overrides the CST backend (default: cst.NewTreeSitterParser()).
func WithParser(p cst.Parser) Option {
	return func(a *Analyzer) { a.parser = p }
}

// WithCDGStrategy selects the control-dependence construction policy.
func WithCDGStrategy(s CDGStrategy) Option {
	return func(a *Analyzer) { a.cdgStrategy = s }
}

// WithCDGHopLimit overrides the region policy's recursion guard (default 10,
// per spec §4.3).
func WithCDGHopLimit(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.cdgHopLimit = n
		}
	}
}

// WithKnownInputFuncs overrides the set of scanf-like functions whose
// `&x` arguments count as definitions (default: scanf, fscanf, sscanf,
// gets, fgets, per spec §4.1 rule 5).
func WithKnownInputFuncs(names ...string) Option {
	return func(a *Analyzer) {
		a.knownInputFuncs = make(map[string]struct{}, len(names))
		for _, n := range names {
			a.knownInputFuncs[n] = struct{}{}
		}
	}
}

// WithWarnf overrides the recovery-path warning sink (spec §7's "internal
// invariant violations" kind logs a warning and keeps a partial graph).
// The default logs via the standard library log package, matching the
// teacher's own unstructured warning style.
func WithWarnf(fn func(format string, args ...interface{})) Option {
	return func(a *Analyzer) { a.warnf = fn }
}

// New builds an Analyzer for the given language.
func New(language cst.Language, opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:      cst.NewTreeSitterParser(),
		language:    language,
		cdgStrategy: Region,
		cdgHopLimit: 10,
		knownInputFuncs: map[string]struct{}{
			"scanf": {}, "fscanf": {}, "sscanf": {}, "gets": {}, "fgets": {},
		},
		warnf: func(format string, args ...interface{}) { log.Printf("analyzer: "+format, args...) },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// parse parses code and returns its root node, translating a reported
// parse error (or a has_error subtree) into ErrSyntax (spec §7).
func (a *Analyzer) parse(code []byte) (cst.Node, error) {
	tree, err := a.parser.Parse(code, a.language)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, ErrSyntax
	}
	return root, nil
}

// functions returns every function_definition node in the translation
// unit, in source order.
func functions(root cst.Node) []cst.Node {
	var out []cst.Node
	var walk func(n cst.Node)
	walk = func(n cst.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "function_definition" {
			out = append(out, n)
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return out
}

// functionName extracts the identifier of a function_definition's
// declarator (stripping any pointer/array wrapping and parameter list).
func functionName(fn cst.Node) string {
	declarator := fn.ChildByFieldName("declarator")
	for declarator != nil {
		switch declarator.Kind() {
		case "function_declarator":
			if inner := declarator.ChildByFieldName("declarator"); inner != nil {
				declarator = inner
				continue
			}
			return ""
		case "identifier":
			return string(declarator.Text())
		default:
			if inner := declarator.ChildByFieldName("declarator"); inner != nil {
				declarator = inner
				continue
			}
			return ""
		}
	}
	return ""
}

// findFunction locates the function_definition matching name, or the first
// function in the translation unit when name is empty.
func findFunction(root cst.Node, name string) (cst.Node, error) {
	fns := functions(root)
	if len(fns) == 0 {
		return nil, fmt.Errorf("%w: no function definitions in source", ErrFunctionNotFound)
	}
	if name == "" {
		return fns[0], nil
	}
	for _, fn := range fns {
		if functionName(fn) == name {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
}
