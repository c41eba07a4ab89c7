// Package cst defines the abstract concrete-syntax-tree contract consumed by
// the analysis pipeline. Every downstream stage (node builder, CFG/CDG/DDG
// construction, slicing) is written against this interface rather than any
// particular parser binding, so the core never imports a grammar package
// directly.
package cst

import "errors"

// Language selects the grammar a Parser should use.
type Language string

const (
	C   Language = "c"
	CPP Language = "cpp"
)

// Point is a 1-based line, 0-based column source position.
type Point struct {
	Line   int
	Column int
}

// Node is the abstract view of a single concrete-syntax-tree node.
//
// Implementations must be cheap to construct (the core wraps the parser's
// native node type on every traversal step) and must never retain the
// source byte slice beyond the lifetime of the Tree that produced them.
type Node interface {
	// Kind is the grammar's node type string (e.g. "if_statement").
	Kind() string
	Start() Point
	End() Point
	StartByte() uint32
	EndByte() uint32
	// Text returns the node's raw source text.
	Text() []byte
	// Children returns every child, named and anonymous, in source order.
	Children() []Node
	// ChildByFieldName returns the child bound to the given grammar field,
	// or nil if the grammar does not expose that field on this node.
	ChildByFieldName(name string) Node
	// HasError reports whether this subtree contains a parse error.
	HasError() bool
}

// Tree is a parsed translation unit.
type Tree interface {
	RootNode() Node
}

// Parser turns source bytes into a Tree for the requested language.
//
// Implementations are not required to be safe for concurrent use from
// multiple goroutines; callers that analyze in parallel must give each
// goroutine its own Parser (see spec §5's shared-resource policy).
type Parser interface {
	Parse(source []byte, language Language) (Tree, error)
}

// ErrSyntax is returned (wrapped) when the CST backend reports a parse
// error for the requested source.
var ErrSyntax = errors.New("cst: syntax error")
