package cst

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// TreeSitterParser adapts github.com/smacker/go-tree-sitter (plus its c and
// cpp grammar subpackages) to the Parser contract.
type TreeSitterParser struct{}

// NewTreeSitterParser returns the default production Parser.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{}
}

func (p *TreeSitterParser) Parse(source []byte, language Language) (Tree, error) {
	parser := sitter.NewParser()
	switch language {
	case CPP:
		parser.SetLanguage(cpp.GetLanguage())
	case C:
		parser.SetLanguage(c.GetLanguage())
	default:
		return nil, fmt.Errorf("cst: unsupported language %q", language)
	}
	tree := parser.Parse(nil, source)
	if tree == nil {
		return nil, fmt.Errorf("%w: parser returned no tree", ErrSyntax)
	}
	return &sitterTree{tree: tree, src: source}, nil
}

type sitterTree struct {
	tree *sitter.Tree
	src  []byte
}

func (t *sitterTree) RootNode() Node {
	root := t.tree.RootNode()
	if root == nil {
		return nil
	}
	return &sitterNode{n: root, src: t.src}
}

// sitterNode wraps *sitter.Node so that the analysis pipeline never needs to
// import go-tree-sitter directly.
type sitterNode struct {
	n   *sitter.Node
	src []byte
}

func wrap(n *sitter.Node, src []byte) Node {
	if n == nil {
		return nil
	}
	return &sitterNode{n: n, src: src}
}

func (n *sitterNode) Kind() string { return n.n.Type() }

func (n *sitterNode) Start() Point {
	p := n.n.StartPoint()
	return Point{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func (n *sitterNode) End() Point {
	p := n.n.EndPoint()
	return Point{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func (n *sitterNode) StartByte() uint32 { return n.n.StartByte() }
func (n *sitterNode) EndByte() uint32   { return n.n.EndByte() }

func (n *sitterNode) Text() []byte {
	return n.src[n.n.StartByte():n.n.EndByte()]
}

func (n *sitterNode) Children() []Node {
	count := int(n.n.ChildCount())
	if count == 0 {
		return nil
	}
	out := make([]Node, count)
	for i := 0; i < count; i++ {
		out[i] = wrap(n.n.Child(i), n.src)
	}
	return out
}

func (n *sitterNode) ChildByFieldName(name string) Node {
	return wrap(n.n.ChildByFieldName(name), n.src)
}

func (n *sitterNode) HasError() bool { return n.n.HasError() }
