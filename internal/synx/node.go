// Package synx wraps tree-sitter's JavaScript syntax tree in a thin,
// read-only API tailored to what the validation pipeline needs: typed node
// access, field lookups, byte ranges, and 1-indexed line/column positions.
package synx

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Position is a 1-indexed line and 0-indexed column, matching spec.md's
// "(1,0)" file-level fallback convention.
type Position struct {
	Line   int
	Column int
}

// Node is a tree-sitter node paired with the source buffer it was parsed
// from, so callers never have to thread source bytes separately.
type Node struct {
	n   *sitter.Node
	src []byte
}

// Tree is a parsed source file: its root node plus the original bytes.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Parse parses source as JavaScript and returns its syntax tree. The
// returned Tree must be closed with Close when no longer needed.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	t, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return &Tree{tree: t, src: source}, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// Root returns the program's root node.
func (t *Tree) Root() *Node {
	return &Node{n: t.tree.RootNode(), src: t.src}
}

// Source returns the original bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// HasError reports whether tree-sitter recovered from a syntax error
// anywhere in the tree (used to turn a parse "success" that actually
// limped through garbage into a hard failure, per spec.md §1's "a parse
// failure is a hard failure for the whole input").
func (t *Tree) HasError() bool {
	return t.Root().n.HasError()
}

// Kind returns the tree-sitter grammar node type, e.g. "call_expression".
func (n *Node) Kind() string {
	if n == nil || n.n == nil {
		return ""
	}
	return n.n.Type()
}

// IsNamed reports whether the node is a named grammar production rather
// than an anonymous token (e.g. a literal "(" is unnamed).
func (n *Node) IsNamed() bool {
	return n != nil && n.n != nil && n.n.IsNamed()
}

// Text returns the node's exact source text.
func (n *Node) Text() string {
	if n == nil || n.n == nil {
		return ""
	}
	return n.n.Content(n.src)
}

// StartByte and EndByte give the node's half-open byte range in the
// original source, the unit the orchestrator's and dependency analyzer's
// text-splicing printer operates on.
func (n *Node) StartByte() uint32 { return n.n.StartByte() }
func (n *Node) EndByte() uint32   { return n.n.EndByte() }

// Position returns the node's 1-indexed line and 0-indexed column.
func (n *Node) Position() Position {
	p := n.n.StartPoint()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}

// EndPosition mirrors Position for the node's end point.
func (n *Node) EndPosition() Position {
	p := n.n.EndPoint()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}

// Parent returns the node's parent, or nil at the root.
func (n *Node) Parent() *Node {
	p := n.n.Parent()
	if p == nil {
		return nil
	}
	return &Node{n: p, src: n.src}
}

// Field looks up a named grammar field (e.g. "object", "property",
// "function", "arguments", "name", "value", "body").
func (n *Node) Field(name string) *Node {
	if n == nil || n.n == nil {
		return nil
	}
	c := n.n.ChildByFieldName(name)
	if c == nil {
		return nil
	}
	return &Node{n: c, src: n.src}
}

// ChildCount returns the total number of children, named and anonymous.
func (n *Node) ChildCount() int {
	if n == nil || n.n == nil {
		return 0
	}
	return int(n.n.ChildCount())
}

// Child returns the i-th child (named or not).
func (n *Node) Child(i int) *Node {
	c := n.n.Child(i)
	if c == nil {
		return nil
	}
	return &Node{n: c, src: n.src}
}

// NamedChildCount returns the number of named (non-punctuation) children.
func (n *Node) NamedChildCount() int {
	if n == nil || n.n == nil {
		return 0
	}
	return int(n.n.NamedChildCount())
}

// NamedChild returns the i-th named child.
func (n *Node) NamedChild(i int) *Node {
	c := n.n.NamedChild(i)
	if c == nil {
		return nil
	}
	return &Node{n: c, src: n.src}
}

// NamedChildren returns all named children in order.
func (n *Node) NamedChildren() []*Node {
	count := n.NamedChildCount()
	out := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Identity returns an opaque value suitable as a map key for node-identity
// caching (spec.md §4.3's optional object-validator memoization, §9's
// "tied to node identity within one tree").
func (n *Node) Identity() [2]uint32 {
	if n == nil || n.n == nil {
		return [2]uint32{}
	}
	return [2]uint32{n.n.StartByte(), n.n.EndByte()}
}
