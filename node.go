package paranoid

import (
	"fmt"
	"io"
	"strings"
)

// Rule is the kind of a node in a parse tree, e.g. "element", "comment" or
// "text". Rules are defined by the walker packages; a walker dispatches on
// the rule of a node to decide how to render it.
type Rule string

// Node is a node of the parse tree of a document. Leaves carry a span of
// the input text, containers carry children.
//
// For every tree a walker creates, the concatenation of all leaf texts in
// pre-order equals the input it was parsed from (see Source).
type Node struct {
	Rule     Rule
	Text     string  // source text of a leaf, empty for containers
	Children []*Node // children of a container, in document order
}

// Leaf creates a leaf node for a span of source text.
func Leaf(rule Rule, text string) *Node {
	return &Node{Rule: rule, Text: text}
}

// Branch creates a container node.
func Branch(rule Rule, children ...*Node) *Node {
	return &Node{Rule: rule, Children: children}
}

// Add appends children to n. Nil children are skipped.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// IsLeaf is true for nodes without children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Source reconstructs the source text a tree has been parsed from.
func (n *Node) Source() string {
	var b strings.Builder
	n.Walk(func(node *Node) {
		if node.IsLeaf() {
			b.WriteString(node.Text)
		}
	})
	return b.String()
}

// Walk visits n and all of its descendants in pre-order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Find returns all nodes of a tree with a given rule, in document order.
func (n *Node) Find(rule Rule) []*Node {
	var found []*Node
	n.Walk(func(node *Node) {
		if node.Rule == rule {
			found = append(found, node)
		}
	})
	return found
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsLeaf() {
		return fmt.Sprintf("%s %q", n.Rule, n.Text)
	}
	return fmt.Sprintf("%s[%d]", n.Rule, len(n.Children))
}

// Dump writes an indented representation of a tree to w, for debugging.
func (n *Node) Dump(w io.Writer) {
	n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, level int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), n)
	for _, c := range n.Children {
		c.dump(w, level+1)
	}
}

// A Renderer renders a single node. Walkers implement their per-format
// dispatch as a Renderer and call Render for containers they do not treat
// specially.
type Renderer func(b *strings.Builder, n *Node)

// Render renders a tree in pre-order: leaves are copied verbatim, containers
// are rendered child by child with r.
func Render(b *strings.Builder, n *Node, r Renderer) {
	if n.IsLeaf() {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		r(b, c)
	}
}
