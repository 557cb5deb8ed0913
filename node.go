package mdext

// NodeKind discriminates the three node flavors in the token tree.
type NodeKind int

const (
	// KindText is literal text; the serializer escapes it.
	KindText NodeKind = iota
	// KindElement is a typed markup element with ordered children.
	KindElement
	// KindRaw is pre-rendered markup; the serializer emits it verbatim.
	KindRaw
)

// Attribute is a single name/value attribute on an element node.
type Attribute struct {
	Name  string
	Value string
}

// Node is one node in the token tree. A node is owned by at most one
// parent; attaching an owned node to a new parent detaches it first, so
// the tree can never contain shared children or cycles.
type Node struct {
	Kind    NodeKind
	Tag     string // element tag, empty for text and raw nodes
	Literal string // text content or raw markup

	attrs    []Attribute
	parent   *Node
	children []*Node

	// scanInline marks elements whose single text child still needs
	// inline scanning (set by the block parser, cleared by the scanner).
	scanInline bool
}

// Text returns a literal text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Literal: s}
}

// Element returns an element node with the given tag and attributes.
func Element(tag string, attrs ...Attribute) *Node {
	return &Node{Kind: KindElement, Tag: tag, attrs: attrs}
}

// Raw returns a raw markup node emitted verbatim by the serializer.
func Raw(markup string) *Node {
	return &Node{Kind: KindRaw, Literal: markup}
}

// Attr is a convenience constructor for element attributes.
func Attr(name, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

// Parent returns the owning parent, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered child slice. Callers must not mutate it
// directly; use AppendChild, InsertBefore and RemoveChild.
func (n *Node) Children() []*Node { return n.children }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// AppendChild attaches child as the last child of n, detaching it from
// any previous parent.
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// InsertBefore attaches child immediately before ref among n's
// children. If ref is nil or not a child of n, child is appended.
func (n *Node) InsertBefore(child, ref *Node) {
	child.Detach()
	for i, c := range n.children {
		if c == ref {
			child.parent = n
			n.children = append(n.children[:i], append([]*Node{child}, n.children[i:]...)...)
			return
		}
	}
	n.AppendChild(child)
}

// RemoveChild detaches child from n. Returns false if child is not a
// child of n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveChildren detaches all children of n.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceWith substitutes repl for n in n's parent. No-op if n is
// detached.
func (n *Node) ReplaceWith(repl *Node) {
	parent := n.parent
	if parent == nil {
		return
	}
	for i, c := range parent.children {
		if c == n {
			repl.Detach()
			repl.parent = parent
			parent.children[i] = repl
			n.parent = nil
			return
		}
	}
}

// Attribute returns the value of the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute sets or replaces the named attribute.
func (n *Node) SetAttribute(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
}

// RemoveAttribute deletes the named attribute. Returns false if absent.
func (n *Node) RemoveAttribute(name string) bool {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Attributes returns the attributes in declaration order. Callers must
// not mutate the returned slice.
func (n *Node) Attributes() []Attribute { return n.attrs }

// Clone returns a deep copy of n, detached from any parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Kind:       n.Kind,
		Tag:        n.Tag,
		Literal:    n.Literal,
		scanInline: n.scanInline,
	}
	if len(n.attrs) > 0 {
		c.attrs = append([]Attribute(nil), n.attrs...)
	}
	for _, child := range n.children {
		c.AppendChild(child.Clone())
	}
	return c
}

// WalkStatus controls traversal in Walk.
type WalkStatus int

const (
	// WalkContinue descends into children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren continues with the next sibling.
	WalkSkipChildren
	// WalkStop aborts the traversal.
	WalkStop
)

// Walk traverses n and its descendants pre-order. The callback's
// return value controls descent; Walk returns WalkStop if the
// traversal was aborted.
func (n *Node) Walk(fn func(*Node) WalkStatus) WalkStatus {
	status := fn(n)
	if status != WalkContinue {
		return status
	}
	// Children may be rewritten by the callback; walk a snapshot.
	snapshot := append([]*Node(nil), n.children...)
	for _, c := range snapshot {
		if c.parent != n {
			continue // removed during traversal
		}
		if c.Walk(fn) == WalkStop {
			return WalkStop
		}
	}
	return WalkContinue
}

// Document is the root of a parsed token tree: an ordered sequence of
// top-level blocks. A Document is created fresh per conversion and
// carries no state between conversions.
type Document struct {
	root *Node
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: Element("")}
}

// Root returns the synthetic root element owning the top-level blocks.
func (d *Document) Root() *Node { return d.root }

// Blocks returns the ordered top-level block nodes.
func (d *Document) Blocks() []*Node { return d.root.Children() }

// AppendBlock adds a top-level block.
func (d *Document) AppendBlock(n *Node) { d.root.AppendChild(n) }

// Walk traverses every node in the document pre-order, excluding the
// synthetic root itself.
func (d *Document) Walk(fn func(*Node) WalkStatus) {
	for _, b := range append([]*Node(nil), d.root.children...) {
		if b.parent != d.root {
			continue
		}
		if b.Walk(fn) == WalkStop {
			return
		}
	}
}
