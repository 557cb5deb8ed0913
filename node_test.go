package mdext

import (
	"testing"
)

func TestNodeExclusiveOwnership(t *testing.T) {
	t.Parallel()

	// Attaching a node to a second parent must detach it from the
	// first; a child can never be shared.
	a := Element("div")
	b := Element("div")
	child := Text("x")

	a.AppendChild(child)
	b.AppendChild(child)

	if len(a.Children()) != 0 {
		t.Errorf("first parent still owns child: %d children", len(a.Children()))
	}
	if child.Parent() != b {
		t.Errorf("child parent = %v, want second parent", child.Parent())
	}
}

func TestNodeInsertBefore(t *testing.T) {
	t.Parallel()

	parent := Element("ul")
	first := Element("li")
	third := Element("li")
	parent.AppendChild(first)
	parent.AppendChild(third)

	second := Element("li")
	parent.InsertBefore(second, third)

	kids := parent.Children()
	if len(kids) != 3 || kids[0] != first || kids[1] != second || kids[2] != third {
		t.Errorf("children order wrong: %v", kids)
	}

	// Missing reference appends.
	tail := Element("li")
	parent.InsertBefore(tail, Element("li"))
	if parent.LastChild() != tail {
		t.Error("InsertBefore with foreign ref did not append")
	}
}

func TestNodeReplaceWith(t *testing.T) {
	t.Parallel()

	parent := Element("p")
	old := Text("old")
	parent.AppendChild(old)

	repl := Element("b")
	old.ReplaceWith(repl)

	if parent.FirstChild() != repl || repl.Parent() != parent {
		t.Error("replacement not attached")
	}
	if old.Parent() != nil {
		t.Error("replaced node still attached")
	}
}

func TestNodeAttributes(t *testing.T) {
	t.Parallel()

	n := Element("div", Attr("class", "a"))
	n.SetAttribute("id", "x")
	n.SetAttribute("class", "b")

	if v, _ := n.Attribute("class"); v != "b" {
		t.Errorf("class = %q, want b", v)
	}
	if !n.RemoveAttribute("id") {
		t.Error("RemoveAttribute(id) = false")
	}
	if _, ok := n.Attribute("id"); ok {
		t.Error("id still present after removal")
	}
	if n.RemoveAttribute("missing") {
		t.Error("RemoveAttribute(missing) = true")
	}
}

func TestNodeClone(t *testing.T) {
	t.Parallel()

	orig := Element("div", Attr("class", "x"))
	orig.AppendChild(Text("t"))

	clone := orig.Clone()
	clone.SetAttribute("class", "y")
	clone.FirstChild().Literal = "changed"

	if v, _ := orig.Attribute("class"); v != "x" {
		t.Errorf("clone mutation leaked into original attrs: %q", v)
	}
	if orig.FirstChild().Literal != "t" {
		t.Errorf("clone mutation leaked into original children: %q", orig.FirstChild().Literal)
	}
	if clone.Parent() != nil {
		t.Error("clone should be detached")
	}
}

func TestWalkSkipAndStop(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	outer := Element("div")
	inner := Element("span")
	inner.AppendChild(Text("deep"))
	outer.AppendChild(inner)
	doc.AppendBlock(outer)
	doc.AppendBlock(Element("p"))

	t.Run("skip children", func(t *testing.T) {
		t.Parallel()

		var visited []string
		doc.Walk(func(n *Node) WalkStatus {
			visited = append(visited, n.Tag)
			if n.Tag == "div" {
				return WalkSkipChildren
			}
			return WalkContinue
		})
		if len(visited) != 2 || visited[0] != "div" || visited[1] != "p" {
			t.Errorf("visited = %v, want [div p]", visited)
		}
	})

	t.Run("stop", func(t *testing.T) {
		t.Parallel()

		count := 0
		doc.Walk(func(n *Node) WalkStatus {
			count++
			return WalkStop
		})
		if count != 1 {
			t.Errorf("visited %d nodes after stop, want 1", count)
		}
	})
}

func TestWalkToleratesRemoval(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	for _, tag := range []string{"a", "b", "c"} {
		doc.AppendBlock(Element(tag))
	}

	var visited []string
	doc.Walk(func(n *Node) WalkStatus {
		visited = append(visited, n.Tag)
		if n.Tag == "a" {
			// Remove the next sibling mid-walk.
			doc.Root().RemoveChild(doc.Blocks()[1])
		}
		return WalkContinue
	})
	if len(visited) != 2 || visited[0] != "a" || visited[1] != "c" {
		t.Errorf("visited = %v, want [a c]", visited)
	}
}
