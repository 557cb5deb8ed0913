package mdext

import "strings"

// TaskListPass converts list items starting with `[ ]` or `[x]` into
// checkbox items. The marker is replaced by a disabled checkbox input,
// so a second run finds nothing to convert.
type TaskListPass struct{}

// Name implements Pass.
func (p *TaskListPass) Name() string { return "tasklist" }

// Transform implements Pass.
func (p *TaskListPass) Transform(doc *Document, _ *Report) error {
	doc.Walk(func(n *Node) WalkStatus {
		if n.Kind != KindElement || n.Tag != "li" {
			return WalkContinue
		}
		text := firstText(n)
		if text == nil {
			return WalkContinue
		}
		var checked bool
		switch {
		case strings.HasPrefix(text.Literal, "[ ] "):
			checked = false
		case strings.HasPrefix(text.Literal, "[x] "), strings.HasPrefix(text.Literal, "[X] "):
			checked = true
		default:
			return WalkContinue
		}

		text.Literal = text.Literal[4:]
		checkbox := Element("input", Attr("type", "checkbox"), Attr("disabled", "disabled"))
		if checked {
			checkbox.SetAttribute("checked", "checked")
		}
		text.Parent().InsertBefore(checkbox, text)
		appendClass(n, "task-list-item")
		return WalkSkipChildren
	})
	return nil
}

// firstText finds the list item's leading text node, looking through a
// wrapping paragraph if present.
func firstText(li *Node) *Node {
	first := li.FirstChild()
	if first == nil {
		return nil
	}
	if first.Kind == KindText {
		return first
	}
	if first.Kind == KindElement && first.Tag == "p" {
		if inner := first.FirstChild(); inner != nil && inner.Kind == KindText {
			return inner
		}
	}
	return nil
}

// appendClass adds a class token if not already present.
func appendClass(n *Node, class string) {
	current, _ := n.Attribute("class")
	for _, c := range strings.Fields(current) {
		if c == class {
			return
		}
	}
	if current == "" {
		n.SetAttribute("class", class)
		return
	}
	n.SetAttribute("class", current+" "+class)
}
