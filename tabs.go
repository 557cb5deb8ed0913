package mdext

import (
	"fmt"
	"strings"
)

// TabsDirective renders consecutive `::: {tab} Title` blocks as one
// tabbed container: a radio input plus label per tab and a content
// block per tab. Adjacent tab directives join the same group unless
// the `new` option forces a fresh one; the group counter is tracked
// across the whole document.
type TabsDirective struct{}

const tabbedSetClass = "tabbed-set"

// Name implements Directive.
func (d *TabsDirective) Name() string { return "tab" }

// Options implements Directive.
func (d *TabsDirective) Options() Spec {
	return Spec{
		"new":   {Default: false, Validate: BoolOption},
		"class": {Default: []string(nil), Validate: ClassesOption},
		"id":    {Default: "", Validate: AttributeOption},
	}
}

// Render implements Directive.
func (d *TabsDirective) Render(env *DirectiveEnv) (*Node, error) {
	group, labels, content := d.currentGroup(env)

	attached := group != nil
	if group == nil {
		count, _ := env.Tracker["group_count"].(int)
		count++
		env.Tracker["group_count"] = count

		group = Element("div", Attr("class", tabbedSetClass), Attr("data-tabs", fmt.Sprintf("%d:0", count)))
		if classes := env.Options.Classes("class"); len(classes) > 0 {
			group.SetAttribute("class", tabbedSetClass+" "+strings.Join(classes, " "))
		}
		if id := env.Options.String("id"); id != "" {
			group.SetAttribute("id", id)
		}
		labels = Element("div", Attr("class", "tabbed-labels"))
		content = Element("div", Attr("class", "tabbed-content"))
		group.AppendChild(labels)
		group.AppendChild(content)
	}

	set, count := splitTabData(group)
	count++
	group.SetAttribute("data-tabs", fmt.Sprintf("%d:%d", set, count))

	inputID := fmt.Sprintf("__tabbed_%d_%d", set, count)
	input := Element("input",
		Attr("name", fmt.Sprintf("__tabbed_%d", set)),
		Attr("type", "radio"),
		Attr("id", inputID),
	)
	if count == 1 {
		input.SetAttribute("checked", "checked")
	}
	group.InsertBefore(input, labels)

	title := env.Args
	if title == "" {
		title = fmt.Sprintf("Tab %d", count)
	}
	label := Element("label", Attr("for", inputID))
	label.AppendChild(Text(title))
	labels.AppendChild(label)

	block := Element("div", Attr("class", "tabbed-block"))
	for _, c := range env.Children {
		block.AppendChild(c)
	}
	content.AppendChild(block)

	if attached {
		return nil, nil
	}
	return group, nil
}

// currentGroup finds an adjacent open tab group to join: the last
// child of the parent must be a tabbed-set div and the `new` option
// must not be set.
func (d *TabsDirective) currentGroup(env *DirectiveEnv) (group, labels, content *Node) {
	if env.Options.Bool("new") || env.Parent == nil {
		return nil, nil, nil
	}
	last := env.Parent.LastChild()
	if last == nil || last.Kind != KindElement || last.Tag != "div" {
		return nil, nil, nil
	}
	class, _ := last.Attribute("class")
	if class != tabbedSetClass && !strings.HasPrefix(class, tabbedSetClass+" ") {
		return nil, nil, nil
	}
	for _, c := range last.Children() {
		cc, _ := c.Attribute("class")
		switch cc {
		case "tabbed-labels":
			labels = c
		case "tabbed-content":
			content = c
		}
	}
	if labels == nil || content == nil {
		return nil, nil, nil
	}
	return last, labels, content
}

// splitTabData parses the group's `data-tabs="set:count"` attribute.
func splitTabData(group *Node) (set, count int) {
	data, _ := group.Attribute("data-tabs")
	if _, err := fmt.Sscanf(data, "%d:%d", &set, &count); err != nil {
		return 1, 0
	}
	return set, count
}
