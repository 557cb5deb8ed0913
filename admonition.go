package mdext

import "strings"

// AdmonitionDirective renders `::: {note} Title` style callout blocks
// as a classed div with a title paragraph.
type AdmonitionDirective struct {
	name string
}

// NewAdmonition returns an admonition directive for the given name
// (note, warning, tip, danger, ...). The name doubles as the CSS
// qualifier class.
func NewAdmonition(name string) *AdmonitionDirective {
	return &AdmonitionDirective{name: name}
}

// Name implements Directive.
func (d *AdmonitionDirective) Name() string { return d.name }

// Options implements Directive.
func (d *AdmonitionDirective) Options() Spec {
	return Spec{
		"class": {Default: []string(nil), Validate: ClassesOption},
		"id":    {Default: "", Validate: AttributeOption},
	}
}

// Render implements Directive.
func (d *AdmonitionDirective) Render(env *DirectiveEnv) (*Node, error) {
	classes := append([]string{"admonition", d.name}, env.Options.Classes("class")...)
	div := Element("div", Attr("class", strings.Join(classes, " ")))
	if id := env.Options.String("id"); id != "" {
		div.SetAttribute("id", id)
	}

	title := env.Args
	if title == "" {
		title = strings.ToUpper(d.name[:1]) + d.name[1:]
	}
	titleEl := Element("p", Attr("class", "admonition-title"))
	titleEl.AppendChild(Text(title))
	div.AppendChild(titleEl)

	for _, c := range env.Children {
		div.AppendChild(c)
	}
	return div, nil
}

// DefaultAdmonitions returns the stock admonition set.
func DefaultAdmonitions() []Directive {
	names := []string{"note", "attention", "caution", "danger", "error", "tip", "hint", "important", "warning"}
	directives := make([]Directive, len(names))
	for i, name := range names {
		directives[i] = NewAdmonition(name)
	}
	return directives
}
