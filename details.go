package mdext

import "strings"

// DetailsDirective renders `::: {details} Summary` blocks as
// details/summary disclosure elements.
type DetailsDirective struct{}

// Name implements Directive.
func (d *DetailsDirective) Name() string { return "details" }

// Options implements Directive.
func (d *DetailsDirective) Options() Spec {
	return Spec{
		"open":  {Default: false, Validate: BoolOption},
		"class": {Default: []string(nil), Validate: ClassesOption},
		"id":    {Default: "", Validate: AttributeOption},
	}
}

// Render implements Directive.
func (d *DetailsDirective) Render(env *DirectiveEnv) (*Node, error) {
	el := Element("details")
	if env.Options.Bool("open") {
		el.SetAttribute("open", "open")
	}
	if classes := env.Options.Classes("class"); len(classes) > 0 {
		el.SetAttribute("class", strings.Join(classes, " "))
	}
	if id := env.Options.String("id"); id != "" {
		el.SetAttribute("id", id)
	}

	summaryText := env.Args
	if summaryText == "" {
		summaryText = "Details"
	}
	summary := Element("summary")
	summary.AppendChild(Text(summaryText))
	el.AppendChild(summary)

	for _, c := range env.Children {
		el.AppendChild(c)
	}
	return el, nil
}
