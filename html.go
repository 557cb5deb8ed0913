package mdext

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector tokens: a leading tag name followed by #id, .class, and
// [attr] or [attr=value] parts.
var (
	selectorTag  = regexp.MustCompile(`^[A-Za-z][\w-]*`)
	selectorPart = regexp.MustCompile(`^(?:#([\w-]+)|\.([\w-]+)|\[\s*([A-Za-z_][\w:.-]*)\s*(=\s*(?:"([^"]*)"|'([^']*)'|([^\]\s]+)))?\s*\])`)
)

// HTMLDirective renders `::: {html} tag#id.class[attr=value]` blocks
// as arbitrary HTML elements. The markdown option controls how the
// interior is treated: block content is parsed as nested blocks,
// inline content is scanned for inline syntax only, raw content is
// kept verbatim, and auto picks by tag.
type HTMLDirective struct{}

// Name implements Directive.
func (d *HTMLDirective) Name() string { return "html" }

// Options implements Directive.
func (d *HTMLDirective) Options() Spec {
	return Spec{
		"markdown": {
			Default:  "auto",
			Validate: StringChoiceOption("auto", "inline", "block", "raw"),
		},
	}
}

// RawContent implements RawContenter: inline and raw interiors are
// accumulated verbatim instead of block-parsed. Selector errors are
// ignored here and surface from Render.
func (d *HTMLDirective) RawContent(args string, opts Options) bool {
	tag, _, err := parseSelector(args)
	if err != nil {
		return false
	}
	mode := htmlContentMode(opts.String("markdown"), tag)
	return mode == "inline" || mode == "raw"
}

// Render implements Directive.
func (d *HTMLDirective) Render(env *DirectiveEnv) (*Node, error) {
	tag, attrs, err := parseSelector(env.Args)
	if err != nil {
		return nil, err
	}
	el := Element(tag)
	for _, a := range attrs {
		el.SetAttribute(a.Name, a.Value)
	}

	switch htmlContentMode(env.Options.String("markdown"), tag) {
	case "raw":
		el.AppendChild(Text(strings.Join(env.Raw, "\n")))
	case "inline":
		el.scanInline = true
		el.AppendChild(Text(strings.Join(env.Raw, "\n")))
	default:
		for _, c := range env.Children {
			el.AppendChild(c)
		}
	}
	return el, nil
}

// htmlInlineTags are elements whose content is treated as inline text
// when the markdown option is auto.
var htmlInlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true,
	"em": true, "i": true, "kbd": true, "mark": true, "q": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
}

// htmlRawTags are elements whose content is atomic when the markdown
// option is auto.
var htmlRawTags = map[string]bool{
	"pre": true, "script": true, "style": true, "textarea": true,
}

// htmlContentMode resolves the markdown option for a tag.
func htmlContentMode(opt, tag string) string {
	if opt != "" && opt != "auto" {
		return opt
	}
	switch {
	case htmlRawTags[tag]:
		return "raw"
	case htmlInlineTags[tag]:
		return "inline"
	default:
		return "block"
	}
}

// parseSelector splits a CSS-like selector into a lowercased tag name
// and its attributes. An id, repeated classes, and bracketed
// attributes are supported; a bracketed attribute without a value
// stores its own name, matching boolean attribute conventions.
func parseSelector(selector string) (string, []Attribute, error) {
	s := strings.TrimSpace(selector)
	tag := selectorTag.FindString(s)
	if tag == "" {
		return "", nil, fmt.Errorf("html block selector %q: missing tag", selector)
	}
	rest := s[len(tag):]

	var id string
	var classes []string
	var extra []Attribute
	for rest != "" {
		m := selectorPart.FindStringSubmatch(rest)
		if m == nil {
			return "", nil, fmt.Errorf("html block selector %q: bad token at %q", selector, rest)
		}
		switch {
		case m[1] != "":
			id = m[1]
		case m[2] != "":
			classes = append(classes, m[2])
		default:
			name := m[3]
			value := name
			if m[4] != "" {
				value = m[5] + m[6] + m[7]
			}
			extra = append(extra, Attribute{Name: name, Value: value})
		}
		rest = rest[len(m[0]):]
	}

	var attrs []Attribute
	if id != "" {
		attrs = append(attrs, Attribute{Name: "id", Value: id})
	}
	if len(classes) > 0 {
		attrs = append(attrs, Attribute{Name: "class", Value: strings.Join(classes, " ")})
	}
	attrs = append(attrs, extra...)
	return strings.ToLower(tag), attrs, nil
}
