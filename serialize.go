package mdext

import "strings"

// textEscaper escapes characters reserved by the output syntax in
// literal text and attribute values.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// voidTags render with no closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Render serializes a document to HTML. It is a pure function: literal
// text and attribute values are escaped, raw markup nodes pass through
// verbatim, and the document is not modified.
func Render(doc *Document) string {
	var b strings.Builder
	for _, block := range doc.Blocks() {
		renderNode(&b, block)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderNodes serializes a detached node sequence, used for inline
// fragments.
func RenderNodes(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		renderNode(&b, n)
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindText:
		b.WriteString(textEscaper.Replace(n.Literal))
	case KindRaw:
		b.WriteString(n.Literal)
	case KindElement:
		if n.Tag == "" {
			// Synthetic containers render children only.
			for _, c := range n.Children() {
				renderNode(b, c)
			}
			return
		}
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.Attributes() {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(textEscaper.Replace(a.Value))
			b.WriteByte('"')
		}
		if voidTags[n.Tag] {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children() {
			renderNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}
