package mdext

import "regexp"

// ==text== highlighting.
var markPattern = regexp.MustCompile(`==(.+?)==`)

// MarkRule converts ==text== spans to <mark> elements; the inner
// content is re-scanned for further inline syntax.
func MarkRule() *RegexRule {
	return SpanRule("mark", markPattern, "mark")
}
