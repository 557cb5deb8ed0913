package mdext

import "regexp"

// Caret syntax: double carets insert, single carets superscript. Both
// compete for the same runs of ^, so each disables the other inside
// content it has consumed.
var (
	insertPattern      = regexp.MustCompile(`\^\^(.+?)\^\^`)
	superscriptPattern = regexp.MustCompile(`\^([^\^\s]+)\^`)
)

// InsertRule converts ^^text^^ to <ins>.
func InsertRule() *RegexRule {
	return SpanRule("insert", insertPattern, "ins", "superscript")
}

// SuperscriptRule converts ^text^ to <sup>. Superscript content may
// not contain spaces or carets.
func SuperscriptRule() *RegexRule {
	return SpanRule("superscript", superscriptPattern, "sup", "insert")
}
