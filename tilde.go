package mdext

import "regexp"

// Tilde syntax: double tildes strike out, single tildes subscript.
// Both are built on ~, so they declare each other as conflicts: once
// one has consumed a run of tildes, the other must not re-match inside
// that span's subtree.
var (
	deletePattern    = regexp.MustCompile(`~~(.+?)~~`)
	subscriptPattern = regexp.MustCompile(`~([^~\s]+)~`)
)

// DeleteRule converts ~~text~~ to <del>.
func DeleteRule() *RegexRule {
	return SpanRule("delete", deletePattern, "del", "subscript")
}

// SubscriptRule converts ~text~ to <sub>. Subscript content may not
// contain spaces or tildes.
func SubscriptRule() *RegexRule {
	return SpanRule("subscript", subscriptPattern, "sub", "delete")
}
