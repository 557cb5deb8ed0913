package mdext

import (
	"regexp"

	"github.com/yuin/goldmark-emoji/definition"
)

// :shortname: emoji references.
var emojiPattern = regexp.MustCompile(`:([\w+-]+):`)

// EmojiRule converts :shortname: references to their unicode
// characters using the given index. A nil index falls back to the
// github emoji set. Unknown short names stay literal.
func EmojiRule(index definition.Emojis) *RegexRule {
	if index == nil {
		index = definition.Github()
	}
	return NewRegexRule("emoji", emojiPattern, func(m InlineMatch, _ *InlineContext) ([]*Node, int, error) {
		em, ok := index.Get(m.Groups[1])
		if !ok || !em.IsUnicode() {
			return []*Node{Text(m.Groups[0])}, m.End, nil
		}
		span := Element("span", Attr("class", "emoji"))
		span.AppendChild(Text(string(em.Unicode)))
		return []*Node{span}, m.End, nil
	})
}
