package mdext

import (
	"fmt"
	"regexp"
	"strings"
)

// Auto-linking patterns for bare URLs and repository shorthand.
var (
	autolinkPattern = regexp.MustCompile(`\b(?:https?://|www\.)[^\s<>()]+[^\s<>().,;:!?'"]`)
	repoIssueRef    = regexp.MustCompile(`\b([\w.-]+)/([\w.-]+)#(\d+)\b`)
	mentionName     = regexp.MustCompile(`^@(\w[\w-]*)`)
)

// RepoProvider is the host-supplied repository host a document's
// shorthand references resolve against. It is consumed read-only.
type RepoProvider struct {
	Name    string // provider label, e.g. "github"
	BaseURL string // e.g. "https://github.com"
}

// GitHubProvider is the conventional default.
var GitHubProvider = RepoProvider{Name: "github", BaseURL: "https://github.com"}

// AutolinkRule converts bare http(s) and www URLs into links.
func AutolinkRule() *RegexRule {
	rule := NewRegexRule("autolink", autolinkPattern, func(m InlineMatch, _ *InlineContext) ([]*Node, int, error) {
		href := m.Groups[0]
		if strings.HasPrefix(href, "www.") {
			href = "https://" + href
		}
		a := Element("a", Attr("href", href))
		a.AppendChild(Text(m.Groups[0]))
		return []*Node{a}, m.End, nil
	})
	return rule.WithTriggers('h', 'w')
}

// RepoIssueRule converts user/repo#123 shorthand into issue links on
// the given provider.
func RepoIssueRule(provider RepoProvider) *RegexRule {
	rule := NewRegexRule("repo-issue", repoIssueRef, func(m InlineMatch, _ *InlineContext) ([]*Node, int, error) {
		user, repo, issue := m.Groups[1], m.Groups[2], m.Groups[3]
		href := fmt.Sprintf("%s/%s/%s/issues/%s", provider.BaseURL, user, repo, issue)
		a := Element("a", Attr("href", href), Attr("class", "magiclink magiclink-issue"))
		a.AppendChild(Text(m.Groups[0]))
		return []*Node{a}, m.End, nil
	})
	// Any word character can start the user name.
	return rule.WithTriggers(wordStartBytes()...)
}

// MentionRule converts @user mentions into profile links on the given
// provider.
func MentionRule(provider RepoProvider) InlineRule {
	return &mentionRule{provider: provider}
}

// mentionRule matches @user references at word boundaries. The
// boundary is checked against the byte preceding the match in the full
// text rather than anchoring to the scan position, so a result depends
// only on (text, pos) and stays valid under the scanner's match cache.
type mentionRule struct {
	provider RepoProvider
}

// Name implements InlineRule.
func (r *mentionRule) Name() string { return "mention" }

// Conflicts implements InlineRule.
func (r *mentionRule) Conflicts() []string { return nil }

// Triggers implements Triggerer.
func (r *mentionRule) Triggers() []byte { return []byte{'@'} }

// Match implements InlineRule.
func (r *mentionRule) Match(text string, pos int) (InlineMatch, bool) {
	if pos < 0 {
		pos = 0
	}
	for i := pos; i < len(text); i++ {
		if text[i] != '@' {
			continue
		}
		if i > 0 && !mentionBoundary(text[i-1]) {
			continue
		}
		m := mentionName.FindStringSubmatch(text[i:])
		if m == nil {
			continue
		}
		return InlineMatch{
			Text:   text,
			Start:  i,
			End:    i + len(m[0]),
			Groups: []string{m[0], m[1]},
		}, true
	}
	return InlineMatch{}, false
}

// Handle implements InlineRule.
func (r *mentionRule) Handle(m InlineMatch, _ *InlineContext) ([]*Node, int, error) {
	a := Element("a",
		Attr("href", r.provider.BaseURL+"/"+m.Groups[1]),
		Attr("class", "magiclink magiclink-mention"),
	)
	a.AppendChild(Text(m.Groups[0]))
	return []*Node{a}, m.End, nil
}

// mentionBoundary reports whether b may precede a mention.
func mentionBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '('
}

// wordStartBytes returns the ASCII bytes that can begin a repo
// shorthand reference.
func wordStartBytes() []byte {
	var bs []byte
	for b := byte('a'); b <= 'z'; b++ {
		bs = append(bs, b)
	}
	for b := byte('A'); b <= 'Z'; b++ {
		bs = append(bs, b)
	}
	for b := byte('0'); b <= '9'; b++ {
		bs = append(bs, b)
	}
	return append(bs, '_')
}
