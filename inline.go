package mdext

import (
	"fmt"
	"regexp"
)

// DefaultMaxInlineDepth bounds handler-requested re-scanning of nested
// inline content. Exceeding it degrades the offending span to literal
// text; it never aborts a conversion.
const DefaultMaxInlineDepth = 100

// InlineMatch describes one recognized span inside the scanned text.
type InlineMatch struct {
	Text   string   // the full text being scanned
	Start  int      // match start offset
	End    int      // match end offset, always > Start
	Groups []string // submatches for regex-backed rules, Groups[0] is the whole match
}

// InlineRule recognizes a span of running text and turns it into
// nodes. Implementations must be stateless with respect to a single
// conversion: the same rule value is shared across concurrent
// conversions once setup is complete.
type InlineRule interface {
	// Name identifies the rule within its registry.
	Name() string

	// Match reports the earliest occurrence of the rule's pattern at
	// or after pos. Matches must be non-empty (End > Start), and the
	// result must depend only on text and pos: the scanner caches
	// matches across cursor advances, so patterns sensitive to the
	// preceding context must inspect the bytes before the match in the
	// full text instead of anchoring to pos.
	Match(text string, pos int) (InlineMatch, bool)

	// Handle converts a match into zero or more nodes and returns the
	// next cursor position. The scanner clamps the returned cursor to
	// at least the match end, guaranteeing termination.
	Handle(m InlineMatch, ctx *InlineContext) ([]*Node, int, error)

	// Conflicts names rules that must not re-match inside content this
	// rule has consumed (e.g. strikethrough and subscript competing
	// for the same run of tildes).
	Conflicts() []string
}

// InlineScanner applies a resolved, ordered rule set to running text.
// It is immutable after construction and safe for concurrent use.
type InlineScanner struct {
	rules    []InlineRule
	maxDepth int
}

// NewInlineScanner resolves the registry order and builds a scanner.
// Every registered value must implement InlineRule.
func NewInlineScanner(reg *Registry, maxDepth int) (*InlineScanner, error) {
	order, err := reg.ResolveOrder()
	if err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxInlineDepth
	}
	rules := make([]InlineRule, 0, len(order))
	for _, e := range order {
		rule, ok := e.Value.(InlineRule)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an inline rule", ErrConfiguration, e.Name)
		}
		rules = append(rules, rule)
	}
	return &InlineScanner{rules: rules, maxDepth: maxDepth}, nil
}

// Rules returns the rules in resolved order.
func (s *InlineScanner) Rules() []InlineRule { return s.rules }

// Scan converts text into a node sequence. Degradations (recursion
// limit, failing handlers) are recorded on report and the affected
// span falls back to literal text.
func (s *InlineScanner) Scan(text string, report *Report) []*Node {
	ctx := &InlineContext{scanner: s, report: report}
	return ctx.scan(text)
}

// InlineContext carries per-subtree scanning state: recursion depth
// and the set of rules disabled by conflict declarations.
type InlineContext struct {
	scanner  *InlineScanner
	report   *Report
	depth    int
	disabled map[string]bool
}

// ScanInner re-scans content nested inside a produced node, with the
// consuming rule's conflict set disabled for the whole subtree. Past
// the recursion limit the content is returned as a single literal
// text node and the degradation is recorded.
func (c *InlineContext) ScanInner(text string) []*Node {
	if text == "" {
		return nil
	}
	if c.depth+1 >= c.scanner.maxDepth {
		c.report.degrade(ErrRecursionLimit, text)
		return []*Node{Text(text)}
	}
	child := &InlineContext{
		scanner:  c.scanner,
		report:   c.report,
		depth:    c.depth + 1,
		disabled: c.disabled,
	}
	return child.scan(text)
}

// withConflicts returns a context whose disabled set additionally
// covers the given rule's conflicts. Shared maps are copied on write.
func (c *InlineContext) withConflicts(rule InlineRule) *InlineContext {
	conflicts := rule.Conflicts()
	if len(conflicts) == 0 {
		return c
	}
	disabled := make(map[string]bool, len(c.disabled)+len(conflicts))
	for name := range c.disabled {
		disabled[name] = true
	}
	for _, name := range conflicts {
		disabled[name] = true
	}
	return &InlineContext{
		scanner:  c.scanner,
		report:   c.report,
		depth:    c.depth,
		disabled: disabled,
	}
}

// scan walks the text with a cursor, at each position selecting the
// rule with the earliest match start; ties at the same offset resolve
// by registry order, not match length.
func (c *InlineContext) scan(text string) []*Node {
	rules := c.scanner.rules

	// Cached earliest matches per rule. A cached match found from an
	// earlier cursor stays the leftmost one as long as its start has
	// not been passed.
	type cached struct {
		m     InlineMatch
		ok    bool
		valid bool
	}
	cache := make([]cached, len(rules))

	var nodes []*Node
	cursor := 0
	for cursor < len(text) {
		best := -1
		var bestMatch InlineMatch
		for i, rule := range rules {
			if c.disabled[rule.Name()] {
				continue
			}
			if !cache[i].valid || (cache[i].ok && cache[i].m.Start < cursor) {
				m, ok := rule.Match(text, cursor)
				cache[i] = cached{m: m, ok: ok, valid: true}
			}
			if !cache[i].ok {
				continue
			}
			m := cache[i].m
			if m.End <= m.Start {
				continue // empty matches cannot advance the cursor
			}
			if best == -1 || m.Start < bestMatch.Start {
				best, bestMatch = i, m
			}
			if bestMatch.Start == cursor {
				break // no later rule can start earlier
			}
		}

		if best == -1 {
			nodes = append(nodes, Text(text[cursor:]))
			break
		}
		if bestMatch.Start > cursor {
			nodes = append(nodes, Text(text[cursor:bestMatch.Start]))
		}

		rule := rules[best]
		produced, next, err := rule.Handle(bestMatch, c.withConflicts(rule))
		if err != nil {
			c.report.degrade(err, text[bestMatch.Start:bestMatch.End])
			nodes = append(nodes, Text(text[bestMatch.Start:bestMatch.End]))
			next = bestMatch.End
		} else {
			nodes = append(nodes, produced...)
		}
		if next < bestMatch.End {
			next = bestMatch.End
		}
		cursor = next
	}
	return nodes
}

// scanDocument resolves deferred inline content inside a parsed
// document: every element the block parser flagged gets its raw text
// child replaced by the scanned node sequence.
func (s *InlineScanner) scanDocument(doc *Document, report *Report) {
	doc.Walk(func(n *Node) WalkStatus {
		if !n.scanInline {
			return WalkContinue
		}
		n.scanInline = false
		raw := ""
		if first := n.FirstChild(); first != nil && first.Kind == KindText {
			raw = first.Literal
		}
		n.RemoveChildren()
		for _, child := range s.Scan(raw, report) {
			n.AppendChild(child)
		}
		return WalkSkipChildren
	})
}

// Triggerer is an optional interface for inline rules that can name
// the bytes able to start one of their matches. The goldmark bridge
// uses it to slot rules into goldmark's trigger-byte dispatch.
type Triggerer interface {
	Triggers() []byte
}

// RegexRule is an InlineRule backed by a compiled regular expression.
// The pattern's first submatch, when present, is conventionally the
// span content handlers re-scan.
type RegexRule struct {
	name      string
	re        *regexp.Regexp
	conflicts []string
	handler   InlineHandlerFunc
	triggers  []byte
}

// InlineHandlerFunc converts a match into nodes; see InlineRule.Handle.
type InlineHandlerFunc func(m InlineMatch, ctx *InlineContext) ([]*Node, int, error)

// NewRegexRule builds a regex-backed inline rule. Trigger bytes are
// derived from the pattern's literal prefix when it has one; use
// WithTriggers otherwise.
func NewRegexRule(name string, re *regexp.Regexp, handler InlineHandlerFunc, conflicts ...string) *RegexRule {
	r := &RegexRule{name: name, re: re, conflicts: conflicts, handler: handler}
	if prefix, _ := re.LiteralPrefix(); prefix != "" {
		r.triggers = []byte{prefix[0]}
	}
	return r
}

// WithTriggers overrides the derived trigger bytes. Returns r for
// chaining during setup.
func (r *RegexRule) WithTriggers(triggers ...byte) *RegexRule {
	r.triggers = triggers
	return r
}

// Triggers implements Triggerer.
func (r *RegexRule) Triggers() []byte { return r.triggers }

// Name implements InlineRule.
func (r *RegexRule) Name() string { return r.name }

// Conflicts implements InlineRule.
func (r *RegexRule) Conflicts() []string { return r.conflicts }

// Match implements InlineRule using leftmost regex matching.
func (r *RegexRule) Match(text string, pos int) (InlineMatch, bool) {
	if pos >= len(text) {
		return InlineMatch{}, false
	}
	loc := r.re.FindStringSubmatchIndex(text[pos:])
	if loc == nil {
		return InlineMatch{}, false
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		lo, hi := loc[2*i], loc[2*i+1]
		if lo >= 0 {
			groups[i] = text[pos+lo : pos+hi]
		}
	}
	return InlineMatch{
		Text:   text,
		Start:  pos + loc[0],
		End:    pos + loc[1],
		Groups: groups,
	}, true
}

// Handle implements InlineRule by delegating to the handler func.
func (r *RegexRule) Handle(m InlineMatch, ctx *InlineContext) ([]*Node, int, error) {
	return r.handler(m, ctx)
}

// SpanRule returns a rule wrapping its first submatch in the given
// element tag, with the inner content re-scanned for further inline
// syntax. This covers the common ==mark==, ^sup^, ~sub~ family.
func SpanRule(name string, re *regexp.Regexp, tag string, conflicts ...string) *RegexRule {
	return NewRegexRule(name, re, func(m InlineMatch, ctx *InlineContext) ([]*Node, int, error) {
		el := Element(tag)
		if len(m.Groups) > 1 {
			for _, child := range ctx.ScanInner(m.Groups[1]) {
				el.AppendChild(child)
			}
		}
		return []*Node{el}, m.End, nil
	}, conflicts...)
}
