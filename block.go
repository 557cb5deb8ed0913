package mdext

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled block-level patterns.
var (
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	listItemPattern = regexp.MustCompile(`^ {0,3}([-*+]|\d{1,9}[.)]) +(.+)$`)
	fenceOpen       = regexp.MustCompile("^( *)(`{3,}|~{3,})[ ]*([^ `]*)[ ]*(.*?)[ ]*$")
	fenceClose      = regexp.MustCompile("^( *)(`{3,}|~{3,})[ ]*$")
)

// ParseState carries per-document parsing state shared between block
// syntaxes: trackers let a syntax accumulate information across the
// whole document (e.g. tab group numbering). State is created fresh
// per Parse call and discarded afterwards.
type ParseState struct {
	trackers map[string]map[string]any
	report   *Report
}

// Tracker returns the named persistent store for this parse.
func (st *ParseState) Tracker(name string) map[string]any {
	if st.trackers == nil {
		st.trackers = make(map[string]map[string]any)
	}
	t, ok := st.trackers[name]
	if !ok {
		t = make(map[string]any)
		st.trackers[name] = t
	}
	return t
}

// Report returns the conversion report for recording degradations.
func (st *ParseState) Report() *Report { return st.report }

// BlockContext is one open nested block: its type tag, marker
// metadata, and (for raw blocks) the accumulated interior lines. It is
// pushed when an open marker matches and popped on the matching close
// marker or at end of input.
type BlockContext struct {
	Tag       string   // type tag following the open marker
	Args      string   // remainder of the open line after the tag
	Indent    int      // open marker indent; part of the marker identity
	Marker    string   // the exact open marker run
	Raw       bool     // raw blocks accumulate lines verbatim, skipping nested parsing
	Lines     []string // interior lines of raw blocks, indent-stripped
	RawHeader []string // frontmatter lines for syntaxes that allow one

	headerState int // 0 awaiting, 1 collecting, 2 done
}

// BlockSyntax recognizes one family of block open/close markers.
type BlockSyntax interface {
	// Name identifies the syntax within its registry.
	Name() string

	// Open tests whether the line starts a block and returns the new
	// context. A close marker at the wrong indent never reaches Open
	// for the enclosing context; it is literal content.
	Open(line string, st *ParseState) (*BlockContext, bool)

	// Close tests whether the line terminates the given open context.
	// Indent is part of the marker identity: implementations must
	// reject a close run at a different indent.
	Close(line string, bc *BlockContext) bool

	// AllowFrontmatter reports whether the interior may begin with a
	// `---` delimited option header collected into bc.RawHeader.
	AllowFrontmatter() bool

	// Finish converts the completed context into a node. parent is the
	// node the result will be attached to and children are the parsed
	// interior blocks (empty for raw contexts); implementations attach
	// the children where they belong. Syntaxes that splice themselves
	// into an existing sibling of parent return nil. Errors degrade
	// the block to literal text, they never abort the parse.
	Finish(bc *BlockContext, parent *Node, children []*Node, st *ParseState) (*Node, error)
}

// headerObserver is an optional BlockSyntax extension notified when a
// context's option header is complete, before any interior line has
// been parsed. Syntaxes use it to switch the context to raw
// accumulation based on the header contents.
type headerObserver interface {
	HeaderDone(bc *BlockContext, st *ParseState)
}

// openBlock pairs an open context with the container collecting its
// parsed children.
type openBlock struct {
	syntax    BlockSyntax
	ctx       *BlockContext
	container *Node
	pending   []string
}

// BlockParser is the line-oriented, stack-based block parser. It is
// immutable after construction and safe for concurrent Parse calls.
type BlockParser struct {
	syntaxes []BlockSyntax
}

// NewBlockParser resolves the registry order and builds a parser.
// Every registered value must implement BlockSyntax.
func NewBlockParser(reg *Registry) (*BlockParser, error) {
	order, err := reg.ResolveOrder()
	if err != nil {
		return nil, err
	}
	syntaxes := make([]BlockSyntax, 0, len(order))
	for _, e := range order {
		s, ok := e.Value.(BlockSyntax)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a block syntax", ErrConfiguration, e.Name)
		}
		syntaxes = append(syntaxes, s)
	}
	return &BlockParser{syntaxes: syntaxes}, nil
}

// Parse builds a document from input lines. Malformed or unterminated
// blocks never fail: they are closed implicitly at end of input,
// consuming all remaining lines at their nesting level.
func (p *BlockParser) Parse(lines []string, report *Report) *Document {
	if report == nil {
		report = &Report{}
	}
	doc := NewDocument()
	st := &ParseState{report: report}

	var stack []*openBlock
	var pendingTop []string

	target := func() *Node {
		if len(stack) > 0 {
			return stack[len(stack)-1].container
		}
		return doc.Root()
	}
	pending := func() *[]string {
		if len(stack) > 0 {
			return &stack[len(stack)-1].pending
		}
		return &pendingTop
	}
	flush := func() {
		lines := *pending()
		*pending() = nil
		appendParagraph(target(), lines)
	}
	pop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		appendParagraph(top.container, top.pending)
		children := append([]*Node(nil), top.container.Children()...)
		top.container.RemoveChildren()
		parent := target()
		node, err := top.syntax.Finish(top.ctx, parent, children, st)
		if err != nil {
			report.degrade(err, strings.Join(top.ctx.Lines, "\n"))
			node = degradedBlock(top.ctx)
			for _, c := range children {
				node.AppendChild(c)
			}
		}
		if node == nil {
			return // syntax attached itself (e.g. tab grouping)
		}
		parent.AppendChild(node)
	}

	for _, line := range lines {
		var top *openBlock
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		// Raw blocks consume everything until their own close marker.
		if top != nil && top.ctx.Raw {
			if top.syntax.Close(line, top.ctx) {
				pop()
			} else {
				top.ctx.Lines = append(top.ctx.Lines, stripIndent(line, top.ctx.Indent))
			}
			continue
		}

		// Frontmatter header region of a freshly opened container. Once
		// the header completes the syntax may flip the context to raw
		// accumulation, which covers the current line too.
		if top != nil && top.syntax.AllowFrontmatter() && top.ctx.headerState != 2 {
			consumed := collectHeader(top.ctx, line)
			if top.ctx.headerState == 2 {
				if obs, ok := top.syntax.(headerObserver); ok {
					obs.HeaderDone(top.ctx, st)
				}
			}
			if consumed {
				continue
			}
			if top.ctx.Raw {
				if top.syntax.Close(line, top.ctx) {
					pop()
				} else {
					top.ctx.Lines = append(top.ctx.Lines, stripIndent(line, top.ctx.Indent))
				}
				continue
			}
		}

		if top != nil && top.syntax.Close(line, top.ctx) {
			pop()
			continue
		}

		if bc, syntax, ok := p.tryOpen(line, st); ok {
			flush()
			stack = append(stack, &openBlock{syntax: syntax, ctx: bc, container: Element("")})
			continue
		}

		if m := listItemPattern.FindStringSubmatch(line); m != nil {
			flush()
			appendListItem(target(), m[1], m[2])
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			h := Element(fmt.Sprintf("h%d", len(m[1])))
			h.scanInline = true
			h.AppendChild(Text(m[2]))
			target().AppendChild(h)
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		*pending() = append(*pending(), line)
	}

	// End of input: close all remaining contexts implicitly,
	// innermost first. This degrades formatting, never fails.
	flush()
	for len(stack) > 0 {
		pop()
	}
	return doc
}

// tryOpen tests the syntaxes in registry order against the line.
func (p *BlockParser) tryOpen(line string, st *ParseState) (*BlockContext, BlockSyntax, bool) {
	for _, s := range p.syntaxes {
		if bc, ok := s.Open(line, st); ok {
			return bc, s, true
		}
	}
	return nil, nil, false
}

// collectHeader accumulates a `---` delimited frontmatter block at the
// start of a container's interior. Returns true if the line was
// consumed by header collection.
func collectHeader(bc *BlockContext, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch bc.headerState {
	case 0:
		if trimmed == "---" {
			bc.headerState = 1
			return true
		}
		bc.headerState = 2
		return false
	case 1:
		if trimmed == "---" {
			bc.headerState = 2
		} else {
			bc.RawHeader = append(bc.RawHeader, line)
		}
		return true
	default:
		return false
	}
}

// appendListItem adds a bullet or numbered item under parent,
// continuing the previous list when the marker kind matches. A
// paragraph or other block between two items starts a fresh list.
func appendListItem(parent *Node, marker, content string) {
	tag := "ul"
	if marker[0] >= '0' && marker[0] <= '9' {
		tag = "ol"
	}
	list := parent.LastChild()
	if list == nil || list.Kind != KindElement || list.Tag != tag {
		list = Element(tag)
		parent.AppendChild(list)
	}
	li := Element("li")
	li.scanInline = true
	li.AppendChild(Text(content))
	list.AppendChild(li)
}

// appendParagraph turns pending text lines into a paragraph node whose
// content is inline-scanned later.
func appendParagraph(parent *Node, lines []string) {
	if len(lines) == 0 {
		return
	}
	para := Element("p")
	para.scanInline = true
	para.AppendChild(Text(strings.Join(lines, "\n")))
	parent.AppendChild(para)
}

// degradedBlock renders a failed block's raw content as preformatted
// literal text so nothing is silently dropped.
func degradedBlock(bc *BlockContext) *Node {
	pre := Element("pre")
	code := Element("code")
	code.AppendChild(Text(strings.Join(bc.Lines, "\n")))
	pre.AppendChild(code)
	return pre
}

// stripIndent removes up to indent leading spaces, reindenting fence
// content to where it is supposed to be.
func stripIndent(line string, indent int) string {
	i := 0
	for i < indent && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}

// MarkerSyntax is a generic single-line open/close marker pair for
// container blocks, e.g. a bracket block where `[` opens and `]`
// closes at the same indent. Finished blocks become elements with the
// configured tag.
type MarkerSyntax struct {
	name  string
	open  string
	close string
	tag   string
}

// NewMarkerSyntax builds a container syntax from literal open and
// close marker lines.
func NewMarkerSyntax(name, open, close, tag string) *MarkerSyntax {
	return &MarkerSyntax{name: name, open: open, close: close, tag: tag}
}

// Name implements BlockSyntax.
func (s *MarkerSyntax) Name() string { return s.name }

// AllowFrontmatter implements BlockSyntax.
func (s *MarkerSyntax) AllowFrontmatter() bool { return false }

// Open implements BlockSyntax: the line must be exactly the open
// marker, optionally indented.
func (s *MarkerSyntax) Open(line string, _ *ParseState) (*BlockContext, bool) {
	indent := countIndent(line)
	if strings.TrimRight(line[indent:], " ") != s.open {
		return nil, false
	}
	return &BlockContext{Tag: s.tag, Indent: indent, Marker: s.open}, true
}

// Close implements BlockSyntax: the close marker must appear at the
// same indent as the open marker; anywhere else it is literal content.
func (s *MarkerSyntax) Close(line string, bc *BlockContext) bool {
	indent := countIndent(line)
	return indent == bc.Indent && strings.TrimRight(line[indent:], " ") == s.close
}

// Finish implements BlockSyntax.
func (s *MarkerSyntax) Finish(bc *BlockContext, _ *Node, children []*Node, _ *ParseState) (*Node, error) {
	el := Element(s.tag)
	for _, c := range children {
		el.AppendChild(c)
	}
	return el, nil
}

func countIndent(line string) int {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
