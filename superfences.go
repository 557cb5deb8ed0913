package mdext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// FenceInfo describes a completed fenced block handed to a handler.
type FenceInfo struct {
	Tag     string // info-string tag immediately after the open marker
	Args    string // rest of the info string
	Marker  string // the exact open marker run (backticks or tildes)
	Indent  int    // open marker indent
	Content string // raw untouched interior, indent-stripped
}

// FenceHandler renders a fenced block's raw content into a node
// directly, bypassing further block and inline parsing. This is the
// escape hatch for embedded foreign syntaxes such as diagrams.
type FenceHandler func(info FenceInfo, st *ParseState) (*Node, error)

// FenceSyntax parses fenced blocks delimited by runs of backticks or
// tildes (three or more). The close run must use the same character at
// the same indent and be at least as long as the open run; a close
// marker at any other indent is literal content, which is what allows
// nesting distinct fences inside directives and list-like containers.
type FenceSyntax struct {
	handlers map[string]FenceHandler
	fallback FenceHandler
}

// NewFenceSyntax builds a fence syntax. fallback renders blocks whose
// tag has no dedicated handler; nil falls back to PlainCodeHandler.
func NewFenceSyntax(fallback FenceHandler) *FenceSyntax {
	if fallback == nil {
		fallback = PlainCodeHandler
	}
	return &FenceSyntax{handlers: make(map[string]FenceHandler), fallback: fallback}
}

// Handle registers a custom handler for an info-string tag.
func (s *FenceSyntax) Handle(tag string, h FenceHandler) error {
	if _, ok := s.handlers[tag]; ok {
		return fmt.Errorf("%w: fence handler %q", ErrDuplicateName, tag)
	}
	s.handlers[tag] = h
	return nil
}

// Name implements BlockSyntax.
func (s *FenceSyntax) Name() string { return "fence" }

// AllowFrontmatter implements BlockSyntax.
func (s *FenceSyntax) AllowFrontmatter() bool { return false }

// Open implements BlockSyntax.
func (s *FenceSyntax) Open(line string, _ *ParseState) (*BlockContext, bool) {
	m := fenceOpen.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return &BlockContext{
		Tag:    m[3],
		Args:   m[4],
		Indent: len(m[1]),
		Marker: m[2],
		Raw:    true,
	}, true
}

// Close implements BlockSyntax.
func (s *FenceSyntax) Close(line string, bc *BlockContext) bool {
	m := fenceClose.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return len(m[1]) == bc.Indent &&
		m[2][0] == bc.Marker[0] &&
		len(m[2]) >= len(bc.Marker)
}

// Finish implements BlockSyntax by dispatching to the tag's handler.
func (s *FenceSyntax) Finish(bc *BlockContext, _ *Node, _ []*Node, st *ParseState) (*Node, error) {
	h, ok := s.handlers[bc.Tag]
	if !ok {
		h = s.fallback
	}
	return h(FenceInfo{
		Tag:     bc.Tag,
		Args:    bc.Args,
		Marker:  bc.Marker,
		Indent:  bc.Indent,
		Content: strings.Join(bc.Lines, "\n"),
	}, st)
}

// PlainCodeHandler renders a fence as pre/code with a language class,
// without syntax highlighting.
func PlainCodeHandler(info FenceInfo, _ *ParseState) (*Node, error) {
	code := Element("code")
	if info.Tag != "" {
		code.SetAttribute("class", "language-"+info.Tag)
	}
	code.AppendChild(Text(info.Content + "\n"))
	pre := Element("pre")
	pre.AppendChild(code)
	return pre, nil
}

// HighlightHandler returns a fence handler that highlights code via
// chroma using CSS classes (smaller output, external stylesheet
// control). Unknown languages fall back to the plain handler.
func HighlightHandler(styleName string) FenceHandler {
	style := styles.Get(styleName)
	return func(info FenceInfo, st *ParseState) (*Node, error) {
		if info.Tag == "" {
			return PlainCodeHandler(info, st)
		}
		lexer := lexers.Get(info.Tag)
		if lexer == nil {
			return PlainCodeHandler(info, st)
		}
		lexer = chroma.Coalesce(lexer)
		iterator, err := lexer.Tokenise(nil, info.Content+"\n")
		if err != nil {
			return nil, fmt.Errorf("tokenizing %q fence: %w", info.Tag, err)
		}
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, iterator); err != nil {
			return nil, fmt.Errorf("formatting %q fence: %w", info.Tag, err)
		}
		return Raw(buf.String()), nil
	}
}
