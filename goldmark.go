package mdext

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// GoldmarkExtension adapts a converter's inline rule set to goldmark's
// extension mechanism, so hosts already rendering CommonMark through
// goldmark can pick up the extended inline syntax without running the
// standalone pipeline. Block syntaxes and passes are not bridged; only
// inline rules exposing trigger bytes participate.
type GoldmarkExtension struct {
	scanner *InlineScanner
}

// NewGoldmarkExtension builds the bridge from a converter. The
// converter's resolved inline rule order is preserved: earlier rules
// get higher goldmark parser priority.
func NewGoldmarkExtension(c *Converter) *GoldmarkExtension {
	return &GoldmarkExtension{scanner: c.scanner}
}

// Extend implements goldmark.Extender.
func (e *GoldmarkExtension) Extend(md goldmark.Markdown) {
	rules := e.scanner.Rules()
	parsers := make([]util.PrioritizedValue, 0, len(rules))
	for i, rule := range rules {
		t, ok := rule.(Triggerer)
		if !ok || len(t.Triggers()) == 0 {
			continue // goldmark dispatches on trigger bytes only
		}
		// Priorities sit after goldmark's emphasis parser (500) so
		// standard delimiters are claimed first.
		parsers = append(parsers, util.Prioritized(&gmInlineParser{
			rule:    rule,
			scanner: e.scanner,
		}, 550+i))
	}
	if len(parsers) > 0 {
		md.Parser().AddOptions(parser.WithInlineParsers(parsers...))
	}
	md.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&bridgeRenderer{}, 500),
	))
}

// kindBridgeSpan identifies pre-rendered spans produced by bridged
// inline rules.
var kindBridgeSpan = ast.NewNodeKind("BridgeSpan")

// bridgeSpan carries markup already rendered by the pipeline's own
// serializer through goldmark's AST untouched.
type bridgeSpan struct {
	ast.BaseInline
	markup []byte
}

// Kind implements ast.Node.
func (n *bridgeSpan) Kind() ast.NodeKind { return kindBridgeSpan }

// Dump implements ast.Node.
func (n *bridgeSpan) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Markup": string(n.markup)}, nil)
}

// gmInlineParser wraps one InlineRule as a goldmark inline parser.
type gmInlineParser struct {
	rule    InlineRule
	scanner *InlineScanner
}

// Trigger implements parser.InlineParser.
func (p *gmInlineParser) Trigger() []byte {
	return p.rule.(Triggerer).Triggers()
}

// Parse implements parser.InlineParser. The rule must match at the
// current position; handler output is serialized immediately and
// carried as a bridgeSpan.
func (p *gmInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	m, ok := p.rule.Match(string(line), 0)
	if !ok || m.Start != 0 {
		return nil
	}

	report := &Report{}
	ctx := &InlineContext{scanner: p.scanner, report: report}
	produced, next, err := p.rule.Handle(m, ctx.withConflicts(p.rule))
	if err != nil || len(report.Degradations) > 0 {
		return nil // let goldmark treat the span as plain text
	}
	if next < m.End {
		next = m.End
	}
	block.Advance(next)
	return &bridgeSpan{markup: []byte(RenderNodes(produced))}
}

// bridgeRenderer writes bridgeSpan markup verbatim.
type bridgeRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *bridgeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindBridgeSpan, renderBridgeSpan)
}

func renderBridgeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		if _, err := w.Write(node.(*bridgeSpan).markup); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkContinue, nil
}

// HTMLConverter renders full Markdown documents through goldmark with
// GFM extensions, syntax highlighting, and the bridged inline rules.
// It complements the standalone pipeline for hosts that want complete
// CommonMark coverage rather than extension-only processing.
type HTMLConverter struct {
	md goldmark.Markdown
}

// NewHTMLConverter builds a goldmark-backed converter carrying c's
// inline rules.
func NewHTMLConverter(c *Converter) *HTMLConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithStyle(c.cfg.highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
			NewGoldmarkExtension(c),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &HTMLConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment. Supports
// context cancellation via goroutine + select pattern since goldmark
// doesn't natively support context.
func (c *HTMLConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
