// Package mdext is an extensible Markdown transformation pipeline:
// plugins contribute inline rules, block syntaxes, directives, fence
// handlers and tree passes, and the pipeline orders, runs and
// serializes them deterministically.
//
// # Quick Start
//
// Create a converter and convert markdown:
//
//	conv, err := mdext.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, mdext.Input{
//	    Markdown: "==highlighted== and H~2~O",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.HTML)
//
// The result carries the serialized markup plus a Report with the
// table of contents, collected metadata, and any degradations
// (malformed constructs that fell back to literal text).
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Preprocessing (line ending normalization, snippet inclusion)
//  2. Block parsing (fences, ::: {name} directives, headings)
//  3. Inline scanning (marks, sub/superscript, emoji, auto-links)
//  4. Postprocessing passes over the tree (TOC, task lists, sanitize)
//  5. Serialization to markup
//
// # Extension
//
// Plugins register through functional options with a priority and an
// anchor constraint; the registry resolves a total order before the
// first conversion and rejects cycles at setup:
//
//	conv, err := mdext.NewConverter(
//	    mdext.WithInlineRule(myRule, 25, mdext.Before("emoji")),
//	    mdext.WithFenceHandler("diagram", renderDiagram),
//	    mdext.WithDirective(mdext.NewAdmonition("example")),
//	    mdext.WithPass(myPass, 60, mdext.Append()),
//	)
//
// Malformed input never fails a conversion: unknown directive options,
// unterminated blocks and over-deep nesting degrade to literal text
// and are recorded on the Report. Only setup errors (duplicate names,
// unknown anchors, ordering cycles) and empty input return errors.
//
// # Goldmark Integration
//
// Hosts rendering full CommonMark can carry the inline rule catalog
// into goldmark instead of running the standalone pipeline:
//
//	html := mdext.NewHTMLConverter(conv)
//	out, err := html.ToHTML(ctx, content)
//
// A Converter is immutable after NewConverter and safe for concurrent
// Convert calls.
package mdext
