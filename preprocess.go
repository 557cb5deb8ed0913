package mdext

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled preprocessing patterns.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Snippet inclusion marker: --8<-- "name"
	snippetMarker = regexp.MustCompile(`^ *--8<-- +"([^"]+)" *$`)

	// Fenced code block delimiter (backticks or tildes)
	fencedDelimiter = regexp.MustCompile("^ *(```|~~~)")
)

// maxSnippetDepth bounds nested snippet inclusion.
const maxSnippetDepth = 5

// SnippetResolver supplies the text for a snippet inclusion marker.
// The pipeline core performs no I/O itself; resolution is delegated to
// the host and treated as an opaque, synchronous text source.
type SnippetResolver interface {
	ResolveSnippet(name string) (string, error)
}

// Preprocessor normalizes raw markdown before block parsing and
// expands snippet inclusion markers.
type Preprocessor struct {
	snippets SnippetResolver
}

// NewPreprocessor builds a preprocessor; resolver may be nil to leave
// snippet markers untouched.
func NewPreprocessor(resolver SnippetResolver) *Preprocessor {
	return &Preprocessor{snippets: resolver}
}

// Preprocess applies all source transformations. Order matters:
// normalize line endings first, then snippet expansion, then blank
// line compression.
func (p *Preprocessor) Preprocess(content string, report *Report) string {
	content = normalizeLineEndings(content)
	content = p.expandSnippets(content, report, 0)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// expandSnippets replaces --8<-- "name" marker lines with resolver
// output, skipping markers inside fenced code blocks. Failed
// resolution degrades: the marker line stays literal and the failure
// is recorded. Resolved content is expanded recursively up to
// maxSnippetDepth.
func (p *Preprocessor) expandSnippets(content string, report *Report, depth int) string {
	if p.snippets == nil {
		return content
	}
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inCodeBlock := false
	for _, line := range lines {
		if fencedDelimiter.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}
		m := snippetMarker.FindStringSubmatch(line)
		if m == nil || inCodeBlock {
			out = append(out, line)
			continue
		}
		if depth >= maxSnippetDepth {
			report.degrade(fmt.Errorf("%w: %q", ErrSnippetDepth, m[1]), line)
			out = append(out, line)
			continue
		}
		text, err := p.snippets.ResolveSnippet(m[1])
		if err != nil {
			report.degrade(fmt.Errorf("resolving snippet %q: %w", m[1], err), line)
			out = append(out, line)
			continue
		}
		text = normalizeLineEndings(text)
		text = p.expandSnippets(text, report, depth+1)
		out = append(out, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
	}
	return strings.Join(out, "\n")
}
