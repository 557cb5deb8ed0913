package mdext

import (
	"strings"
	"testing"
)

// newTestParser builds a block parser over the given syntaxes, all
// registered at the same priority.
func newTestParser(t *testing.T, syntaxes ...BlockSyntax) *BlockParser {
	t.Helper()
	reg := NewRegistry()
	for _, s := range syntaxes {
		if err := reg.Register(s.Name(), s, 10, Append()); err != nil {
			t.Fatalf("Register(%q) error = %v", s.Name(), err)
		}
	}
	p, err := NewBlockParser(reg)
	if err != nil {
		t.Fatalf("NewBlockParser() error = %v", err)
	}
	return p
}

func TestBlockParserBracketNesting(t *testing.T) {
	t.Parallel()

	// A[B[C]] as marker lines: three levels of nesting.
	bracket := NewMarkerSyntax("bracket", "[", "]", "div")
	p := newTestParser(t, bracket)

	doc := p.Parse([]string{"A", "[", "B", "[", "C", "]", "]"}, nil)
	got := Render(doc)
	want := "<p>A</p>\n<div><p>B</p><div><p>C</p></div></div>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBlockParserUnterminatedClosesAtEOF(t *testing.T) {
	t.Parallel()

	// A[B[C with no closers: all levels close implicitly at end of
	// input, never an error.
	bracket := NewMarkerSyntax("bracket", "[", "]", "div")
	p := newTestParser(t, bracket)

	report := &Report{}
	doc := p.Parse([]string{"A", "[", "B", "[", "C"}, report)
	got := Render(doc)
	want := "<p>A</p>\n<div><p>B</p><div><p>C</p></div></div>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBlockParserListItems(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)

	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			name:     "bullet items grouped",
			lines:    []string{"- one", "- two"},
			expected: "<ul><li>one</li><li>two</li></ul>\n",
		},
		{
			name:     "numbered items grouped",
			lines:    []string{"1. first", "2. second"},
			expected: "<ol><li>first</li><li>second</li></ol>\n",
		},
		{
			name:     "marker kind switch starts a new list",
			lines:    []string{"- a", "1. b"},
			expected: "<ul><li>a</li></ul>\n<ol><li>b</li></ol>\n",
		},
		{
			name:     "paragraph splits lists",
			lines:    []string{"- a", "text", "- b"},
			expected: "<ul><li>a</li></ul>\n<p>text</p>\n<ul><li>b</li></ul>\n",
		},
		{
			name:     "blank line keeps the list together",
			lines:    []string{"- a", "", "- b"},
			expected: "<ul><li>a</li><li>b</li></ul>\n",
		},
		{
			name:     "no space after marker is a paragraph",
			lines:    []string{"-item"},
			expected: "<p>-item</p>\n",
		},
		{
			name:     "task markers survive as item text",
			lines:    []string{"- [ ] milk", "- [x] eggs"},
			expected: "<ul><li>[ ] milk</li><li>[x] eggs</li></ul>\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(p.Parse(tt.lines, nil))
			if got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBlockParserListInsideContainer(t *testing.T) {
	t.Parallel()

	bracket := NewMarkerSyntax("bracket", "[", "]", "div")
	p := newTestParser(t, bracket)

	doc := p.Parse([]string{"[", "- a", "- b", "]"}, nil)
	got := Render(doc)
	want := "<div><ul><li>a</li><li>b</li></ul></div>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBlockParserCloseIndentIsMarkerIdentity(t *testing.T) {
	t.Parallel()

	// A close marker at the wrong indent is literal content, not a
	// close. This is what lets distinct fences nest inside containers.
	fence := NewFenceSyntax(PlainCodeHandler)
	p := newTestParser(t, fence)

	lines := []string{
		"```",
		"  ```",
		"code",
		"```",
	}
	doc := p.Parse(lines, nil)
	got := Render(doc)
	want := "<pre><code>  ```\ncode\n</code></pre>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBlockParserIndentedFence(t *testing.T) {
	t.Parallel()

	fence := NewFenceSyntax(PlainCodeHandler)
	p := newTestParser(t, fence)

	lines := []string{
		"  ```",
		"  inner",
		"  ```",
	}
	doc := p.Parse(lines, nil)
	got := Render(doc)
	want := "<pre><code>inner\n</code></pre>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBlockParserHeadings(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"h1", "# Title", "<h1>Title</h1>\n"},
		{"h3", "### Deep", "<h3>Deep</h3>\n"},
		{"trailing hashes stripped", "## Mid ##", "<h2>Mid</h2>\n"},
		{"seven hashes is a paragraph", "####### Too deep", "<p>####### Too deep</p>\n"},
		{"no space is a paragraph", "#tag", "<p>#tag</p>\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(p.Parse([]string{tt.line}, nil))
			if got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBlockParserParagraphGrouping(t *testing.T) {
	t.Parallel()

	p := newTestParser(t)
	doc := p.Parse([]string{"one", "two", "", "three"}, nil)
	got := Render(doc)
	want := "<p>one\ntwo</p>\n<p>three</p>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBlockParserFinishErrorDegrades(t *testing.T) {
	t.Parallel()

	// A syntax whose Finish fails must degrade the block to literal
	// text and record the failure, never abort the parse.
	fence := NewFenceSyntax(func(info FenceInfo, _ *ParseState) (*Node, error) {
		return nil, ErrConfiguration
	})
	p := newTestParser(t, fence)

	report := &Report{}
	doc := p.Parse([]string{"```x", "content", "```", "", "after"}, report)
	got := Render(doc)

	if !strings.Contains(got, "<pre><code>content</code></pre>") {
		t.Errorf("degraded block missing: %q", got)
	}
	if !strings.Contains(got, "<p>after</p>") {
		t.Errorf("parse did not continue after degraded block: %q", got)
	}
	if len(report.Degradations) != 1 {
		t.Errorf("degradations = %d, want 1", len(report.Degradations))
	}
}

func TestParseStateTracker(t *testing.T) {
	t.Parallel()

	st := &ParseState{}
	tr := st.Tracker("tabs")
	tr["count"] = 3
	if got := st.Tracker("tabs")["count"]; got != 3 {
		t.Errorf("Tracker(tabs)[count] = %v, want 3", got)
	}
	if other := st.Tracker("other"); len(other) != 0 {
		t.Errorf("Tracker(other) = %v, want empty", other)
	}
}
