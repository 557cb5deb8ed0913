package mdext

import (
	"errors"
	"strings"
	"testing"
)

func newTestPostprocessor(t *testing.T, passes ...Pass) *Postprocessor {
	t.Helper()
	reg := NewRegistry()
	for _, p := range passes {
		if err := reg.Register(p.Name(), p, 10, Append()); err != nil {
			t.Fatalf("Register(%q) error = %v", p.Name(), err)
		}
	}
	pp, err := NewPostprocessor(reg)
	if err != nil {
		t.Fatalf("NewPostprocessor() error = %v", err)
	}
	return pp
}

// sampleDocument builds a document exercising every default pass:
// headings for the TOC, a task list, relative links, and a scripting
// vector for the sanitizer.
func sampleDocument() *Document {
	doc := NewDocument()

	h1 := Element("h1")
	h1.AppendChild(Text("Intro"))
	doc.AppendBlock(h1)

	h2 := Element("h2")
	h2.AppendChild(Text("Intro"))
	doc.AppendBlock(h2)

	ul := Element("ul")
	li := Element("li")
	li.AppendChild(Text("[x] done"))
	ul.AppendChild(li)
	doc.AppendBlock(ul)

	p := Element("p")
	a := Element("a", Attr("href", "docs/page.html"), Attr("onclick", "evil()"))
	a.AppendChild(Text("link"))
	p.AppendChild(a)
	img := Element("img", Attr("src", "javascript:alert(1)"))
	p.AppendChild(img)
	doc.AppendBlock(p)

	return doc
}

func TestPostprocessIdempotence(t *testing.T) {
	t.Parallel()

	// Running the full pass pipeline twice must produce the same tree
	// as running it once: hosts re-run postprocessing defensively.
	pp := newTestPostprocessor(t,
		&TOCPass{},
		&TaskListPass{},
		&PathRewritePass{Base: "/srv/docs"},
		&SanitizePass{},
	)

	doc := sampleDocument()
	report := &Report{}
	if _, err := pp.Postprocess(doc, report); err != nil {
		t.Fatalf("Postprocess() error = %v", err)
	}
	once := Render(doc)
	tocOnce := append([]TOCEntry(nil), report.TOC...)

	if _, err := pp.Postprocess(doc, report); err != nil {
		t.Fatalf("second Postprocess() error = %v", err)
	}
	twice := Render(doc)

	if once != twice {
		t.Errorf("postprocess not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	if len(report.TOC) != len(tocOnce) {
		t.Fatalf("TOC grew on second run: %d vs %d", len(report.TOC), len(tocOnce))
	}
	for i := range tocOnce {
		if report.TOC[i] != tocOnce[i] {
			t.Errorf("TOC[%d] changed: %+v vs %+v", i, report.TOC[i], tocOnce[i])
		}
	}
}

func TestTOCPass(t *testing.T) {
	t.Parallel()

	pp := newTestPostprocessor(t, &TOCPass{})
	doc := sampleDocument()
	report := &Report{}
	if _, err := pp.Postprocess(doc, report); err != nil {
		t.Fatal(err)
	}

	if len(report.TOC) != 2 {
		t.Fatalf("TOC entries = %d, want 2", len(report.TOC))
	}
	want := []TOCEntry{
		{Level: 1, Title: "Intro", ID: "intro"},
		{Level: 2, Title: "Intro", ID: "intro-1"},
	}
	for i, entry := range want {
		if report.TOC[i] != entry {
			t.Errorf("TOC[%d] = %+v, want %+v", i, report.TOC[i], entry)
		}
	}

	got := Render(doc)
	if !strings.Contains(got, `<h1 id="intro">`) || !strings.Contains(got, `<h2 id="intro-1">`) {
		t.Errorf("heading ids missing: %q", got)
	}
}

func TestTOCPassKeepsExistingIDs(t *testing.T) {
	t.Parallel()

	doc := NewDocument()
	h := Element("h1", Attr("id", "custom"))
	h.AppendChild(Text("Title"))
	doc.AppendBlock(h)

	pp := newTestPostprocessor(t, &TOCPass{})
	report := &Report{}
	if _, err := pp.Postprocess(doc, report); err != nil {
		t.Fatal(err)
	}
	if report.TOC[0].ID != "custom" {
		t.Errorf("ID = %q, want custom", report.TOC[0].ID)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation stripped", "What's New?!", "whats-new"},
		{"collapsed whitespace", "  a   b  ", "a-b"},
		{"empty falls back", "???", "section"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := slugify(tt.title); got != tt.expected {
				t.Errorf("slugify(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestPassErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	pp := newTestPostprocessor(t, NewPass("exploding", func(*Document, *Report) error {
		return boom
	}))
	_, err := pp.Postprocess(NewDocument(), nil)
	if !errors.Is(err, boom) {
		t.Errorf("Postprocess() error = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "exploding") {
		t.Errorf("error %q does not name the failing pass", err)
	}
}

func TestReportMeta(t *testing.T) {
	t.Parallel()

	r := &Report{}
	if _, ok := r.Meta("missing"); ok {
		t.Error("Meta(missing) = true on empty report")
	}
	r.SetMeta("words", 42)
	v, ok := r.Meta("words")
	if !ok || v != 42 {
		t.Errorf("Meta(words) = %v, %v", v, ok)
	}
}
