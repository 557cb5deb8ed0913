package mdext

import (
	"strings"
	"testing"
)

func parseTabs(t *testing.T, lines []string) *Document {
	t.Helper()
	p := newDirectiveParser(t, &TabsDirective{})
	return p.Parse(lines, nil)
}

func TestTabsAdjacentTabsJoinOneGroup(t *testing.T) {
	t.Parallel()

	doc := parseTabs(t, []string{
		"::: {tab} One",
		"first",
		":::",
		"::: {tab} Two",
		"second",
		":::",
	})

	blocks := doc.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("top-level blocks = %d, want 1 shared group", len(blocks))
	}
	got := Render(doc)

	if n := strings.Count(got, "tabbed-block"); n != 2 {
		t.Errorf("tabbed-block count = %d, want 2: %q", n, got)
	}
	if n := strings.Count(got, "type=\"radio\""); n != 2 {
		t.Errorf("radio input count = %d, want 2: %q", n, got)
	}
	if n := strings.Count(got, "checked=\"checked\""); n != 1 {
		t.Errorf("checked count = %d, want 1: %q", n, got)
	}
	if !strings.Contains(got, "data-tabs=\"1:2\"") {
		t.Errorf("group data-tabs missing or wrong: %q", got)
	}
	for _, label := range []string{">One</label>", ">Two</label>"} {
		if !strings.Contains(got, label) {
			t.Errorf("missing label %q: %q", label, got)
		}
	}
}

func TestTabsNewOptionStartsFreshGroup(t *testing.T) {
	t.Parallel()

	doc := parseTabs(t, []string{
		"::: {tab} One",
		"first",
		":::",
		"::: {tab} Two",
		"---",
		"new: true",
		"---",
		"second",
		":::",
	})

	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("top-level blocks = %d, want 2 separate groups", len(blocks))
	}
	got := Render(doc)
	if !strings.Contains(got, "data-tabs=\"1:1\"") || !strings.Contains(got, "data-tabs=\"2:1\"") {
		t.Errorf("group numbering wrong: %q", got)
	}
	if n := strings.Count(got, "checked=\"checked\""); n != 2 {
		t.Errorf("checked count = %d, want one per group: %q", n, got)
	}
}

func TestTabsSeparatedTabsDoNotJoin(t *testing.T) {
	t.Parallel()

	doc := parseTabs(t, []string{
		"::: {tab} One",
		"first",
		":::",
		"",
		"between",
		"",
		"::: {tab} Two",
		"second",
		":::",
	})

	if blocks := doc.Blocks(); len(blocks) != 3 {
		t.Fatalf("top-level blocks = %d, want 3", len(blocks))
	}
}

func TestTabsDefaultTitle(t *testing.T) {
	t.Parallel()

	doc := parseTabs(t, []string{"::: {tab}", "body", ":::"})
	got := Render(doc)
	if !strings.Contains(got, ">Tab 1</label>") {
		t.Errorf("default title missing: %q", got)
	}
}

func TestTabsInputIDsAreUnique(t *testing.T) {
	t.Parallel()

	doc := parseTabs(t, []string{
		"::: {tab} A",
		"a",
		":::",
		"::: {tab} B",
		"b",
		":::",
	})
	got := Render(doc)
	for _, id := range []string{"__tabbed_1_1", "__tabbed_1_2"} {
		if n := strings.Count(got, "id=\""+id+"\""); n != 1 {
			t.Errorf("id %q count = %d, want 1: %q", id, n, got)
		}
	}
}
