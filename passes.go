package mdext

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var headingTags = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// TOCPass assigns stable ids to headings and collects them into the
// report's TOC side channel. Existing ids are kept, so running the
// pass twice leaves the tree unchanged.
type TOCPass struct{}

// Name implements Pass.
func (p *TOCPass) Name() string { return "toc" }

// Transform implements Pass.
func (p *TOCPass) Transform(doc *Document, report *Report) error {
	report.TOC = nil
	seen := make(map[string]int)
	doc.Walk(func(n *Node) WalkStatus {
		level, ok := headingTags[n.Tag]
		if n.Kind != KindElement || !ok {
			return WalkContinue
		}
		title := textContent(n)
		id, has := n.Attribute("id")
		if !has || id == "" {
			id = uniqueSlug(title, seen)
			n.SetAttribute("id", id)
		} else {
			seen[id]++
		}
		report.TOC = append(report.TOC, TOCEntry{Level: level, Title: title, ID: id})
		return WalkSkipChildren
	})
	return nil
}

// textContent concatenates the literal text of n's descendants.
func textContent(n *Node) string {
	var b strings.Builder
	n.Walk(func(c *Node) WalkStatus {
		if c.Kind == KindText {
			b.WriteString(c.Literal)
		}
		return WalkContinue
	})
	return b.String()
}

var slugStrip = regexp.MustCompile(`[^a-z0-9 _-]`)

// slugify lowercases, strips punctuation, and hyphenates a title.
func slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	s = strings.Join(strings.Fields(s), "-")
	if s == "" {
		s = "section"
	}
	return s
}

// uniqueSlug disambiguates repeated titles with a numeric suffix.
func uniqueSlug(title string, seen map[string]int) string {
	slug := slugify(title)
	n := seen[slug]
	seen[slug]++
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n)
}

// PathRewritePass converts relative img[src] and a[href] values to
// paths under Base. Absolute paths, URLs with a scheme, fragment
// links, paths escaping Base, and values already under Base are left
// untouched, so a second run changes nothing even when Base is itself
// a relative path.
type PathRewritePass struct {
	Base string
}

// Name implements Pass.
func (p *PathRewritePass) Name() string { return "pathrewrite" }

// Transform implements Pass.
func (p *PathRewritePass) Transform(doc *Document, _ *Report) error {
	if p.Base == "" {
		return nil
	}
	base := path.Clean(strings.ReplaceAll(p.Base, "\\", "/"))
	doc.Walk(func(n *Node) WalkStatus {
		if n.Kind != KindElement {
			return WalkContinue
		}
		var attr string
		switch n.Tag {
		case "img":
			attr = "src"
		case "a":
			attr = "href"
		default:
			return WalkContinue
		}
		val, ok := n.Attribute(attr)
		if !ok || !isRelativePath(val) {
			return WalkContinue
		}
		// A relative Base yields relative joined paths; values already
		// under it were rewritten by an earlier run.
		if val == base || strings.HasPrefix(val, base+"/") {
			return WalkContinue
		}
		joined := path.Join(base, val)
		// Paths traversing out of the base directory are suspicious;
		// leave them for the host to reject.
		if joined != base && !strings.HasPrefix(joined, base+"/") {
			return WalkContinue
		}
		n.SetAttribute(attr, joined)
		return WalkContinue
	})
	return nil
}

// isRelativePath reports whether val is a plain relative file path,
// as opposed to an absolute path, a URL, an anchor, or a data URI.
func isRelativePath(val string) bool {
	if val == "" || strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return false
	}
	if strings.Contains(val, "://") {
		return false
	}
	lower := strings.ToLower(val)
	for _, scheme := range []string{"mailto:", "tel:", "data:", "javascript:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}

// SanitizePass strips scripting vectors from the tree: `on*` event
// handler attributes and javascript: URLs in href/src.
type SanitizePass struct{}

// Name implements Pass.
func (p *SanitizePass) Name() string { return "sanitize" }

// Transform implements Pass.
func (p *SanitizePass) Transform(doc *Document, _ *Report) error {
	doc.Walk(func(n *Node) WalkStatus {
		if n.Kind != KindElement {
			return WalkContinue
		}
		for _, a := range append([]Attribute(nil), n.Attributes()...) {
			name := strings.ToLower(a.Name)
			if strings.HasPrefix(name, "on") {
				n.RemoveAttribute(a.Name)
				continue
			}
			if name == "href" || name == "src" {
				if strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Value)), "javascript:") {
					n.RemoveAttribute(a.Name)
				}
			}
		}
		return WalkContinue
	})
	return nil
}
