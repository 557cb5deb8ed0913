package mdext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-mdext/internal/yamlutil"
)

// Directive open/close markers: runs of three or more colons, a braced
// name, and optional arguments.
var (
	directiveOpen  = regexp.MustCompile(`^( *)(:{3,})\s*\{\s*(\w+)\s*\}\s*(.*?)\s*$`)
	directiveClose = regexp.MustCompile(`^( *)(:{3,})\s*$`)
)

// DirectiveEnv is everything a directive needs to render itself: its
// open-line arguments, validated options, parsed interior blocks, the
// node it will be attached under, and a document-wide tracker for
// cross-block state (e.g. tab group numbering).
type DirectiveEnv struct {
	Args     string
	Options  Options
	Children []*Node
	Raw      []string // verbatim interior lines of raw-content directives
	Parent   *Node
	Tracker  map[string]any
}

// Directive is one registered block directive: `::: {name} args`
// followed by an optional `---` delimited YAML-ish option header and
// nested block content.
type Directive interface {
	// Name is the tag matched inside the braces of the open marker.
	Name() string

	// Options declares the recognized option header keys.
	Options() Spec

	// Render builds the directive's node. Implementations attach
	// env.Children where they belong. Returning nil means the
	// directive spliced itself into an existing sibling of env.Parent.
	Render(env *DirectiveEnv) (*Node, error)
}

// RawContenter is an optional Directive extension for directives whose
// interior may be taken verbatim instead of block-parsed. It is
// consulted once the open line and option header are known.
type RawContenter interface {
	RawContent(args string, opts Options) bool
}

// DirectiveSyntax parses directive blocks and dispatches to the
// registered directives by name. Close markers must use a colon run at
// least as long as the opening run, at the same indent.
type DirectiveSyntax struct {
	directives map[string]Directive
}

// NewDirectiveSyntax builds the syntax from a directive set.
func NewDirectiveSyntax(directives ...Directive) (*DirectiveSyntax, error) {
	s := &DirectiveSyntax{directives: make(map[string]Directive, len(directives))}
	for _, d := range directives {
		if err := s.Add(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers one more directive.
func (s *DirectiveSyntax) Add(d Directive) error {
	if _, ok := s.directives[d.Name()]; ok {
		return fmt.Errorf("%w: directive %q", ErrDuplicateName, d.Name())
	}
	s.directives[d.Name()] = d
	return nil
}

// Name implements BlockSyntax.
func (s *DirectiveSyntax) Name() string { return "directive" }

// AllowFrontmatter implements BlockSyntax.
func (s *DirectiveSyntax) AllowFrontmatter() bool { return true }

// Open implements BlockSyntax. Lines naming an unregistered directive
// are left alone and become literal content.
func (s *DirectiveSyntax) Open(line string, _ *ParseState) (*BlockContext, bool) {
	m := directiveOpen.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name := strings.ToLower(m[3])
	if _, ok := s.directives[name]; !ok {
		return nil, false
	}
	return &BlockContext{
		Tag:    name,
		Args:   m[4],
		Indent: len(m[1]),
		Marker: m[2],
	}, true
}

// Close implements BlockSyntax.
func (s *DirectiveSyntax) Close(line string, bc *BlockContext) bool {
	m := directiveClose.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return len(m[1]) == bc.Indent && len(m[2]) >= len(bc.Marker)
}

// HeaderDone implements headerObserver: directives declaring raw
// content switch the context to verbatim accumulation before any
// interior line is block-parsed. Header errors are left for Finish.
func (s *DirectiveSyntax) HeaderDone(bc *BlockContext, _ *ParseState) {
	rc, ok := s.directives[bc.Tag].(RawContenter)
	if !ok {
		return
	}
	opts, err := s.applyHeader(bc)
	if err != nil {
		return
	}
	if rc.RawContent(bc.Args, opts) {
		bc.Raw = true
	}
}

// applyHeader parses and validates the context's option header against
// the directive's spec.
func (s *DirectiveSyntax) applyHeader(bc *BlockContext) (Options, error) {
	d := s.directives[bc.Tag]

	raw := make(map[string]any)
	if len(bc.RawHeader) > 0 {
		if err := yamlutil.Unmarshal([]byte(strings.Join(bc.RawHeader, "\n")), &raw); err != nil {
			return nil, fmt.Errorf("directive %q header: %w", bc.Tag, err)
		}
	}
	opts, err := d.Options().Apply(raw)
	if err != nil {
		return nil, fmt.Errorf("directive %q: %w", bc.Tag, err)
	}
	return opts, nil
}

// Finish implements BlockSyntax: parse the option header, validate it
// against the directive's spec, and render.
func (s *DirectiveSyntax) Finish(bc *BlockContext, parent *Node, children []*Node, st *ParseState) (*Node, error) {
	opts, err := s.applyHeader(bc)
	if err != nil {
		return nil, err
	}

	return s.directives[bc.Tag].Render(&DirectiveEnv{
		Args:     bc.Args,
		Options:  opts,
		Children: children,
		Raw:      bc.Lines,
		Parent:   parent,
		Tracker:  st.Tracker(bc.Tag),
	})
}
