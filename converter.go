package mdext

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark-emoji/definition"
)

// Compile-time interface implementation checks. These ensure the
// builtin catalog satisfies the pipeline interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ InlineRule   = (*RegexRule)(nil)
	_ Triggerer    = (*RegexRule)(nil)
	_ BlockSyntax  = (*FenceSyntax)(nil)
	_ BlockSyntax  = (*DirectiveSyntax)(nil)
	_ BlockSyntax  = (*MarkerSyntax)(nil)
	_ Directive    = (*AdmonitionDirective)(nil)
	_ Directive    = (*DetailsDirective)(nil)
	_ Directive    = (*TabsDirective)(nil)
	_ Directive    = (*HTMLDirective)(nil)
	_ RawContenter = (*HTMLDirective)(nil)
	_ Pass         = (*TOCPass)(nil)
	_ Pass         = (*PathRewritePass)(nil)
	_ Pass         = (*SanitizePass)(nil)
	_ Pass         = (*TaskListPass)(nil)
)

// Input contains conversion parameters.
type Input struct {
	Markdown  string // markdown content (required)
	SourceDir string // base for rewriting relative image/link paths (optional)
}

// Result is a finished conversion: the serialized markup plus the
// metadata side channel collected along the way.
type Result struct {
	HTML   []byte
	Report *Report
}

// named is the common shape of registerable pipeline values.
type named interface {
	Name() string
}

// pendingEntry is a registration queued by an option until the
// registries are assembled in NewConverter.
type pendingEntry struct {
	value    named
	priority int
	anchor   Anchor
}

// converterConfig holds setup-phase configuration for Converter.
type converterConfig struct {
	maxInlineDepth int
	highlightStyle string
	snippets       SnippetResolver
	emojiIndex     definition.Emojis
	repoProvider   *RepoProvider
	noDefaults     bool

	inlineRules   []pendingEntry
	blockSyntaxes []pendingEntry
	passes        []pendingEntry
	directives    []Directive
	fenceHandlers []fenceHandlerEntry
}

type fenceHandlerEntry struct {
	tag     string
	handler FenceHandler
}

// Option configures a Converter.
type Option func(*converterConfig)

// WithInlineRule registers an additional inline rule.
func WithInlineRule(rule InlineRule, priority int, anchor Anchor) Option {
	return func(cfg *converterConfig) {
		cfg.inlineRules = append(cfg.inlineRules, pendingEntry{rule, priority, anchor})
	}
}

// WithBlockSyntax registers an additional block syntax.
func WithBlockSyntax(s BlockSyntax, priority int, anchor Anchor) Option {
	return func(cfg *converterConfig) {
		cfg.blockSyntaxes = append(cfg.blockSyntaxes, pendingEntry{s, priority, anchor})
	}
}

// WithPass registers an additional postprocessor pass.
func WithPass(p Pass, priority int, anchor Anchor) Option {
	return func(cfg *converterConfig) {
		cfg.passes = append(cfg.passes, pendingEntry{p, priority, anchor})
	}
}

// WithDirective registers an additional block directive.
func WithDirective(directives ...Directive) Option {
	return func(cfg *converterConfig) {
		cfg.directives = append(cfg.directives, directives...)
	}
}

// WithFenceHandler registers a custom fence handler for an info-string
// tag, e.g. a diagram renderer.
func WithFenceHandler(tag string, h FenceHandler) Option {
	return func(cfg *converterConfig) {
		cfg.fenceHandlers = append(cfg.fenceHandlers, fenceHandlerEntry{tag, h})
	}
}

// WithSnippetResolver sets the collaborator resolving --8<-- "name"
// inclusion markers.
func WithSnippetResolver(r SnippetResolver) Option {
	return func(cfg *converterConfig) {
		cfg.snippets = r
	}
}

// WithMaxInlineDepth bounds handler-requested inline re-scanning.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxInlineDepth(n int) Option {
	if n <= 0 {
		panic("mdext: WithMaxInlineDepth must be positive")
	}
	return func(cfg *converterConfig) {
		cfg.maxInlineDepth = n
	}
}

// WithHighlightStyle sets the chroma style used by the default fence
// handler.
func WithHighlightStyle(name string) Option {
	return func(cfg *converterConfig) {
		cfg.highlightStyle = name
	}
}

// WithEmojiIndex overrides the emoji lookup table. The index is
// consumed read-only.
func WithEmojiIndex(index definition.Emojis) Option {
	return func(cfg *converterConfig) {
		cfg.emojiIndex = index
	}
}

// WithRepoLinks enables repository shorthand auto-linking (user/repo#1
// and @user) against the given provider.
func WithRepoLinks(provider RepoProvider) Option {
	return func(cfg *converterConfig) {
		cfg.repoProvider = &provider
	}
}

// WithoutDefaultRules disables the builtin inline rule catalog, the
// default directives, and the default postprocessor passes. The fence
// syntax stays, since fenced code is core Markdown.
func WithoutDefaultRules() Option {
	return func(cfg *converterConfig) {
		cfg.noDefaults = true
	}
}

// Converter orchestrates the conversion pipeline:
//
//	Preprocess → Block Parse → Inline Scan → Postprocess → Serialize
//
// A Converter is immutable after NewConverter and safe for concurrent
// Convert calls. All registration happens during setup; registry
// errors surface from NewConverter, never mid-conversion.
type Converter struct {
	cfg           converterConfig
	preprocessor  *Preprocessor
	blockParser   *BlockParser
	scanner       *InlineScanner
	postprocessor *Postprocessor
}

// NewConverter builds a converter. Use options to add rules,
// directives, fence handlers and passes, or to replace the default
// catalog entirely.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := converterConfig{
		maxInlineDepth: DefaultMaxInlineDepth,
		highlightStyle: "github",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	inlineReg := NewRegistry()
	if !cfg.noDefaults {
		defaults := []pendingEntry{
			{MarkRule(), 50, Append()},
			{InsertRule(), 40, Append()},
			{DeleteRule(), 40, Append()},
			{SuperscriptRule(), 30, Append()},
			{SubscriptRule(), 30, Append()},
			{AutolinkRule(), 20, Append()},
			{EmojiRule(cfg.emojiIndex), 10, Append()},
		}
		if cfg.repoProvider != nil {
			defaults = append(defaults,
				pendingEntry{RepoIssueRule(*cfg.repoProvider), 15, Append()},
				pendingEntry{MentionRule(*cfg.repoProvider), 15, Append()},
			)
		}
		if err := registerAll(inlineReg, defaults); err != nil {
			return nil, err
		}
	}
	if err := registerAll(inlineReg, cfg.inlineRules); err != nil {
		return nil, err
	}

	fence := NewFenceSyntax(HighlightHandler(cfg.highlightStyle))
	for _, fh := range cfg.fenceHandlers {
		if err := fence.Handle(fh.tag, fh.handler); err != nil {
			return nil, err
		}
	}
	blockReg := NewRegistry()
	if err := blockReg.Register(fence.Name(), fence, 100, Append()); err != nil {
		return nil, err
	}
	directives := cfg.directives
	if !cfg.noDefaults {
		directives = append(append(DefaultAdmonitions(), &DetailsDirective{}, &TabsDirective{}, &HTMLDirective{}), directives...)
	}
	if len(directives) > 0 {
		ds, err := NewDirectiveSyntax(directives...)
		if err != nil {
			return nil, err
		}
		if err := blockReg.Register(ds.Name(), ds, 90, Append()); err != nil {
			return nil, err
		}
	}
	if err := registerAll(blockReg, cfg.blockSyntaxes); err != nil {
		return nil, err
	}

	passReg := NewRegistry()
	if !cfg.noDefaults {
		passDefaults := []pendingEntry{
			{&TOCPass{}, 100, Append()},
			{&TaskListPass{}, 50, Append()},
			{&SanitizePass{}, 10, Append()},
		}
		if err := registerAll(passReg, passDefaults); err != nil {
			return nil, err
		}
	}
	if err := registerAll(passReg, cfg.passes); err != nil {
		return nil, err
	}

	scanner, err := NewInlineScanner(inlineReg, cfg.maxInlineDepth)
	if err != nil {
		return nil, fmt.Errorf("resolving inline rules: %w", err)
	}
	blockParser, err := NewBlockParser(blockReg)
	if err != nil {
		return nil, fmt.Errorf("resolving block syntaxes: %w", err)
	}
	postprocessor, err := NewPostprocessor(passReg)
	if err != nil {
		return nil, fmt.Errorf("resolving passes: %w", err)
	}

	return &Converter{
		cfg:           cfg,
		preprocessor:  NewPreprocessor(cfg.snippets),
		blockParser:   blockParser,
		scanner:       scanner,
		postprocessor: postprocessor,
	}, nil
}

// registerAll registers pending entries in order.
func registerAll(reg *Registry, entries []pendingEntry) error {
	for _, e := range entries {
		if err := reg.Register(e.value.Name(), e.value, e.priority, e.anchor); err != nil {
			return err
		}
	}
	return nil
}

// Convert runs the full pipeline and returns the serialized markup
// plus the collected metadata. The context is checked between stages;
// no stage performs I/O. Content-level anomalies degrade to literal
// text and are recorded on the report instead of failing. Recovers
// from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{}
	content := c.preprocessor.Preprocess(input.Markdown, report)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := c.blockParser.Parse(strings.Split(content, "\n"), report)
	c.scanner.scanDocument(doc, report)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.SourceDir != "" {
		rewrite := &PathRewritePass{Base: input.SourceDir}
		if err := rewrite.Transform(doc, report); err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}
	if _, err := c.postprocessor.Postprocess(doc, report); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{HTML: []byte(Render(doc)), Report: report}, nil
}
