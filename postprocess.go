package mdext

import "fmt"

// TOCEntry is one collected table-of-contents entry.
type TOCEntry struct {
	Level int
	Title string
	ID    string
}

// Degradation records a content-level anomaly that was handled by
// degrading to literal text instead of aborting the conversion.
type Degradation struct {
	Err  error
	Span string
}

// Report is the metadata side channel of a conversion: collected
// table-of-contents entries, degradations, and free-form metadata
// produced by postprocessor passes.
type Report struct {
	TOC          []TOCEntry
	Degradations []Degradation
	meta         map[string]any
}

// degrade records a handled content anomaly.
func (r *Report) degrade(err error, span string) {
	r.Degradations = append(r.Degradations, Degradation{Err: err, Span: span})
}

// SetMeta stores a free-form metadata value under key.
func (r *Report) SetMeta(key string, value any) {
	if r.meta == nil {
		r.meta = make(map[string]any)
	}
	r.meta[key] = value
}

// Meta returns the metadata value stored under key.
func (r *Report) Meta(key string) (any, bool) {
	v, ok := r.meta[key]
	return v, ok
}

// Pass is one tree-rewriting step run after parse and inline scan,
// before serialization. Passes get read/write access to the full tree
// and must be idempotent when run twice on their own output, since
// some hosts re-run postprocessing defensively.
type Pass interface {
	Name() string
	Transform(doc *Document, report *Report) error
}

// passFunc adapts a function to the Pass interface.
type passFunc struct {
	name string
	fn   func(*Document, *Report) error
}

// NewPass wraps a function as a named Pass.
func NewPass(name string, fn func(*Document, *Report) error) Pass {
	return &passFunc{name: name, fn: fn}
}

func (p *passFunc) Name() string { return p.name }

func (p *passFunc) Transform(doc *Document, report *Report) error {
	return p.fn(doc, report)
}

// Postprocessor runs a pipeline of named, priority-ordered passes over
// a document. It is immutable after construction and safe for
// concurrent use.
type Postprocessor struct {
	passes []Pass
}

// NewPostprocessor resolves the registry order and builds the
// pipeline. Every registered value must implement Pass.
func NewPostprocessor(reg *Registry) (*Postprocessor, error) {
	order, err := reg.ResolveOrder()
	if err != nil {
		return nil, err
	}
	passes := make([]Pass, 0, len(order))
	for _, e := range order {
		p, ok := e.Value.(Pass)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a postprocessor pass", ErrConfiguration, e.Name)
		}
		passes = append(passes, p)
	}
	return &Postprocessor{passes: passes}, nil
}

// Passes returns the passes in resolved order.
func (pp *Postprocessor) Passes() []Pass { return pp.passes }

// Postprocess runs every pass in order. The document is rewritten in
// place and also returned for convenience.
func (pp *Postprocessor) Postprocess(doc *Document, report *Report) (*Document, error) {
	if report == nil {
		report = &Report{}
	}
	for _, p := range pp.passes {
		if err := p.Transform(doc, report); err != nil {
			return nil, fmt.Errorf("postprocess pass %q: %w", p.Name(), err)
		}
	}
	return doc, nil
}
