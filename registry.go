package mdext

import (
	"fmt"
	"sort"
)

// anchorKind enumerates the supported registration anchors.
type anchorKind int

const (
	anchorAppend anchorKind = iota
	anchorPrepend
	anchorBefore
	anchorAfter
)

// Anchor positions a rule relative to the registry contents at
// registration time, or relative to another named rule.
type Anchor struct {
	kind   anchorKind
	target string
}

// Append is the default anchor: the rule takes whatever position its
// priority earns, with no relative constraint.
func Append() Anchor { return Anchor{kind: anchorAppend} }

// Prepend anchors a rule ahead of every rule registered so far,
// regardless of priority.
func Prepend() Anchor { return Anchor{kind: anchorPrepend} }

// Before anchors a rule ahead of the named rule in the resolved
// order. Only the relative order is guaranteed; unrelated rules may
// still sort between the two.
func Before(name string) Anchor { return Anchor{kind: anchorBefore, target: name} }

// After anchors a rule behind the named rule in the resolved order.
// Only the relative order is guaranteed; unrelated rules may still
// sort between the two.
func After(name string) Anchor { return Anchor{kind: anchorAfter, target: name} }

// Entry is one registered rule with its ordering metadata.
type Entry struct {
	Name     string
	Value    any
	Priority int

	anchor Anchor
	seq    int
}

// Registry is a named, priority-ordered rule collection with
// relative-position anchors. It is not safe for concurrent use:
// callers must finish all registration during setup, before the
// registry is shared with any conversion pipeline. Mutating a registry
// once conversions have started is disallowed.
type Registry struct {
	entries []*Entry
	byName  map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Entry)}
}

// Register adds a named rule. Higher priority orders earlier; ties are
// broken by insertion order. The anchor constrains the final position
// relative to other rules. Returns ErrDuplicateName if the name is
// taken and ErrUnknownAnchor if a Before/After target is absent.
func (r *Registry) Register(name string, value any, priority int, anchor Anchor) error {
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if anchor.kind == anchorBefore || anchor.kind == anchorAfter {
		if _, ok := r.byName[anchor.target]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAnchor, anchor.target)
		}
	}
	e := &Entry{
		Name:     name,
		Value:    value,
		Priority: priority,
		anchor:   anchor,
		seq:      len(r.entries),
	}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	return nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.entries) }

// Get returns the named entry.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// ResolveOrder returns all rules as a single stable, strictly ordered
// sequence consistent with every anchor constraint. Among rules whose
// constraints are satisfied, higher priority comes first, ties broken
// by insertion order. Returns ErrCyclicConstraint if the anchors form
// a cycle.
func (r *Registry) ResolveOrder() ([]Entry, error) {
	n := len(r.entries)
	index := make(map[*Entry]int, n)
	for i, e := range r.entries {
		index[e] = i
	}

	// Build precedence edges from the anchors. Prepend constrains
	// against everything registered earlier; Before/After constrain
	// against the named target; Append adds no edges.
	succ := make([][]int, n)
	indeg := make([]int, n)
	addEdge := func(from, to int) {
		succ[from] = append(succ[from], to)
		indeg[to]++
	}
	for i, e := range r.entries {
		switch e.anchor.kind {
		case anchorPrepend:
			for j := 0; j < e.seq; j++ {
				addEdge(i, index[r.entries[j]])
			}
		case anchorBefore:
			addEdge(i, index[r.byName[e.anchor.target]])
		case anchorAfter:
			addEdge(index[r.byName[e.anchor.target]], i)
		}
	}

	// Kahn's algorithm; the ready set is drained highest priority
	// first, insertion order on ties, which keeps the result total and
	// deterministic.
	ready := make([]int, 0, n)
	for i := range r.entries {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	order := make([]Entry, 0, n)
	for len(ready) > 0 {
		sort.Slice(ready, func(a, b int) bool {
			ea, eb := r.entries[ready[a]], r.entries[ready[b]]
			if ea.Priority != eb.Priority {
				return ea.Priority > eb.Priority
			}
			return ea.seq < eb.seq
		})
		next := ready[0]
		ready = ready[1:]
		order = append(order, *r.entries[next])
		for _, to := range succ[next] {
			indeg[to]--
			if indeg[to] == 0 {
				ready = append(ready, to)
			}
		}
	}
	if len(order) != n {
		remaining := make([]string, 0, n-len(order))
		for i, e := range r.entries {
			if indeg[i] > 0 {
				remaining = append(remaining, e.Name)
			}
		}
		return nil, fmt.Errorf("%w: involving %v", ErrCyclicConstraint, remaining)
	}
	return order, nil
}
