package avatar

import (
	"fmt"
	"slices"
	"sync"

	"calmavatar/internal/pkg/errs"
	"calmavatar/internal/pkg/logx"
)

// Registry holds the mutators for one avatar kind. Registration is expected
// to happen during bootstrap, but the registry is safe for concurrent use.
//
// The execution order is resolved when a mutator registers and stored, so
// Apply never sorts.
type Registry[S any] struct {
	kind string

	mu      sync.RWMutex
	entries []Mutator[S] // registration order
	order   []Mutator[S] // execution order, replaced wholesale on Register
}

// NewRegistry creates an empty registry. kind only labels log lines.
func NewRegistry[S any](kind string) *Registry[S] {
	return &Registry[S]{kind: kind}
}

// Register adds m. Registering a name that is already present is a no-op.
// A registration whose dependency would close a cycle is rejected and the
// registry is left unchanged.
func (r *Registry[S]) Register(m Mutator[S]) error {
	if m == nil || m.Name() == "" {
		return errs.NewError(errs.ErrMutatorInvalid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.entries {
		if existing.Name() == m.Name() {
			logx.Debug("mutator already registered", "kind", r.kind, "mutator", m.Name())
			return nil
		}
	}

	candidate := append(slices.Clone(r.entries), m)
	order, ok := resolveOrder(candidate)
	if !ok {
		return errs.NewError(errs.ErrMutatorCycle, m.Name())
	}

	r.entries = candidate
	r.order = order
	return nil
}

// MustRegister registers m and panics on failure. Useful during bootstrap
// where a failed registration is a programming error.
func (r *Registry[S]) MustRegister(m Mutator[S]) {
	if err := r.Register(m); err != nil {
		panic(fmt.Sprintf("register %s mutator: %v", r.kind, err))
	}
}

// Names returns the mutator names in execution order.
func (r *Registry[S]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	for i, m := range r.order {
		names[i] = m.Name()
	}
	return names
}

// Len returns the number of registered mutators.
func (r *Registry[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Apply runs html through every mutator in execution order, each one
// receiving the previous one's output. A mutator that fails or panics is
// logged and skipped; the pipeline continues with the last good HTML.
// A nil registry returns html unchanged.
func (r *Registry[S]) Apply(html string, subject S, width, height int) string {
	if r == nil {
		return html
	}

	r.mu.RLock()
	order := r.order
	r.mu.RUnlock()

	for _, m := range order {
		out, err := invoke(m, html, subject, width, height)
		if err != nil {
			logx.Error(err, "avatar mutator failed, output discarded",
				"kind", r.kind,
				"mutator", m.Name(),
			)
			continue
		}
		html = out
	}
	return html
}

func invoke[S any](m Mutator[S], html string, subject S, width, height int) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errs.NewError(errs.ErrMutatorFailed, m.Name()).WithCause(fmt.Errorf("panic: %v", rec))
		}
	}()

	out, err = m.Mutate(html, subject, width, height)
	if err != nil {
		return "", errs.NewError(errs.ErrMutatorFailed, m.Name()).WithCause(err)
	}
	return out, nil
}

// resolveOrder sorts mutators topologically by their dependencies. Among
// mutators that are free to run, the earliest registered goes first.
// It reports false when the dependencies contain a cycle.
func resolveOrder[S any](entries []Mutator[S]) ([]Mutator[S], bool) {
	index := make(map[string]int, len(entries))
	for i, m := range entries {
		index[m.Name()] = i
	}

	successors := make([][]int, len(entries))
	indegree := make([]int, len(entries))
	addEdge := func(from, to int) {
		successors[from] = append(successors[from], to)
		indegree[to]++
	}

	for i, m := range entries {
		dep := m.Dependency()
		j, ok := index[dep.Target]
		if !ok || j == i {
			continue
		}
		switch dep.Priority {
		case Before:
			addEdge(i, j)
		case After:
			addEdge(j, i)
		}
	}

	placed := make([]bool, len(entries))
	order := make([]Mutator[S], 0, len(entries))
	for len(order) < len(entries) {
		next := -1
		for i := range entries {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		placed[next] = true
		order = append(order, entries[next])
		for _, s := range successors[next] {
			indegree[s]--
		}
	}
	return order, true
}
