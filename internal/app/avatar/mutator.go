package avatar

// Priority places a mutator relative to another one.
type Priority int

const (
	// NoDependency leaves the mutator in registration order.
	NoDependency Priority = iota
	// Before runs the mutator ahead of its target.
	Before
	// After runs the mutator behind its target.
	After
)

func (p Priority) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "none"
	}
}

// Dependency is a mutator's ordering constraint. Target names another mutator
// in the same registry; a target that is not registered is ignored until it is.
type Dependency struct {
	Priority Priority
	Target   string
}

// Mutator post-processes the HTML generated for an avatar. S is the
// variant-specific subject: TextSubject or ImageSubject.
type Mutator[S any] interface {
	// Name identifies the mutator inside its registry.
	Name() string
	Dependency() Dependency
	// Mutate returns the replacement HTML. width and height are the exact
	// values the avatar was rendered with.
	Mutate(html string, subject S, width, height int) (string, error)
}

// MutatorFunc adapts a function to the Mutate signature.
type MutatorFunc[S any] func(html string, subject S, width, height int) (string, error)

type funcMutator[S any] struct {
	name string
	dep  Dependency
	fn   MutatorFunc[S]
}

// NewMutator builds a Mutator from a name, a dependency and a function.
func NewMutator[S any](name string, dep Dependency, fn MutatorFunc[S]) Mutator[S] {
	return &funcMutator[S]{name: name, dep: dep, fn: fn}
}

func (m *funcMutator[S]) Name() string           { return m.name }
func (m *funcMutator[S]) Dependency() Dependency { return m.dep }

func (m *funcMutator[S]) Mutate(html string, subject S, width, height int) (string, error) {
	return m.fn(html, subject, width, height)
}
