package core

// Env is the render environment passed by value into every render: the
// active scope, the ambient props contributed by enclosing providers and
// the current nesting depth. Deriving a new Env never changes the old one.
type Env struct {
	Scope   *Scope
	Ambient *Props

	depth int
}

// NewEnv returns a fresh environment over DefaultScope. Every independent
// render of a page must start from its own NewEnv.
func NewEnv() Env {
	return Env{Scope: DefaultScope()}
}

func (e Env) Depth() int {
	return e.depth
}

// Extend derives the environment a provider establishes for its subtree.
// The new scope's own table is added to the ambient props, hidden, under
// ComponentsKey.
func (e Env) Extend(overrides Overrides, ambient *Props) Env {
	scope := e.Scope.Extend(overrides)
	tableBag := NewProps().SetHidden(ComponentsKey, scope.table)
	return Env{
		Scope:   scope,
		Ambient: Merge(MergeFull, e.Ambient, tableBag, ambient),
		depth:   e.depth,
	}
}

// WithScope runs fn within env extended by overrides and ambient. The
// caller's env is a value and is never modified, so the previous scope is
// back in effect however fn exits.
func WithScope(env Env, overrides Overrides, ambient *Props, fn func(Env) (Output, error)) (Output, error) {
	return fn(env.Extend(overrides, ambient))
}
