package core

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

const DefaultMaxDepth = 256

// Dispatcher renders node trees. It holds configuration only and is safe
// for concurrent use.
type Dispatcher struct {
	maxDepth int
	logger   *slog.Logger
}

type Option func(*Dispatcher)

func WithMaxDepth(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxDepth = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Render renders node within env. Unknown component names degrade to
// literal elements; malformed input and runaway recursion come back as a
// *RenderError.
func (d *Dispatcher) Render(node Node, env Env) (Output, error) {
	return d.render(node, env, nil)
}

func (d *Dispatcher) render(node Node, env Env, path []string) (Output, error) {
	switch n := node.(type) {
	case nil:
		return List(nil), nil
	case Text:
		return TextOutput(n), nil
	case Number:
		return TextOutput(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
	case *Fragment:
		if n == nil {
			return List(nil), nil
		}
		return d.renderList(n.Children, env, path)
	case *Element:
		if n == nil {
			return List(nil), nil
		}
		return d.invoke(n.Tag, n.Props, n.Children, n.Ref, env, path)
	case *ComponentRef:
		if n == nil {
			return List(nil), nil
		}
		return d.invoke(n.Name, n.Props, n.Children, n.Ref, env, path)
	case *Provider:
		if n == nil {
			return List(nil), nil
		}
		return d.provide(n, env, path)
	case Raw:
		props := NewProps().Set(StringKey("html"), n.HTML)
		return d.invoke("raw", props, nil, nil, env, path)
	default:
		return nil, &RenderError{Path: path, Err: fmt.Errorf("unsupported node type %T", node)}
	}
}

func (d *Dispatcher) invoke(name string, props *Props, children []Node, ref *Ref, env Env, path []string) (Output, error) {
	path = appendPath(path, name)
	if env.depth >= d.limit() {
		return nil, &RenderError{Path: path, Err: &ScopeRecursionError{Name: name, Depth: d.limit()}}
	}
	env.depth++

	c, ok := env.Scope.Lookup(name)
	if !ok {
		d.log().Debug("unresolved component rendered as element", "name", name)
		c = Builtin(name)
	}

	mode := MergeEnumerable
	if c.FullProps {
		mode = MergeFull
	}
	merged := Merge(mode, c.Defaults, env.Ambient, props)
	if ref != nil {
		merged.Set(RefKey, ref)
	}

	rendered, err := d.renderEach(children, env, path)
	if err != nil {
		return nil, err
	}

	call := &Call{
		Name:     name,
		Props:    merged,
		Children: rendered,
		Env:      env,
		path:     path,
		d:        d,
	}

	if c.Render == nil {
		return call.Element(name), nil
	}

	out, err := c.Render(call)
	if err != nil {
		return nil, wrapRenderError(path, err)
	}
	return out, nil
}

func (d *Dispatcher) provide(p *Provider, env Env, path []string) (Output, error) {
	path = appendPath(path, "provider")
	if env.depth >= d.limit() {
		return nil, &RenderError{Path: path, Err: &ScopeRecursionError{Name: "provider", Depth: d.limit()}}
	}
	env.depth++

	return WithScope(env, p.Overrides, p.Props, func(inner Env) (Output, error) {
		return d.renderList(p.Children, inner, path)
	})
}

func (d *Dispatcher) renderList(children []Node, env Env, path []string) (Output, error) {
	out, err := d.renderEach(children, env, path)
	if err != nil {
		return nil, err
	}
	return List(out), nil
}

func (d *Dispatcher) renderEach(children []Node, env Env, path []string) ([]Output, error) {
	if len(children) == 0 {
		return nil, nil
	}
	out := make([]Output, 0, len(children))
	for _, child := range children {
		o, err := d.render(child, env, path)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (d *Dispatcher) limit() int {
	if d.maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.maxDepth
}

func (d *Dispatcher) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}
	return d.logger
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = name
	return out
}

func wrapRenderError(path []string, err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Path: path, Err: err}
}
