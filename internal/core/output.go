package core

import "sync/atomic"

// Output is what a renderer returns. The core never inspects it; the
// markup package serializes the implementations below.
type Output interface {
	output()
}

// TextOutput is plain text, escaped on serialization.
type TextOutput string

// Markup is trusted markup, written as is.
type Markup string

// ElementOutput is a rendered element. Attrs is the merged bag the
// renderer was invoked with.
type ElementOutput struct {
	Tag      string
	Attrs    *Props
	Children []Output
}

// List is a concatenation of outputs.
type List []Output

func (TextOutput) output()     {}
func (Markup) output()         {}
func (*ElementOutput) output() {}
func (List) output()           {}

// Ref is a caller-supplied handle to the concretely rendered instance.
// The dispatcher forwards it under RefKey; renderers decide what to bind.
type Ref struct {
	current atomic.Value
}

type refBox struct {
	out Output
}

func (r *Ref) Bind(out Output) {
	r.current.Store(refBox{out: out})
}

func (r *Ref) Current() Output {
	b, _ := r.current.Load().(refBox)
	return b.out
}

// RefFrom returns the *Ref stored on props, if any.
func RefFrom(props *Props) *Ref {
	v, _ := props.Get(RefKey)
	ref, _ := v.(*Ref)
	return ref
}
