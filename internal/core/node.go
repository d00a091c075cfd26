package core

// Node is a render node. The set of implementations is closed: Text,
// Number, Element, ComponentRef, Fragment, Provider and Raw.
type Node interface {
	node()
}

// Text is rendered verbatim.
type Text string

// Number is rendered verbatim in its shortest decimal form.
type Number float64

// Element is a built-in markup element. Its tag still goes through scope
// resolution, so a site may override built-ins like "table".
type Element struct {
	Tag      string
	Props    *Props
	Children []Node
	Ref      *Ref
}

// ComponentRef names a custom component.
type ComponentRef struct {
	Name     string
	Props    *Props
	Children []Node
	Ref      *Ref
}

// Fragment is a list of siblings with no wrapping renderer.
type Fragment struct {
	Children []Node
}

// Provider renders its children within a scope extended by Overrides,
// with Props added to the ambient properties.
type Provider struct {
	Overrides Overrides
	Props     *Props
	Children  []Node
}

// Raw is markup produced by the content pipeline. It renders through the
// "raw" component so a site can sanitize it.
type Raw struct {
	HTML string
}

func (Text) node()          {}
func (Number) node()        {}
func (*Element) node()      {}
func (*ComponentRef) node() {}
func (*Fragment) node()     {}
func (*Provider) node()     {}
func (Raw) node()           {}

func El(tag string, props *Props, children ...Node) *Element {
	return &Element{Tag: tag, Props: props, Children: children}
}

func Comp(name string, props *Props, children ...Node) *ComponentRef {
	return &ComponentRef{Name: name, Props: props, Children: children}
}

func Frag(children ...Node) *Fragment {
	return &Fragment{Children: children}
}

func Provide(overrides Overrides, props *Props, children ...Node) *Provider {
	return &Provider{Overrides: overrides, Props: props, Children: children}
}
