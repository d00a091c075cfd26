package core

// RenderFunc produces the output for one invocation of a component.
type RenderFunc func(call *Call) (Output, error)

// Component is a renderer identity. Identity is the pointer: two scopes may
// register different components under the same name.
type Component struct {
	Name string
	// Defaults are the lowest-precedence props of every invocation.
	Defaults *Props
	// FullProps makes the dispatcher merge in MergeFull mode, so the
	// component also sees hidden ambient props such as ComponentsKey.
	FullProps bool
	Render    RenderFunc
}

// Call is one invocation of a component: merged props, already rendered
// children and the environment the node was rendered in.
type Call struct {
	Name     string
	Props    *Props
	Children []Output
	Env      Env

	path []string
	d    *Dispatcher
}

// Render renders another node from inside a component, within the call's
// environment. Depth is tracked across these nested renders.
func (c *Call) Render(node Node) (Output, error) {
	d := c.d
	if d == nil {
		d = NewDispatcher()
	}
	return d.render(node, c.Env, c.path)
}

// Element returns the call rendered as a built-in element with the given
// tag, binding the caller's ref to it.
func (c *Call) Element(tag string) Output {
	out := &ElementOutput{Tag: tag, Attrs: c.Props, Children: c.Children}
	if ref := RefFrom(c.Props); ref != nil {
		ref.Bind(out)
	}
	return out
}

// Builtin is the fallback for names no scope defines: a literal element
// whose tag is the name itself.
func Builtin(tag string) *Component {
	return Passthrough(tag, tag)
}

// Passthrough registers name as a plain element with the given tag.
func Passthrough(name, tag string) *Component {
	return &Component{
		Name: name,
		Render: func(c *Call) (Output, error) {
			return c.Element(tag), nil
		},
	}
}

var (
	fragmentComponent = &Component{
		Name: "fragment",
		Render: func(c *Call) (Output, error) {
			return List(c.Children), nil
		},
	}

	wrapperComponent = &Component{
		Name: "wrapper",
		Render: func(c *Call) (Output, error) {
			return List(c.Children), nil
		},
	}

	rawComponent = &Component{
		Name: "raw",
		Render: func(c *Call) (Output, error) {
			return Markup(c.Props.String("html")), nil
		},
	}

	inlineCodeComponent = Passthrough("inlineCode", "code")
)

// DefaultTable is the ambient table every render starts from.
func DefaultTable() Table {
	return Table{
		"inlineCode": inlineCodeComponent,
		"fragment":   fragmentComponent,
		"wrapper":    wrapperComponent,
		"raw":        rawComponent,
	}
}
