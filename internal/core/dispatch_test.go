package core

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func render(t *testing.T, node Node, env Env) Output {
	t.Helper()
	out, err := NewDispatcher().Render(node, env)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

func TestRenderPrimitives(t *testing.T) {
	var counted int
	env := NewEnv()
	env.Scope = env.Scope.Extend(Overrides{"": Use(&Component{Render: func(*Call) (Output, error) {
		counted++
		return nil, nil
	}})})

	cases := []struct {
		node Node
		want Output
	}{
		{Text("A"), TextOutput("A")},
		{Number(1), TextOutput("1")},
		{Number(0.25), TextOutput("0.25")},
		{nil, List(nil)},
	}
	for _, tc := range cases {
		if got := render(t, tc.node, env); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Render(%#v) = %#v, expected %#v", tc.node, got, tc.want)
		}
	}
	if counted != 0 {
		t.Errorf("Expected no component calls for primitives, got %d", counted)
	}
}

func TestRenderFragmentConcatenatesInOrder(t *testing.T) {
	var fragmentCalls int
	env := NewEnv()
	env.Scope = env.Scope.Extend(Overrides{"fragment": Use(&Component{Name: "fragment", Render: func(*Call) (Output, error) {
		fragmentCalls++
		return List(nil), nil
	}})})

	out := render(t, Frag(Text("x"), Text("y"), Text("z")), env)

	want := List{TextOutput("x"), TextOutput("y"), TextOutput("z")}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Expected %#v, got %#v", want, out)
	}
	if fragmentCalls != 0 {
		t.Errorf("Expected fragments to bypass the scope, got %d calls", fragmentCalls)
	}
}

func TestRenderUnregisteredComponentMatchesBuiltinElement(t *testing.T) {
	props := PropsOf(map[string]any{"class": "x"})

	for _, name := range []string{"Foo", "Tabs.Item", "my_comp"} {
		asComponent := render(t, Comp(name, props, Text("hi")), NewEnv())
		asElement := render(t, El(name, props, Text("hi")), NewEnv())

		if !reflect.DeepEqual(asComponent, asElement) {
			t.Errorf("%s: component output %#v differs from element output %#v", name, asComponent, asElement)
		}
		el, ok := asComponent.(*ElementOutput)
		if !ok {
			t.Fatalf("%s: expected element output, got %#v", name, asComponent)
		}
		if el.Tag != name {
			t.Errorf("Expected tag %s, got %s", name, el.Tag)
		}
		if el.Attrs.String("class") != "x" {
			t.Errorf("Expected class 'x', got '%s'", el.Attrs.String("class"))
		}
		if !reflect.DeepEqual(el.Children, []Output{TextOutput("hi")}) {
			t.Errorf("Expected children [hi], got %#v", el.Children)
		}
	}
}

func TestRenderTableScenario(t *testing.T) {
	row := func() Node {
		return El("row", nil, Text("A"), Text("1"))
	}
	page := Frag(Comp("table", nil, row(), row()))

	out := render(t, page, NewEnv())

	rowOut := &ElementOutput{Tag: "row", Attrs: NewProps(), Children: []Output{TextOutput("A"), TextOutput("1")}}
	want := List{&ElementOutput{Tag: "table", Attrs: NewProps(), Children: []Output{rowOut, rowOut}}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Expected %#v, got %#v", want, out)
	}
}

func TestRenderPropertyPrecedence(t *testing.T) {
	var got *Props
	c := &Component{
		Name:     "Card",
		Defaults: PropsOf(map[string]any{"a": "default", "b": "default", "c": "default"}),
		Render: func(call *Call) (Output, error) {
			got = call.Props
			return List(nil), nil
		},
	}

	node := Provide(Overrides{"Card": Use(c)}, PropsOf(map[string]any{"b": "ambient", "c": "ambient"}),
		Comp("Card", PropsOf(map[string]any{"c": "node"})),
	)
	render(t, node, NewEnv())

	if got == nil {
		t.Fatal("Card was not rendered")
	}
	for key, want := range map[string]string{"a": "default", "b": "ambient", "c": "node"} {
		if got.String(key) != want {
			t.Errorf("Expected %s=%s, got %s", key, want, got.String(key))
		}
	}
	if got.Has(ComponentsKey) {
		t.Error("Expected components table to be hidden from enumerable props")
	}
}

func TestRenderFullPropsSeesComponentTable(t *testing.T) {
	var got Table
	note := Passthrough("Note", "aside")
	layout := &Component{
		Name:      "Layout",
		FullProps: true,
		Render: func(call *Call) (Output, error) {
			got = call.Props.Components()
			return List(call.Children), nil
		},
	}

	node := Provide(Overrides{"Note": Use(note)}, nil,
		Provide(Overrides{"Layout": Use(layout)}, nil, Comp("Layout", nil)),
	)
	render(t, node, NewEnv())

	if got == nil {
		t.Fatal("Expected Layout to see the components table")
	}
	if got["Note"] != note || got["Layout"] != layout {
		t.Errorf("Expected both provider tables, got %v", got)
	}
}

func TestRenderForwardsRefWithFinalPrecedence(t *testing.T) {
	ref := &Ref{}
	other := &Ref{}
	node := &ComponentRef{
		Name:  "figure",
		Props: NewProps().Set(RefKey, other),
		Ref:   ref,
	}

	el := render(t, node, NewEnv()).(*ElementOutput)

	if RefFrom(el.Attrs) != ref {
		t.Error("Expected the caller's ref to win")
	}
	if ref.Current() != el {
		t.Error("Expected the ref to be bound to the element")
	}
	if other.Current() != nil {
		t.Error("Expected the overridden ref to stay unbound")
	}
}

func TestRenderChildrenShareParentScope(t *testing.T) {
	var seen []string
	spy := func(name string) *Component {
		return &Component{Name: name, Render: func(call *Call) (Output, error) {
			seen = append(seen, name)
			return List(call.Children), nil
		}}
	}

	node := Provide(Overrides{"td": Use(spy("td"))}, nil,
		El("tr", nil, El("td", nil, Text("1"))),
	)
	render(t, node, NewEnv())

	if !reflect.DeepEqual(seen, []string{"td"}) {
		t.Errorf("Expected td override to render once, got %v", seen)
	}
}

func TestProviderScopeEndsWithSubtree(t *testing.T) {
	kbd := Passthrough("inlineCode", "kbd")
	page := Frag(
		Provide(Overrides{"inlineCode": Use(kbd)}, nil, Comp("inlineCode", nil, Text("a"))),
		Comp("inlineCode", nil, Text("b")),
	)

	out := render(t, page, NewEnv()).(List)
	if len(out) != 2 {
		t.Fatalf("Expected 2 outputs, got %d", len(out))
	}

	inner := out[0].(List)[0].(*ElementOutput)
	after := out[1].(*ElementOutput)
	if inner.Tag != "kbd" {
		t.Errorf("Expected kbd inside the provider, got %s", inner.Tag)
	}
	if after.Tag != "code" {
		t.Errorf("Expected code after the provider, got %s", after.Tag)
	}
}

func TestWithScopeRestoresOnError(t *testing.T) {
	env := NewEnv()
	boom := errors.New("boom")

	_, err := WithScope(env, Overrides{"inlineCode": Use(Passthrough("inlineCode", "kbd"))}, nil,
		func(inner Env) (Output, error) {
			if inner.Scope.Resolve("inlineCode").Name != "inlineCode" {
				t.Error("Expected inlineCode override inside the scope")
			}
			return nil, boom
		})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	out := render(t, Comp("inlineCode", nil), env)
	if tag := out.(*ElementOutput).Tag; tag != "code" {
		t.Errorf("Expected previous scope after error, got tag %s", tag)
	}
}

func TestWrapOverrideInvokesOriginalOnce(t *testing.T) {
	var originalCalls, wrapperCalls int
	original := &Component{Name: "table", Render: func(call *Call) (Output, error) {
		originalCalls++
		return call.Element("table"), nil
	}}

	wrapTable := Wrap(func(prev *Component) *Component {
		return &Component{Name: "table", Render: func(call *Call) (Output, error) {
			wrapperCalls++
			out, err := prev.Render(call)
			if err != nil {
				return nil, err
			}
			return &ElementOutput{Tag: "div", Attrs: PropsOf(map[string]any{"class": "table-wrap"}), Children: []Output{out}}, nil
		}}
	})

	page := Provide(Overrides{"table": Use(original)}, nil,
		Provide(Overrides{"table": wrapTable}, nil, Comp("table", nil, El("tr", nil))),
	)

	out := render(t, page, NewEnv())

	if originalCalls != 1 || wrapperCalls != 1 {
		t.Errorf("Expected one call each, got original=%d wrapper=%d", originalCalls, wrapperCalls)
	}
	wrapper := out.(List)[0].(List)[0].(*ElementOutput)
	if wrapper.Tag != "div" {
		t.Errorf("Expected div wrapper, got %s", wrapper.Tag)
	}
	if tag := wrapper.Children[0].(*ElementOutput).Tag; tag != "table" {
		t.Errorf("Expected wrapped table, got %s", tag)
	}
}

func TestSelfReferentialOverrideHitsDepthGuard(t *testing.T) {
	loop := &Component{Name: "table", Render: func(call *Call) (Output, error) {
		return call.Render(Comp("table", nil))
	}}

	page := Provide(Overrides{"table": Use(loop)}, nil, Comp("table", nil))

	_, err := NewDispatcher(WithMaxDepth(32)).Render(page, NewEnv())
	if err == nil {
		t.Fatal("Expected recursion error")
	}

	var recursion *ScopeRecursionError
	if !errors.As(err, &recursion) {
		t.Fatalf("Expected ScopeRecursionError, got %v", err)
	}
	if recursion.Name != "table" || recursion.Depth != 32 {
		t.Errorf("Expected table at depth 32, got %s at %d", recursion.Name, recursion.Depth)
	}

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected RenderError, got %v", err)
	}
	if !strings.Contains(renderErr.Error(), "... > table > table") {
		t.Errorf("Expected truncated path, got %q", renderErr.Error())
	}
}

func TestRendererErrorCarriesPath(t *testing.T) {
	boom := errors.New("boom")
	bad := &Component{Name: "Chart", Render: func(*Call) (Output, error) { return nil, boom }}

	page := Provide(Overrides{"Chart": Use(bad)}, nil, El("section", nil, Comp("Chart", nil)))

	_, err := NewDispatcher().Render(page, NewEnv())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("Expected RenderError, got %v", err)
	}
	want := []string{"provider", "section", "Chart"}
	if !reflect.DeepEqual(renderErr.Path, want) {
		t.Errorf("Expected path %v, got %v", want, renderErr.Path)
	}
}

func TestRenderRawUsesRawComponent(t *testing.T) {
	if out := render(t, Raw{HTML: "<b>x</b>"}, NewEnv()); out != Markup("<b>x</b>") {
		t.Errorf("Expected verbatim markup, got %#v", out)
	}

	env := NewEnv()
	env.Scope = env.Scope.Extend(Overrides{"raw": Use(&Component{Name: "raw", Render: func(call *Call) (Output, error) {
		return TextOutput(call.Props.String("html")), nil
	}})})
	if out := render(t, Raw{HTML: "<b>x</b>"}, env); out != TextOutput("<b>x</b>") {
		t.Errorf("Expected raw override output, got %#v", out)
	}
}

func TestRenderNodesAreNotMutated(t *testing.T) {
	props := PropsOf(map[string]any{"id": "t"})
	node := Comp("table", props, El("tr", nil))

	node.Ref = &Ref{}
	render(t, node, NewEnv())

	if props.Len() != 1 || props.Has(RefKey) {
		t.Errorf("Expected node props untouched, got keys %v", props.Keys())
	}
}

func TestConcurrentRendersDoNotShareScope(t *testing.T) {
	d := NewDispatcher()
	var wg sync.WaitGroup
	results := make([]string, 16)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag := "code"
			if i%2 == 0 {
				tag = "kbd"
			}
			page := Provide(Overrides{"inlineCode": Use(Passthrough("inlineCode", tag))}, nil,
				Comp("inlineCode", nil, Text("x")),
			)
			out, err := d.Render(page, NewEnv())
			if err != nil {
				return
			}
			results[i] = out.(List)[0].(*ElementOutput).Tag
		}(i)
	}
	wg.Wait()

	for i, tag := range results {
		want := "code"
		if i%2 == 0 {
			want = "kbd"
		}
		if tag != want {
			t.Errorf("render %d: expected %s, got %s", i, want, tag)
		}
	}
}
