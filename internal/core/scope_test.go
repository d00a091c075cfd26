package core

import (
	"reflect"
	"testing"
)

func TestScopeExtendOverridesOnlyNamedEntries(t *testing.T) {
	base := DefaultScope()
	custom := Passthrough("inlineCode", "kbd")
	note := Passthrough("Note", "aside")

	ext := base.Extend(Overrides{"inlineCode": Use(custom), "Note": Use(note)})

	if ext.Resolve("inlineCode") != custom {
		t.Error("Expected inlineCode override")
	}
	if ext.Resolve("Note") != note {
		t.Error("Expected Note override")
	}
	if ext.Resolve("fragment") != base.Resolve("fragment") {
		t.Error("Expected fragment to resolve through the parent")
	}
}

func TestScopeExtendDoesNotMutateReceiver(t *testing.T) {
	base := DefaultScope()
	before := base.Resolve("inlineCode")

	_ = base.Extend(Overrides{"inlineCode": Use(Passthrough("inlineCode", "kbd"))})

	if base.Resolve("inlineCode") != before {
		t.Error("Extend changed the receiver")
	}
	if _, ok := base.Lookup("Note"); ok {
		t.Error("Expected Note to be unknown in the receiver")
	}
}

func TestScopeResolveFallsBackToBuiltin(t *testing.T) {
	s := DefaultScope()

	if _, ok := s.Lookup("Foo"); ok {
		t.Fatal("Expected Lookup to miss Foo")
	}

	c := s.Resolve("Foo")
	if c == nil || c.Name != "Foo" {
		t.Fatalf("Expected builtin Foo, got %+v", c)
	}

	out, err := c.Render(&Call{Name: "Foo", Props: NewProps()})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	el, ok := out.(*ElementOutput)
	if !ok || el.Tag != "Foo" {
		t.Errorf("Expected <Foo> element, got %#v", out)
	}
}

func TestNilScopeResolves(t *testing.T) {
	var s *Scope
	if got := s.Resolve("p").Name; got != "p" {
		t.Errorf("Expected builtin p, got %s", got)
	}
	if len(s.Names()) != 0 {
		t.Errorf("Expected no names, got %v", s.Names())
	}

	ext := s.Extend(Overrides{"p": Use(Passthrough("p", "div"))})
	if ext.Resolve("p").Name != "p" {
		t.Error("Expected p override")
	}
	if ext.Parent() != nil {
		t.Error("Expected nil parent")
	}
}

func TestScopeClosestWins(t *testing.T) {
	outer := Passthrough("table", "table")
	inner := Passthrough("table", "div")

	s := DefaultScope().
		Extend(Overrides{"table": Use(outer)}).
		Extend(Overrides{"table": Use(inner)})

	if s.Resolve("table") != inner {
		t.Error("Expected innermost table")
	}
	if s.Parent().Resolve("table") != outer {
		t.Error("Expected parent to keep the outer table")
	}
}

func TestScopeWrapReceivesPreviousResolution(t *testing.T) {
	original := Passthrough("table", "table")
	s := DefaultScope().Extend(Overrides{"table": Use(original)})

	var got *Component
	ext := s.Extend(Overrides{"table": Wrap(func(prev *Component) *Component {
		got = prev
		return &Component{Name: "table", Render: prev.Render}
	})})

	if got != original {
		t.Error("Expected wrap to receive the previous table")
	}
	if ext.Resolve("table") == original {
		t.Error("Expected the wrapped table to replace the original")
	}
}

func TestScopeWrapOfUnregisteredNameGetsBuiltin(t *testing.T) {
	var got *Component
	_ = DefaultScope().Extend(Overrides{"table": Wrap(func(prev *Component) *Component {
		got = prev
		return prev
	})})

	if got == nil || got.Name != "table" {
		t.Errorf("Expected builtin table, got %+v", got)
	}
}

func TestScopeNilOverrideKeepsParentResolution(t *testing.T) {
	base := DefaultScope()
	ext := base.Extend(Overrides{
		"inlineCode": Use(nil),
		"fragment":   Wrap(func(*Component) *Component { return nil }),
	})

	if ext.Resolve("inlineCode") != base.Resolve("inlineCode") {
		t.Error("Expected nil Use to keep the parent inlineCode")
	}
	if ext.Resolve("fragment") != base.Resolve("fragment") {
		t.Error("Expected nil Wrap to keep the parent fragment")
	}
	if len(ext.Own()) != 0 {
		t.Errorf("Expected no own entries, got %v", ext.Own())
	}
}

func TestScopeNamesAndFlatten(t *testing.T) {
	s := DefaultScope().Extend(OverridesOf(Table{"Note": Passthrough("Note", "aside")}))

	want := []string{"Note", "fragment", "inlineCode", "raw", "wrapper"}
	if !reflect.DeepEqual(s.Names(), want) {
		t.Errorf("Expected %v, got %v", want, s.Names())
	}
	if len(s.Flatten()) != 5 {
		t.Errorf("Expected 5 flattened entries, got %d", len(s.Flatten()))
	}
	if len(s.Own()) != 1 {
		t.Errorf("Expected 1 own entry, got %d", len(s.Own()))
	}
}

func TestDefaultScopeIsFreshPerCall(t *testing.T) {
	a := DefaultScope()
	b := DefaultScope()
	if a == b {
		t.Error("Expected a new scope per call")
	}
	if a.Resolve("inlineCode") != b.Resolve("inlineCode") {
		t.Error("Expected shared default components")
	}
}

func TestEnvExtendCarriesHiddenTable(t *testing.T) {
	note := Passthrough("Note", "aside")
	env := NewEnv()

	inner := env.Extend(Overrides{"Note": Use(note)}, PropsOf(map[string]any{"theme": "dark"}))

	if inner.Scope.Resolve("Note") != note {
		t.Error("Expected Note in the inner scope")
	}
	if inner.Ambient.String("theme") != "dark" {
		t.Errorf("Expected theme 'dark', got '%s'", inner.Ambient.String("theme"))
	}
	if !inner.Ambient.IsHidden(ComponentsKey) {
		t.Error("Expected the components table to be hidden")
	}
	if inner.Ambient.Components()["Note"] != note {
		t.Error("Expected Note in the ambient table")
	}

	if env.Ambient != nil {
		t.Error("Expected outer env to stay without ambient props")
	}
	if _, ok := env.Scope.Lookup("Note"); ok {
		t.Error("Expected outer scope to stay without Note")
	}
}
