package core

import "sort"

// Table maps component names to renderers.
type Table map[string]*Component

// Override is one entry of an Overrides mapping: either a component to use
// as is, or a function of the component the name resolved to before the
// override.
type Override struct {
	use  *Component
	wrap func(prev *Component) *Component
}

func Use(c *Component) Override {
	return Override{use: c}
}

// Wrap builds the override from the previous resolution of the same name.
// fn runs once, when the scope is extended, and receives the resolution from
// the scope being extended, never from the new one.
func Wrap(fn func(prev *Component) *Component) Override {
	return Override{wrap: fn}
}

type Overrides map[string]Override

// OverridesOf turns a plain table into Use overrides.
func OverridesOf(t Table) Overrides {
	o := make(Overrides, len(t))
	for name, c := range t {
		o[name] = Use(c)
	}
	return o
}

// Scope is an immutable, nestable component table. A nil *Scope is an empty
// root: everything resolves to Builtin.
type Scope struct {
	parent *Scope
	table  Table
}

func NewScope(table Table) *Scope {
	own := make(Table, len(table))
	for name, c := range table {
		if c != nil {
			own[name] = c
		}
	}
	return &Scope{table: own}
}

// DefaultScope returns a fresh root scope over DefaultTable.
func DefaultScope() *Scope {
	return NewScope(DefaultTable())
}

// Extend returns a child scope whose own table is built from o. The
// receiver is left untouched. Entries resolving to nil are dropped, so the
// name keeps resolving through the receiver.
func (s *Scope) Extend(o Overrides) *Scope {
	own := make(Table, len(o))
	for name, ov := range o {
		var c *Component
		switch {
		case ov.wrap != nil:
			c = ov.wrap(s.Resolve(name))
		default:
			c = ov.use
		}
		if c != nil {
			own[name] = c
		}
	}
	return &Scope{parent: s, table: own}
}

func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Lookup walks from s outward and reports whether any scope defines name.
func (s *Scope) Lookup(name string) (*Component, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c, ok := sc.table[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Resolve never fails: unknown names resolve to Builtin(name).
func (s *Scope) Resolve(name string) *Component {
	if c, ok := s.Lookup(name); ok {
		return c
	}
	return Builtin(name)
}

// Own returns a copy of the table defined by s itself.
func (s *Scope) Own() Table {
	if s == nil {
		return Table{}
	}
	t := make(Table, len(s.table))
	for name, c := range s.table {
		t[name] = c
	}
	return t
}

// Flatten returns every visible name with its closest definition.
func (s *Scope) Flatten() Table {
	if s == nil {
		return Table{}
	}
	t := s.parent.Flatten()
	for name, c := range s.table {
		t[name] = c
	}
	return t
}

func (s *Scope) Names() []string {
	t := s.Flatten()
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
