package core

import (
	"fmt"
	"reflect"
	"sort"
)

// Symbol is an identity-keyed property name. Two symbols with the same
// description are different keys, and a symbol never collides with a string
// key of the same text.
type Symbol struct {
	desc string
}

func NewSymbol(desc string) *Symbol {
	return &Symbol{desc: desc}
}

func (s *Symbol) String() string {
	return "Symbol(" + s.desc + ")"
}

// Key addresses a property: either a string name or a *Symbol.
type Key struct {
	name string
	sym  *Symbol
}

func StringKey(name string) Key {
	return Key{name: name}
}

func SymbolKey(sym *Symbol) Key {
	return Key{sym: sym}
}

func (k Key) IsSymbol() bool {
	return k.sym != nil
}

// Name returns the string name, or "" for symbol keys.
func (k Key) Name() string {
	if k.sym != nil {
		return ""
	}
	return k.name
}

func (k Key) Symbol() *Symbol {
	return k.sym
}

func (k Key) String() string {
	if k.sym != nil {
		return k.sym.String()
	}
	return k.name
}

var (
	// ComponentsKey carries the component override table (a Table). The
	// merger recomputes it from every input bag instead of taking one
	// bag's value verbatim.
	ComponentsKey = SymbolKey(NewSymbol("components"))

	// RefKey carries the caller's *Ref on a merged bag.
	RefKey = SymbolKey(NewSymbol("ref"))
)

// Props is a property bag. Keys are unique; some keys may be hidden
// (present but non-enumerable). The core never mutates a bag it did not
// create; Set and SetHidden are for building bags before they are handed
// to a node.
type Props struct {
	values map[Key]any
	hidden map[Key]struct{}
}

func NewProps() *Props {
	return &Props{values: map[Key]any{}}
}

// PropsOf builds a bag of string keys from a plain map.
func PropsOf(m map[string]any) *Props {
	p := &Props{values: make(map[Key]any, len(m))}
	for k, v := range m {
		p.values[StringKey(k)] = v
	}
	return p
}

// AsProps converts an untyped value into a bag. nil converts to a nil bag;
// anything that is not a mapping fails with ErrMalformedProps.
func AsProps(v any) (*Props, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Props:
		return t, nil
	case Props:
		return &t, nil
	case map[string]any:
		return PropsOf(t), nil
	case map[string]string:
		p := &Props{values: make(map[Key]any, len(t))}
		for k, s := range t {
			p.values[StringKey(k)] = s
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrMalformedProps, v)
	}
}

func (p *Props) Set(k Key, v any) *Props {
	if p.values == nil {
		p.values = map[Key]any{}
	}
	p.values[k] = v
	if p.hidden != nil {
		delete(p.hidden, k)
	}
	return p
}

// SetHidden stores v under k and marks it non-enumerable.
func (p *Props) SetHidden(k Key, v any) *Props {
	p.Set(k, v)
	if p.hidden == nil {
		p.hidden = map[Key]struct{}{}
	}
	p.hidden[k] = struct{}{}
	return p
}

func (p *Props) Get(k Key) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[k]
	return v, ok
}

func (p *Props) Has(k Key) bool {
	_, ok := p.Get(k)
	return ok
}

func (p *Props) IsHidden(k Key) bool {
	if p == nil || p.hidden == nil {
		return false
	}
	_, ok := p.hidden[k]
	return ok
}

// String returns the value of a string key when it holds a string.
func (p *Props) String(name string) string {
	v, _ := p.Get(StringKey(name))
	s, _ := v.(string)
	return s
}

func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.values)
}

// Keys returns every key, hidden ones included: string keys sorted by name,
// then symbol keys sorted by description.
func (p *Props) Keys() []Key {
	if p == nil {
		return nil
	}
	keys := make([]Key, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Enumerable returns the keys that are not hidden, in Keys order.
func (p *Props) Enumerable() []Key {
	if p == nil {
		return nil
	}
	keys := make([]Key, 0, len(p.values))
	for k := range p.values {
		if !p.IsHidden(k) {
			keys = append(keys, k)
		}
	}
	sortKeys(keys)
	return keys
}

// Components returns the override table carried under ComponentsKey.
func (p *Props) Components() Table {
	v, _ := p.Get(ComponentsKey)
	t, _ := v.(Table)
	return t
}

// Equal reports whether both bags hold the same keys, values and
// hidden flags. A nil bag equals an empty one.
func (p *Props) Equal(o *Props) bool {
	if p.Len() != o.Len() {
		return false
	}
	for _, k := range p.Keys() {
		ov, ok := o.Get(k)
		if !ok || p.IsHidden(k) != o.IsHidden(k) {
			return false
		}
		pv, _ := p.Get(k)
		if !reflect.DeepEqual(pv, ov) {
			return false
		}
	}
	return true
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.IsSymbol() != b.IsSymbol() {
			return !a.IsSymbol()
		}
		if a.IsSymbol() {
			return a.sym.desc < b.sym.desc
		}
		return a.name < b.name
	})
}
