package core

import "fmt"

type MergeMode int

const (
	// MergeEnumerable skips hidden keys of every input bag.
	MergeEnumerable MergeMode = iota
	// MergeFull copies hidden keys too; they stay hidden in the result.
	MergeFull
)

func (m MergeMode) String() string {
	if m == MergeFull {
		return "full"
	}
	return "enumerable"
}

// Merge combines bags into a new one, earliest bag lowest precedence.
// nil bags are skipped. ComponentsKey is never taken from a single bag:
// the result carries the union of every visible input table, later bags
// winning per name.
func Merge(mode MergeMode, bags ...*Props) *Props {
	out := NewProps()
	var (
		table       Table
		tableHidden bool
	)

	for _, bag := range bags {
		if bag == nil {
			continue
		}
		for k, v := range bag.values {
			hidden := bag.IsHidden(k)
			if hidden && mode != MergeFull {
				continue
			}

			if k == ComponentsKey {
				t, ok := v.(Table)
				if !ok {
					continue
				}
				if table == nil {
					table = Table{}
				}
				for name, c := range t {
					table[name] = c
				}
				tableHidden = hidden
				continue
			}

			if hidden {
				out.SetHidden(k, v)
			} else {
				out.Set(k, v)
			}
		}
	}

	if table != nil {
		if tableHidden {
			out.SetHidden(ComponentsKey, table)
		} else {
			out.Set(ComponentsKey, table)
		}
	}

	return out
}

// MergeValues is Merge over untyped inputs. Any input that is not a
// property bag is reported as ErrMalformedProps.
func MergeValues(mode MergeMode, values ...any) (*Props, error) {
	bags := make([]*Props, 0, len(values))
	for i, v := range values {
		bag, err := AsProps(v)
		if err != nil {
			return nil, fmt.Errorf("bag %d: %w", i, err)
		}
		bags = append(bags, bag)
	}
	return Merge(mode, bags...), nil
}
