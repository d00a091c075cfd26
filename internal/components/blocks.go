package components

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/3-lines-studio/folio/internal/core"
)

// SanitizedRaw overrides "raw" so markup embedded in page sources passes
// through a bluemonday policy before it reaches the page.
func SanitizedRaw(policy *bluemonday.Policy) core.Override {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return core.Use(&core.Component{
		Name: "raw",
		Render: func(call *core.Call) (core.Output, error) {
			return core.Markup(policy.Sanitize(call.Props.String("html"))), nil
		},
	})
}

// ScrollTable wraps whatever "table" resolved to before in a scroll
// container, so wide benchmark tables do not break the layout.
func ScrollTable() core.Override {
	return core.Wrap(func(prev *core.Component) *core.Component {
		return &core.Component{
			Name: "table",
			Render: func(call *core.Call) (core.Output, error) {
				out, err := renderWith(prev, call)
				if err != nil {
					return nil, err
				}
				return &core.ElementOutput{
					Tag:      "div",
					Attrs:    core.PropsOf(map[string]any{"class": "table-scroll"}),
					Children: []core.Output{out},
				}, nil
			},
		}
	})
}

// ExternalLink marks absolute links to open in a new tab.
func ExternalLink() core.Override {
	return core.Wrap(func(prev *core.Component) *core.Component {
		return &core.Component{
			Name: "a",
			Render: func(call *core.Call) (core.Output, error) {
				href := call.Props.String("href")
				if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
					return renderWith(prev, call)
				}
				extra := core.PropsOf(map[string]any{"target": "_blank", "rel": "noopener noreferrer"})
				next := *call
				next.Props = core.Merge(core.MergeFull, call.Props, extra)
				return renderWith(prev, &next)
			},
		}
	})
}

// HeadingAnchor appends a self link to headings that carry an id.
func HeadingAnchor(level string) core.Override {
	return core.Wrap(func(prev *core.Component) *core.Component {
		return &core.Component{
			Name: level,
			Render: func(call *core.Call) (core.Output, error) {
				id := call.Props.String("id")
				if id == "" {
					return renderWith(prev, call)
				}
				anchor := &core.ElementOutput{
					Tag:      "a",
					Attrs:    core.PropsOf(map[string]any{"class": "anchor", "href": "#" + id, "aria-hidden": "true"}),
					Children: []core.Output{core.TextOutput("#")},
				}
				next := *call
				next.Children = append(append([]core.Output{}, call.Children...), anchor)
				return renderWith(prev, &next)
			},
		}
	})
}

// Admonition renders a callout box such as <Note> or <Warning>.
func Admonition(kind string) *core.Component {
	return &core.Component{
		Name:     kind,
		Defaults: core.PropsOf(map[string]any{"title": kind}),
		Render: func(call *core.Call) (core.Output, error) {
			title := &core.ElementOutput{
				Tag:      "p",
				Attrs:    core.PropsOf(map[string]any{"class": "admonition-title"}),
				Children: []core.Output{core.TextOutput(call.Props.String("title"))},
			}
			return &core.ElementOutput{
				Tag:      "aside",
				Attrs:    core.PropsOf(map[string]any{"class": "admonition " + strings.ToLower(kind)}),
				Children: append([]core.Output{title}, call.Children...),
			}, nil
		},
	}
}
