// Package components holds the documentation component set. Nothing here
// is registered globally: a site installs the set through a provider.
package components

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/3-lines-studio/folio/internal/core"
)

type Options struct {
	Highlighter *Highlighter
	Policy      *bluemonday.Policy
	// Extra components, applied after the built-in set.
	Extra core.Table
}

// Docs returns the overrides a documentation page renders with.
func Docs(opts Options) core.Overrides {
	h := opts.Highlighter
	if h == nil {
		h = NewHighlighter(DefaultStyle)
	}

	o := core.Overrides{
		"pre":     CodeBlock(h),
		"raw":     SanitizedRaw(opts.Policy),
		"table":   ScrollTable(),
		"a":       ExternalLink(),
		"h2":      HeadingAnchor("h2"),
		"h3":      HeadingAnchor("h3"),
		"Note":    core.Use(Admonition("Note")),
		"Tip":     core.Use(Admonition("Tip")),
		"Warning": core.Use(Admonition("Warning")),
	}
	for name, c := range opts.Extra {
		o[name] = core.Use(c)
	}
	return o
}
