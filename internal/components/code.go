package components

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/3-lines-studio/folio/internal/core"
)

const DefaultStyle = "github"

// Highlighter renders fenced code blocks with chroma, using CSS classes so
// one stylesheet serves every page.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Highlighter{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(4)),
	}
}

func (h *Highlighter) Highlight(language, code string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	return sb.String(), nil
}

func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// CodeBlock overrides "pre": a pre wrapping a single code element with a
// language-* class is replaced by highlighted markup. Anything else, and
// any highlighting failure, falls through to the previous "pre".
func CodeBlock(h *Highlighter) core.Override {
	return core.Wrap(func(prev *core.Component) *core.Component {
		return &core.Component{
			Name: "pre",
			Render: func(call *core.Call) (core.Output, error) {
				lang, code, ok := codeChild(call.Children)
				if !ok {
					return renderWith(prev, call)
				}
				html, err := h.Highlight(lang, code)
				if err != nil {
					return renderWith(prev, call)
				}
				return core.Markup(html), nil
			},
		}
	})
}

func codeChild(children []core.Output) (lang, code string, ok bool) {
	if len(children) != 1 {
		return "", "", false
	}
	el, isElement := children[0].(*core.ElementOutput)
	if !isElement || el.Tag != "code" {
		return "", "", false
	}

	lang = languageOf(el.Attrs.String("className"))
	if lang == "" {
		return "", "", false
	}

	var sb strings.Builder
	for _, c := range el.Children {
		text, isText := c.(core.TextOutput)
		if !isText {
			return "", "", false
		}
		sb.WriteString(string(text))
	}
	return lang, sb.String(), true
}

func languageOf(className string) string {
	for _, class := range strings.Fields(className) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
	}
	return ""
}

func renderWith(c *core.Component, call *core.Call) (core.Output, error) {
	if c == nil || c.Render == nil {
		return call.Element(call.Name), nil
	}
	return c.Render(call)
}
