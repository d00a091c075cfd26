package content

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/3-lines-studio/folio/internal/core"
)

// Parser turns Markdown with YAML front matter into a page: metadata plus
// a render-node tree rooted at a "wrapper" component.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, meta.Meta),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (p *Parser) Parse(path string, src []byte) (*Page, error) {
	ctx := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	front, err := meta.TryGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("front matter in %s: %w", path, err)
	}
	fields := normalize(front)

	wrapperProps, err := core.AsProps(fields["props"])
	if err != nil {
		return nil, fmt.Errorf("front matter props in %s: %w", path, err)
	}

	c := &converter{src: src}
	children := c.children(doc)

	page := &Page{
		Meta:   metaFrom(fields, path),
		Root:   core.Comp("wrapper", wrapperProps, children...),
		Source: path,
	}
	if page.Meta.Title == "" {
		page.Meta.Title = firstHeading(doc, src)
	}
	if page.Meta.Title == "" {
		page.Meta.Title = page.Meta.Slug
	}
	return page, nil
}

func metaFrom(fields map[string]any, path string) Meta {
	m := Meta{
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Slug:        Slugify(stringField(fields, "slug")),
	}
	if m.Slug == "" {
		m.Slug = SlugForPath(path)
	}
	m.Permalink = PermalinkFor(m.Slug)

	switch w := fields["weight"].(type) {
	case int:
		m.Weight = w
	case float64:
		m.Weight = int(w)
	case string:
		m.Weight, _ = strconv.Atoi(w)
	}
	if d, ok := fields["draft"].(bool); ok {
		m.Draft = d
	}
	return m
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// normalize converts the map[interface{}]interface{} values produced by the
// front matter decoder into map[string]any, recursively.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case map[string]any:
		return normalize(t)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}

func firstHeading(doc ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = plainText(h, src)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

type converter struct {
	src []byte
}

func (c *converter) children(n ast.Node) []core.Node {
	var out []core.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.convert(child)...)
	}
	return out
}

func (c *converter) convert(n ast.Node) []core.Node {
	switch t := n.(type) {
	case *ast.Heading:
		return one(core.El("h"+strconv.Itoa(t.Level), c.attrs(n), c.children(n)...))
	case *ast.Paragraph:
		return one(core.El("p", c.attrs(n), c.children(n)...))
	case *ast.TextBlock:
		return c.children(n)
	case *ast.Text:
		return c.text(t)
	case *ast.String:
		return one(core.Text(t.Value))
	case *ast.CodeSpan:
		return one(core.Comp("inlineCode", nil, core.Text(plainText(t, c.src))))
	case *ast.Emphasis:
		tag := "em"
		if t.Level >= 2 {
			tag = "strong"
		}
		return one(core.El(tag, nil, c.children(n)...))
	case *ast.Link:
		props := core.PropsOf(map[string]any{"href": string(t.Destination)})
		if len(t.Title) > 0 {
			props.Set(core.StringKey("title"), string(t.Title))
		}
		return one(core.El("a", props, c.children(n)...))
	case *ast.AutoLink:
		url := string(t.URL(c.src))
		if t.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		props := core.PropsOf(map[string]any{"href": url})
		return one(core.El("a", props, core.Text(t.Label(c.src))))
	case *ast.Image:
		props := core.PropsOf(map[string]any{
			"src": string(t.Destination),
			"alt": plainText(t, c.src),
		})
		if len(t.Title) > 0 {
			props.Set(core.StringKey("title"), string(t.Title))
		}
		return one(core.El("img", props))
	case *ast.List:
		if t.IsOrdered() {
			var props *core.Props
			if t.Start != 1 {
				props = core.PropsOf(map[string]any{"start": t.Start})
			}
			return one(core.El("ol", props, c.children(n)...))
		}
		return one(core.El("ul", nil, c.children(n)...))
	case *ast.ListItem:
		return one(core.El("li", nil, c.children(n)...))
	case *ast.Blockquote:
		return one(core.El("blockquote", nil, c.children(n)...))
	case *ast.ThematicBreak:
		return one(core.El("hr", nil))
	case *ast.FencedCodeBlock:
		var props *core.Props
		if lang := string(t.Language(c.src)); lang != "" {
			props = core.PropsOf(map[string]any{"className": "language-" + lang})
		}
		return one(core.El("pre", nil, core.El("code", props, core.Text(c.lines(n)))))
	case *ast.CodeBlock:
		return one(core.El("pre", nil, core.El("code", nil, core.Text(c.lines(n)))))
	case *ast.HTMLBlock:
		html := c.lines(n)
		if t.HasClosure() {
			html += string(t.ClosureLine.Value(c.src))
		}
		return one(core.Raw{HTML: html})
	case *ast.RawHTML:
		var sb strings.Builder
		for i := 0; i < t.Segments.Len(); i++ {
			seg := t.Segments.At(i)
			sb.Write(seg.Value(c.src))
		}
		return one(core.Raw{HTML: sb.String()})
	case *east.Table:
		return one(c.table(t))
	case *east.Strikethrough:
		return one(core.El("del", nil, c.children(n)...))
	case *east.TaskCheckBox:
		props := core.PropsOf(map[string]any{"type": "checkbox", "disabled": true, "checked": t.IsChecked})
		return one(core.El("input", props))
	default:
		return c.children(n)
	}
}

func (c *converter) text(t *ast.Text) []core.Node {
	value := string(t.Segment.Value(c.src))
	switch {
	case t.HardLineBreak():
		return []core.Node{core.Text(value), core.El("br", nil), core.Text("\n")}
	case t.SoftLineBreak():
		return one(core.Text(value + "\n"))
	default:
		return one(core.Text(value))
	}
}

func (c *converter) table(t *east.Table) core.Node {
	var head, body []core.Node
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			head = append(head, core.El("tr", nil, c.cells(row, "th")...))
		case *east.TableRow:
			body = append(body, core.El("tr", nil, c.cells(row, "td")...))
		}
	}

	var sections []core.Node
	if len(head) > 0 {
		sections = append(sections, core.El("thead", nil, head...))
	}
	if len(body) > 0 {
		sections = append(sections, core.El("tbody", nil, body...))
	}
	return core.El("table", nil, sections...)
}

func (c *converter) cells(row ast.Node, tag string) []core.Node {
	var cells []core.Node
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		var props *core.Props
		if cell.Alignment != east.AlignNone {
			props = core.PropsOf(map[string]any{"style": "text-align: " + cell.Alignment.String()})
		}
		cells = append(cells, core.El(tag, props, c.children(cell)...))
	}
	return cells
}

func (c *converter) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(c.src))
	}
	return sb.String()
}

func (c *converter) attrs(n ast.Node) *core.Props {
	attrs := n.Attributes()
	if len(attrs) == 0 {
		return nil
	}
	props := core.NewProps()
	for _, attr := range attrs {
		name := string(attr.Name)
		switch v := attr.Value.(type) {
		case []byte:
			props.Set(core.StringKey(name), string(v))
		case string:
			props.Set(core.StringKey(name), v)
		default:
			props.Set(core.StringKey(name), fmt.Sprint(v))
		}
	}
	return props
}

func one(n core.Node) []core.Node {
	return []core.Node{n}
}
