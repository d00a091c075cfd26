package markup

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/3-lines-studio/folio/internal/core"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

var attrAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

// Write serializes rendered output as HTML.
func Write(w io.Writer, out core.Output) error {
	var sb strings.Builder
	if err := write(&sb, out); err != nil {
		return err
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func String(out core.Output) (string, error) {
	var sb strings.Builder
	if err := write(&sb, out); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func write(sb *strings.Builder, out core.Output) error {
	switch o := out.(type) {
	case nil:
		return nil
	case core.TextOutput:
		sb.WriteString(html.EscapeString(string(o)))
	case core.Markup:
		sb.WriteString(string(o))
	case core.List:
		for _, child := range o {
			if err := write(sb, child); err != nil {
				return err
			}
		}
	case *core.ElementOutput:
		if o == nil {
			return nil
		}
		return writeElement(sb, o)
	default:
		return fmt.Errorf("markup: unsupported output %T", out)
	}
	return nil
}

// writeElement writes el. A tag the HTML tokenizer cannot read as a tag
// name is dropped and only its children are written.
func writeElement(sb *strings.Builder, el *core.ElementOutput) error {
	if !validTag(el.Tag) {
		slog.Debug("markup: unwrapping element with invalid tag", "tag", el.Tag)
		for _, child := range el.Children {
			if err := write(sb, child); err != nil {
				return err
			}
		}
		return nil
	}

	sb.WriteByte('<')
	sb.WriteString(el.Tag)
	writeAttrs(sb, el.Attrs)
	sb.WriteByte('>')

	if voidElements[el.Tag] {
		return nil
	}

	for _, child := range el.Children {
		if err := write(sb, child); err != nil {
			return err
		}
	}

	sb.WriteString("</")
	sb.WriteString(el.Tag)
	sb.WriteByte('>')
	return nil
}

func writeAttrs(sb *strings.Builder, attrs *core.Props) {
	for _, k := range attrs.Enumerable() {
		if k.IsSymbol() {
			continue
		}
		name := k.Name()
		if alias, ok := attrAliases[name]; ok {
			name = alias
		}
		if !validAttr(name) {
			continue
		}
		v, _ := attrs.Get(k)
		value, ok := attrValue(v)
		if !ok {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(name)
		if value == nil {
			continue
		}
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(*value))
		sb.WriteByte('"')
	}
}

// attrValue returns (nil, true) for boolean attributes that are present.
func attrValue(v any) (*string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case bool:
		if !t {
			return nil, false
		}
		return nil, true
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		s = strings.Join(t, " ")
	default:
		return nil, false
	}
	return &s, true
}

// validTag accepts what the HTML tokenizer reads as a tag name: an ASCII
// letter followed by anything but whitespace, '/', '>', '<', quotes or '='.
func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	if c := tag[0]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return false
	}
	return !strings.ContainsAny(tag, " \t\n\r\f/<>\"'=")
}

func validAttr(name string) bool {
	if name == "" || name == "children" {
		return false
	}
	return !strings.ContainsAny(name, " \"'<>/=\t\n")
}
