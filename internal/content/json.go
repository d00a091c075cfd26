package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/3-lines-studio/folio/internal/core"
)

// jsonPage is the wire form of a page produced by an external content
// pipeline:
//
//	{"meta": {"title": "...", "slug": "..."}, "root": <node>}
//
// A node is a JSON string (text), a number, or an object with a "type" of
// "fragment", "element", "component" or "raw".
type jsonPage struct {
	Meta struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Weight      int    `json:"weight"`
		Draft       bool   `json:"draft"`
	} `json:"meta"`
	Root json.RawMessage `json:"root"`
}

type jsonNode struct {
	Type     string            `json:"type"`
	Tag      string            `json:"tag"`
	Name     string            `json:"name"`
	HTML     string            `json:"html"`
	Props    json.RawMessage   `json:"props"`
	Children []json.RawMessage `json:"children"`
}

func DecodePage(path string, data []byte) (*Page, error) {
	var jp jsonPage
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	root, err := DecodeNode(jp.Root)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	m := Meta{
		Title:       jp.Meta.Title,
		Slug:        Slugify(jp.Meta.Slug),
		Description: jp.Meta.Description,
		Weight:      jp.Meta.Weight,
		Draft:       jp.Meta.Draft,
	}
	if m.Slug == "" {
		m.Slug = SlugForPath(path)
	}
	if m.Title == "" {
		m.Title = m.Slug
	}
	m.Permalink = PermalinkFor(m.Slug)

	return &Page{Meta: m, Root: root, Source: path}, nil
}

// DecodeNode decodes one node. Props that are not a JSON object fail with
// core.ErrMalformedProps.
func DecodeNode(raw json.RawMessage) (core.Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return core.Text(s), nil
	case '{':
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("node must be a string, number or object: %s", truncate(raw))
		}
		return core.Number(f), nil
	}

	var jn jsonNode
	if err := json.Unmarshal(raw, &jn); err != nil {
		return nil, err
	}

	children := make([]core.Node, 0, len(jn.Children))
	for i, c := range jn.Children {
		child, err := DecodeNode(c)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, child)
	}

	switch jn.Type {
	case "fragment":
		return core.Frag(children...), nil
	case "raw":
		return core.Raw{HTML: jn.HTML}, nil
	case "element", "component":
		props, err := decodeProps(jn.Props)
		if err != nil {
			return nil, err
		}
		if jn.Type == "element" {
			if jn.Tag == "" {
				return nil, fmt.Errorf("element without tag")
			}
			return core.El(jn.Tag, props, children...), nil
		}
		if jn.Name == "" {
			return nil, fmt.Errorf("component without name")
		}
		return core.Comp(jn.Name, props, children...), nil
	default:
		return nil, fmt.Errorf("unknown node type %q", jn.Type)
	}
}

func decodeProps(raw json.RawMessage) (*core.Props, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return core.AsProps(v)
}

func truncate(b []byte) string {
	const max = 40
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
