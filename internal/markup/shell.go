package markup

import (
	"fmt"
	"html"
	"strings"
)

type NavLink struct {
	Title     string
	Permalink string
	Current   bool
}

type Shell struct {
	SiteTitle   string
	Title       string
	Description string
	BodyHTML    string
	HeadHTML    string
	CSSHref     []string
	Nav         []NavLink
	Prev        *NavLink
	Next        *NavLink
}

// RenderShell wraps a rendered page body into a full document.
func RenderShell(s Shell) (string, error) {
	title := s.Title
	if s.SiteTitle != "" {
		if title == "" {
			title = s.SiteTitle
		} else {
			title = title + " | " + s.SiteTitle
		}
	}

	head := `<meta charset="UTF-8" /><meta name="viewport" content="width=device-width, initial-scale=1.0" />`
	if title != "" {
		head += fmt.Sprintf("<title>%s</title>", html.EscapeString(title))
	}
	if s.Description != "" {
		head += fmt.Sprintf(`<meta name="description" content="%s" />`, html.EscapeString(s.Description))
	}
	for _, href := range s.CSSHref {
		head += fmt.Sprintf(`<link rel="stylesheet" href="%s" />`, html.EscapeString(href))
	}
	head += s.HeadHTML

	doc := fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    %s
  </head>
  <body>
%s    <main id="content">%s</main>
%s  </body>
</html>
`, head, renderNav(s.Nav), s.BodyHTML, renderPager(s.Prev, s.Next))

	return doc, nil
}

func renderNav(links []NavLink) string {
	if len(links) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`    <nav class="sidebar"><ul>`)
	for _, link := range links {
		if link.Current {
			fmt.Fprintf(&sb, `<li class="current"><a href="%s" aria-current="page">%s</a></li>`,
				html.EscapeString(link.Permalink), html.EscapeString(link.Title))
			continue
		}
		fmt.Fprintf(&sb, `<li><a href="%s">%s</a></li>`, html.EscapeString(link.Permalink), html.EscapeString(link.Title))
	}
	sb.WriteString("</ul></nav>\n")
	return sb.String()
}

func renderPager(prev, next *NavLink) string {
	if prev == nil && next == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`    <nav class="pager">`)
	if prev != nil {
		fmt.Fprintf(&sb, `<a rel="prev" href="%s">%s</a>`, html.EscapeString(prev.Permalink), html.EscapeString(prev.Title))
	}
	if next != nil {
		fmt.Fprintf(&sb, `<a rel="next" href="%s">%s</a>`, html.EscapeString(next.Permalink), html.EscapeString(next.Title))
	}
	sb.WriteString("</nav>\n")
	return sb.String()
}
