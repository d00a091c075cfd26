package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/markup"
)

const benchmarksPage = "---\n" +
	"title: Benchmarks\n" +
	"slug: benchmarks\n" +
	"weight: 2\n" +
	"description: GPU benchmarks\n" +
	"---\n" +
	"\n" +
	"# Benchmarks\n" +
	"\n" +
	"Run `llm_studio` with **default** settings.\n" +
	"\n" +
	"| Backbone | GPUs |\n" +
	"|:---------|-----:|\n" +
	"| 7B       | 1    |\n" +
	"\n" +
	"```yaml\n" +
	"batch_size: 4\n" +
	"```\n" +
	"\n" +
	"<div class=\"note\">raw</div>\n"

func renderPage(t *testing.T, page *Page) string {
	t.Helper()
	out, err := core.NewDispatcher().Render(page.Root, core.NewEnv())
	require.NoError(t, err)
	html, err := markup.String(out)
	require.NoError(t, err)
	return html
}

func TestParseFrontMatter(t *testing.T) {
	page, err := NewParser().Parse("guide/benchmarks.md", []byte(benchmarksPage))
	require.NoError(t, err)

	assert.Equal(t, Meta{
		Title:       "Benchmarks",
		Slug:        "benchmarks",
		Permalink:   "/benchmarks",
		Description: "GPU benchmarks",
		Weight:      2,
	}, page.Meta)
	assert.Equal(t, "guide/benchmarks.md", page.Source)
}

func TestParseBuildsWrapperRootedTree(t *testing.T) {
	page, err := NewParser().Parse("benchmarks.md", []byte(benchmarksPage))
	require.NoError(t, err)

	root, ok := page.Root.(*core.ComponentRef)
	require.True(t, ok)
	assert.Equal(t, "wrapper", root.Name)

	html := renderPage(t, page)

	assert.Contains(t, html, `<h1 id="benchmarks">Benchmarks</h1>`)
	assert.Contains(t, html, `<p>Run <code>llm_studio</code> with <strong>default</strong> settings.`)
	assert.Contains(t, html, `<th style="text-align: left">Backbone</th>`)
	assert.Contains(t, html, `<td style="text-align: right">1</td>`)
	assert.Contains(t, html, `<pre><code class="language-yaml">batch_size: 4`)
	assert.Contains(t, html, `<div class="note">raw</div>`)
}

func TestParseTableStructure(t *testing.T) {
	page, err := NewParser().Parse("t.md", []byte("| A | B |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)

	assert.Equal(t,
		"<table><thead><tr><th>A</th><th>B</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>",
		renderPage(t, page))
}

func TestParseTitleFallsBackToFirstHeading(t *testing.T) {
	page, err := NewParser().Parse("hardware/GPU Setup.md", []byte("Intro\n\n# Hardware *setup*\n"))
	require.NoError(t, err)

	assert.Equal(t, "Hardware setup", page.Meta.Title)
	assert.Equal(t, "hardware-gpu-setup", page.Meta.Slug)
	assert.Equal(t, "/hardware-gpu-setup", page.Meta.Permalink)
}

func TestParseWrapperPropsFromFrontMatter(t *testing.T) {
	src := "---\nprops:\n  layout: wide\n---\n\ntext\n"
	page, err := NewParser().Parse("p.md", []byte(src))
	require.NoError(t, err)

	root := page.Root.(*core.ComponentRef)
	assert.Equal(t, "wide", root.Props.String("layout"))
}

func TestParseRejectsMalformedWrapperProps(t *testing.T) {
	src := "---\nprops:\n  - a\n  - b\n---\n\ntext\n"
	_, err := NewParser().Parse("p.md", []byte(src))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedProps)
}

func TestParseInvalidFrontMatter(t *testing.T) {
	src := "---\ntitle: [unclosed\n---\n\ntext\n"
	_, err := NewParser().Parse("p.md", []byte(src))
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Benchmarks":        "benchmarks",
		"GPU / CPU  specs!": "gpu-cpu-specs",
		"--already-slug--":  "already-slug",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
