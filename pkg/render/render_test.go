package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/jsonv"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/render"
)

func newSession(t *testing.T) *compare.Session {
	t.Helper()

	s, err := compare.NewSession([]compare.Language{
		{Name: "en", Flat: keypath.Flatten(jsonv.MustParse(`{
			"menu": {"items": [{"label": "Open"}]},
			"hello": "Hello, {{name}}!",
			"xss": "<script>alert(1)</script>"
		}`))},
		{Name: "fr", Flat: keypath.Flatten(jsonv.MustParse(`{
			"menu": {"items": [{"label": "Ouvrir"}]},
			"hello": "Bonjour, {{nom}}!"
		}`))},
		{Name: "de", Err: errors.New("unexpected end of JSON input")},
	})
	require.NoError(t, err)
	return s
}

func TestSubtree(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	r := s.Report()
	rec, ok := s.Record("menu.items[0].label")
	require.True(t, ok)

	v, err := render.Subtree(r, rec, "fr")
	require.NoError(t, err)
	require.Equal(t, `{"menu":{"items":[{"label":"Ouvrir"}]}}`, v.Text())

	_, err = render.Subtree(r, rec, "de")
	require.ErrorIs(t, err, render.ErrNoValue)

	_, err = render.Subtree(r, rec, "it")
	require.ErrorIs(t, err, render.ErrUnknownLanguage)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	s := newSession(t)

	var buf bytes.Buffer
	err := render.Markdown(&buf, s.Report(), render.WithPlaceholders(s.CheckPlaceholders()))
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "# Translation report")
	require.Contains(t, out, "Primary language: **en**")
	require.Contains(t, out, "| translated | 0 |")
	require.Contains(t, out, "| incomplete | 3 |")
	require.Contains(t, out, "| **total** | 3 |")
	require.Contains(t, out, "## Load errors")
	require.Contains(t, out, "- `de`: unexpected end of JSON input")
	require.Contains(t, out, "## Placeholder mismatches")
	require.Contains(t, out, "| Key | Status | en | fr | de |")
	require.Contains(t, out, "| `menu.items[0].label` | incomplete | Open | Ouvrir | _missing_ |")
	require.Contains(t, out, `\<script\>`)
}

func TestMarkdownWithoutPrimary(t *testing.T) {
	t.Parallel()

	s, err := compare.NewSession([]compare.Language{{Name: "en", Err: errors.New("broken")}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s.Report(), render.WithTitle("Locales")))
	require.Contains(t, buf.String(), "# Locales")
	require.Contains(t, buf.String(), "No primary language selected")
	require.Contains(t, buf.String(), "No keys.")
}

func TestHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.HTML(&buf, newSession(t).Report()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, "<title>Translation report</title>")
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>Ouvrir</td>")
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "&lt;script&gt;")
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Table(&buf, newSession(t).Report(), render.WithMaxWidth(5)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{"KEY", "STATUS", "en", "fr", "de"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"menu.items[0].label", "incomplete", "Open", "Ouvri…", "-"}, strings.Fields(lines[1]))
	require.Contains(t, buf.String(), "3 keys: 0 translated, 3 incomplete, 0 error, 0 unclassified")
	require.Contains(t, buf.String(), "de: unexpected end of JSON input")
}
