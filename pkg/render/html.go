package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/langdiff/pkg/compare"
)

var (
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	page     *template.Template
	initOnce sync.Once
)

const pageLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: .25rem .5rem; text-align: left; vertical-align: top; }
em { color: #b00; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`

func initRenderer() {
	initOnce.Do(func() {
		md = goldmark.New(goldmark.WithExtensions(extension.GFM))

		// UGC policy keeps tables, emphasis and code, and drops anything active.
		policy = bluemonday.UGCPolicy()

		page = template.Must(template.New("report").Parse(pageLayout))
	})
}

// HTML writes r as a standalone HTML page. The body is the Markdown report converted with
// goldmark and sanitized with bluemonday, so values from translation files cannot inject
// markup.
func HTML(w io.Writer, r *compare.Report, opts ...Option) error {
	initRenderer()
	o := newOptions(opts)

	var src bytes.Buffer
	if err := Markdown(&src, r, opts...); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	data := map[string]any{
		"Title":   o.title,
		"Content": template.HTML(policy.SanitizeBytes(body.Bytes())),
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}
	return nil
}
