package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/langdiff/pkg/compare"
)

const markdownMissing = "_missing_"

// Markdown writes r as a GitHub-flavored Markdown document: the status counts, any load
// failures, then a table with a row per key and a column per language.
func Markdown(w io.Writer, r *compare.Report, opts ...Option) error {
	o := newOptions(opts)
	missing := o.missing
	if missing == "" {
		missing = markdownMissing
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", escapeMarkdown(o.title))
	if r.Primary != "" {
		fmt.Fprintf(bw, "Primary language: **%s**\n\n", escapeMarkdown(r.Primary))
	} else {
		bw.WriteString("No primary language selected; keys are unclassified.\n\n")
	}

	bw.WriteString("| Status | Keys |\n|---|---:|\n")
	for _, s := range compare.Statuses {
		fmt.Fprintf(bw, "| %s | %d |\n", s, r.Counts.Of(s))
	}
	if r.Counts.Unclassified > 0 {
		fmt.Fprintf(bw, "| unclassified | %d |\n", r.Counts.Unclassified)
	}
	fmt.Fprintf(bw, "| **total** | %d |\n\n", r.Counts.Total)

	if len(r.Failures) > 0 {
		bw.WriteString("## Load errors\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(bw, "- `%s`: %s\n", f.Language, escapeMarkdown(f.Error))
		}
		bw.WriteString("\n")
	}

	if len(o.placeholders) > 0 {
		bw.WriteString("## Placeholder mismatches\n\n")
		bw.WriteString("| Key | Language | Missing | Extra |\n|---|---|---|---|\n")
		for _, m := range o.placeholders {
			fmt.Fprintf(bw, "| `%s` | %s | %s | %s |\n",
				codeSpan(m.Key), escapeMarkdown(m.Language),
				escapeMarkdown(strings.Join(m.Missing, ", ")),
				escapeMarkdown(strings.Join(m.Extra, ", ")))
		}
		bw.WriteString("\n")
	}

	bw.WriteString("## Keys\n\n")
	if len(r.Records) == 0 {
		bw.WriteString("No keys.\n")
		return bw.Flush()
	}

	bw.WriteString("| Key | Status |")
	for _, l := range r.Languages {
		fmt.Fprintf(bw, " %s |", escapeMarkdown(l))
	}
	bw.WriteString("\n|---|---|")
	for range r.Languages {
		bw.WriteString("---|")
	}
	bw.WriteString("\n")

	for _, rec := range r.Records {
		fmt.Fprintf(bw, "| `%s` | %s |", codeSpan(rec.Key), rec.Status)
		for i := range r.Languages {
			var c compare.Cell
			if i < len(rec.Cells) {
				c = rec.Cells[i]
			}
			if !c.Present {
				fmt.Fprintf(bw, " %s |", missing)
				continue
			}
			fmt.Fprintf(bw, " %s |", escapeMarkdown(truncate(c.Text(), o.maxWidth)))
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"#", `\#`,
	"~", `\~`,
	"!", `\!`,
	"\r\n", " ",
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// codeSpan prepares s for a single-backtick code span inside a table cell.
func codeSpan(s string) string {
	return strings.NewReplacer("`", "'", "|", `\|`, "\n", " ").Replace(s)
}
