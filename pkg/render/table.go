package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrymomot/langdiff/pkg/compare"
)

const tableMissing = "-"

// Table writes r as aligned plain-text columns for terminals, followed by a summary line.
func Table(w io.Writer, r *compare.Report, opts ...Option) error {
	o := newOptions(opts)
	missing := o.missing
	if missing == "" {
		missing = tableMissing
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := append([]string{"KEY", "STATUS"}, r.Languages...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, rec := range r.Records {
		row := make([]string, 0, len(r.Languages)+2)
		row = append(row, rec.Key, rec.Status.String())
		for i := range r.Languages {
			if i >= len(rec.Cells) || !rec.Cells[i].Present {
				row = append(row, missing)
				continue
			}
			row = append(row, oneLine(truncate(rec.Cells[i].Text(), o.maxWidth)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	c := r.Counts
	_, err := fmt.Fprintf(w, "\n%d keys: %d translated, %d incomplete, %d error, %d unclassified\n",
		c.Total, c.Translated, c.Incomplete, c.Error, c.Unclassified)
	if err != nil {
		return err
	}

	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Language, f.Error); err != nil {
			return err
		}
	}
	for _, m := range o.placeholders {
		if _, err := fmt.Fprintf(w, "%s [%s]: missing %v, extra %v\n", m.Key, m.Language, m.Missing, m.Extra); err != nil {
			return err
		}
	}
	return nil
}

var lineFolder = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ")

func oneLine(s string) string { return lineFolder.Replace(s) }
