package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/match"
	"github.com/dmitrymomot/langdiff/pkg/render"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

// Exit codes of check.
const (
	exitFindings = 1
	exitUsage    = 2
)

// Extra -fail-on conditions besides statuses.
const (
	failOnPlaceholders = "placeholders"
	failOnLoad         = "load"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "load every language and report the status of each key",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "only show keys with this status (all, translated, incomplete, error)"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "fuzzy search over keys and values"},
			&cli.FloatFlag{Name: "threshold", Usage: "fuzzy match threshold between 0 (exact) and 1"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "table", Usage: "output format: table, markdown, json or html"},
			&cli.StringSliceFlag{Name: "fail-on", Usage: "exit with code 1 when keys have these statuses (also: placeholders, load)"},
			&cli.BoolFlag{Name: "placeholders", Usage: "report {{placeholder}} mismatches against the primary language"},
			&cli.BoolFlag{Name: "keep-blank", Usage: `count "" and null values as translated`},
			&cli.BoolFlag{Name: "skip-failed", Usage: "leave languages that failed to load out of classification"},
		),
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	applySourceFlags(cmd, cfg)
	if cmd.IsSet("threshold") {
		cfg.Search.Threshold = cmd.Float("threshold")
	}
	if cmd.IsSet("keep-blank") {
		cfg.Compare.BlankAsMissing = !cmd.Bool("keep-blank")
	}
	if cmd.IsSet("skip-failed") {
		cfg.Compare.SkipFailed = cmd.Bool("skip-failed")
	}
	if err := validate(cfg); err != nil {
		return err
	}

	filter, err := match.ParseFilter(cmd.String("status"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	failOn, err := parseFailOn(cmd.StringSlice("fail-on"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	format := cmd.String("format")
	if !isFormat(format) {
		return cli.Exit(fmt.Sprintf("unknown format %q", format), exitUsage)
	}

	log, err := newLogger(cmd.Root().ErrWriter, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	langs, err := source.Load(ctx, src,
		source.WithLogger(log),
		source.WithConcurrency(cfg.Source.Concurrency),
		source.WithFlattenOptions(flattenOptions(cfg)...),
	)
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		return cli.Exit("no languages found", exitUsage)
	}

	sess, err := compare.NewSession(langs,
		compare.WithPrimary(cfg.Compare.Primary),
		compare.WithBlankAsMissing(cfg.Compare.BlankAsMissing),
		compare.WithSkipFailed(cfg.Compare.SkipFailed),
	)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	full := sess.Report()
	report := match.New(full, match.WithThreshold(cfg.Search.Threshold)).Report(cmd.String("query"), filter)

	var mismatches []compare.PlaceholderMismatch
	if cmd.Bool("placeholders") || failOn[failOnPlaceholders] {
		mismatches = sess.CheckPlaceholders()
	}

	if err := write(cmd.Root().Writer, format, report, mismatches, cmd.Bool("placeholders")); err != nil {
		return err
	}

	return findings(full, mismatches, failOn)
}

func isFormat(f string) bool {
	switch f {
	case "table", "markdown", "md", "json", "html":
		return true
	}
	return false
}

func write(w io.Writer, format string, r *compare.Report, mismatches []compare.PlaceholderMismatch, showPlaceholders bool) error {
	var opts []render.Option
	if showPlaceholders {
		opts = append(opts, render.WithPlaceholders(mismatches))
	}

	switch format {
	case "markdown", "md":
		return render.Markdown(w, r, opts...)
	case "html":
		return render.HTML(w, r, opts...)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if showPlaceholders {
			if mismatches == nil {
				mismatches = []compare.PlaceholderMismatch{}
			}
			return enc.Encode(map[string]any{"report": r, "placeholders": mismatches})
		}
		return enc.Encode(r)
	default:
		return render.Table(w, r, opts...)
	}
}

func parseFailOn(items []string) (map[string]bool, error) {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		switch item {
		case "":
			continue
		case failOnPlaceholders, failOnLoad:
			out[item] = true
			continue
		}
		s, err := compare.ParseStatus(item)
		if err != nil {
			return nil, err
		}
		out[s.String()] = true
	}
	return out, nil
}

// findings returns an exit error when the full report hits a -fail-on condition.
func findings(r *compare.Report, mismatches []compare.PlaceholderMismatch, failOn map[string]bool) error {
	var reasons []string
	for _, s := range slices.Concat(compare.Statuses, []compare.Status{compare.StatusUnclassified}) {
		if failOn[s.String()] && r.Counts.Of(s) > 0 {
			reasons = append(reasons, fmt.Sprintf("%d %s", r.Counts.Of(s), s))
		}
	}
	if failOn[failOnPlaceholders] && len(mismatches) > 0 {
		reasons = append(reasons, fmt.Sprintf("%d placeholder mismatches", len(mismatches)))
	}
	if failOn[failOnLoad] && len(r.Failures) > 0 {
		reasons = append(reasons, fmt.Sprintf("%d languages failed to load", len(r.Failures)))
	}

	if len(reasons) == 0 {
		return nil
	}
	return cli.Exit("check failed: "+strings.Join(reasons, ", "), exitFindings)
}
