package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/langdiff/pkg/jsonv"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

func flattenCommand() *cli.Command {
	return &cli.Command{
		Name:      "flatten",
		Usage:     "print a nested JSON or YAML document as a flat object of dotted paths",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "keep-empty", Usage: "keep empty objects and arrays as keys"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			doc, err := readDocument(cmd)
			if err != nil {
				return err
			}

			var opts []keypath.Option
			if cmd.Bool("keep-empty") {
				opts = append(opts, keypath.WithEmptyContainers(keypath.KeepEmpty))
			}
			return writeValue(cmd.Root().Writer, keypath.Flatten(doc, opts...).Object())
		},
	}
}

func unflattenCommand() *cli.Command {
	return &cli.Command{
		Name:      "unflatten",
		Usage:     "rebuild a nested document from a flat object of dotted paths",
		ArgsUsage: "[FILE]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			doc, err := readDocument(cmd)
			if err != nil {
				return err
			}

			flat, err := keypath.FromObject(doc)
			if err != nil {
				return err
			}
			nested, err := keypath.Unflatten(flat)
			if err != nil {
				return err
			}
			return writeValue(cmd.Root().Writer, nested)
		},
	}
}

// readDocument decodes the file named by the first argument, or stdin as JSON when
// there is none or it is "-".
func readDocument(cmd *cli.Command) (jsonv.Value, error) {
	f := &source.File{Name: "stdin.json"}

	var err error
	switch name := cmd.Args().First(); name {
	case "", "-":
		f.Data, err = io.ReadAll(io.LimitReader(cmd.Root().Reader, source.MaxFileSize+1))
	default:
		f.Name = name
		f.Data, err = os.ReadFile(name)
	}
	if err != nil {
		return jsonv.Value{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if len(f.Data) > source.MaxFileSize {
		return jsonv.Value{}, fmt.Errorf("%w: %s", source.ErrFileTooLarge, f.Name)
	}

	return f.Decode()
}

func writeValue(w io.Writer, v jsonv.Value) error {
	data, err := jsonv.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
