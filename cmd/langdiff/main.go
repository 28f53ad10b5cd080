// Command langdiff compares the translation files of several languages key by key.
//
//	langdiff check -root ./locales -primary en -fail-on error
//	langdiff flatten locales/en/translation.json
//	langdiff unflatten flat.json
//	langdiff serve
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, "langdiff:", err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "langdiff",
		Usage:     "compare translation trees across languages",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		// Errors are reported by main so tests can inspect them.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Commands: []*cli.Command{
			checkCommand(),
			flattenCommand(),
			unflattenCommand(),
			serveCommand(),
		},
	}
}
