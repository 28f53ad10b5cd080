package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/langdiff/internal/config"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/logger"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

// loadConfig reads the config named by --config. Without the flag a missing
// ./langdiff.yaml falls back to environment variables and defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	return config.LoadFile(path, path != "")
}

// sourceFlags are shared by check and serve.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "directory holding one subdirectory per language"},
		&cli.StringSliceFlag{Name: "files", Usage: "translation file names tried in order in each language directory"},
		&cli.StringFlag{Name: "primary", Aliases: []string{"p"}, Usage: "primary language (default: first loaded language)"},
		&cli.BoolFlag{Name: "keep-empty", Usage: "keep empty objects and arrays as keys"},
	}
}

// applySourceFlags lets flags override the config file.
func applySourceFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("root") {
		cfg.Source.Kind = config.SourceDir
		cfg.Source.Root = cmd.String("root")
	}
	if cmd.IsSet("files") {
		cfg.Source.FilesRaw = strings.Join(cmd.StringSlice("files"), ",")
	}
	if cmd.IsSet("primary") {
		cfg.Compare.Primary = cmd.String("primary")
	}
	if cmd.IsSet("keep-empty") {
		cfg.Compare.KeepEmpty = cmd.Bool("keep-empty")
	}
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	return logger.New(w, cfg.Log, logger.RequestID())
}

func openSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceS3:
		return source.NewS3(source.S3Config{
			Bucket:    cfg.Source.S3.Bucket,
			Prefix:    cfg.Source.S3.Prefix,
			AccessKey: cfg.Source.S3.AccessKey,
			SecretKey: cfg.Source.S3.SecretKey,
			Endpoint:  cfg.Source.S3.Endpoint,
			Region:    cfg.Source.S3.Region,
			PathStyle: cfg.Source.S3.PathStyle,
			FileNames: cfg.Source.Files(),
		})
	case config.SourceDir:
		return source.OpenDir(cfg.Source.Root, source.WithFileNames(cfg.Source.Files()...))
	}
	return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}

func flattenOptions(cfg *config.Config) []keypath.Option {
	if cfg.Compare.KeepEmpty {
		return []keypath.Option{keypath.WithEmptyContainers(keypath.KeepEmpty)}
	}
	return nil
}

// validate re-checks the config after flags were applied.
func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	return nil
}
