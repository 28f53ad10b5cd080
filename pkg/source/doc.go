// Package source reads translation documents from a directory tree or an S3 bucket.
//
// Both layouts are the same: every top-level directory (or key prefix) names a language and
// holds a translation.json file.
//
//	src := source.NewDir(os.DirFS("./locales"))
//	langs, err := source.Load(ctx, src, source.WithLogger(log))
//	if err != nil {
//		return err // only listing failures end up here
//	}
//	for _, l := range langs {
//		if l.Failed() {
//			log.Warn("skipped", "language", l.Name, "error", l.Err)
//		}
//	}
//
// Load reads languages concurrently and records per-language failures on the returned
// compare.Language instead of failing the whole load.
package source
