package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langdiff/internal/config"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "langdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  shutdown_timeout: "5s"

source:
  kind: dir
  root: ./testdata/locales
  files: "translation.json, translation.yaml"

compare:
  primary: en

search:
  threshold: 0.4

cache:
  driver: redis
  ttl: "1m"
  redis:
    url: "redis://localhost:6379/0"

reload:
  schedule: "@every 5m"

log:
  level: debug
  format: text
`

func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)

	require.Equal(t, config.SourceDir, cfg.Source.Kind)
	require.Equal(t, []string{"translation.json", "translation.yaml"}, cfg.Source.Files())
	require.Equal(t, 8, cfg.Source.Concurrency)

	require.Equal(t, "en", cfg.Compare.Primary)
	require.True(t, cfg.Compare.BlankAsMissing)
	require.InDelta(t, 0.4, cfg.Search.Threshold, 1e-9)

	require.Equal(t, config.CacheRedis, cfg.Cache.Driver)
	require.Equal(t, time.Minute, cfg.Cache.TTL)
	require.Equal(t, 10, cfg.Cache.Redis.PoolSize)

	require.Equal(t, "@every 5m", cfg.Reload.Schedule)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("COMPARE_PRIMARY", "fr")
	t.Setenv("COMPARE_SKIP_FAILED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "fr", cfg.Compare.Primary)
	require.True(t, cfg.Compare.SkipFailed)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, config.SourceDir, cfg.Source.Kind)
	require.Equal(t, "./locales", cfg.Source.Root)
	require.Equal(t, []string{"translation.json"}, cfg.Source.Files())
	require.True(t, cfg.Compare.BlankAsMissing)
	require.False(t, cfg.Compare.KeepEmpty)
	require.False(t, cfg.Compare.SkipFailed)
	require.InDelta(t, 0.3, cfg.Search.Threshold, 1e-9)
	require.Equal(t, config.CacheMemory, cfg.Cache.Driver)
	require.Equal(t, 1000, cfg.Cache.MaxEntries)
	require.Empty(t, cfg.Reload.Schedule)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "config: file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown source kind", map[string]string{"SOURCE_KIND": "ftp"}, "kind must be dir or s3"},
		{"s3 without bucket", map[string]string{"SOURCE_KIND": "s3"}, "s3.bucket is required"},
		{"s3 without credentials", map[string]string{"SOURCE_KIND": "s3", "S3_BUCKET": "b"}, "access key"},
		{"threshold out of range", map[string]string{"SEARCH_THRESHOLD": "1.5"}, "search.threshold"},
		{"unknown cache driver", map[string]string{"CACHE_DRIVER": "disk"}, "driver must be"},
		{"redis without url", map[string]string{"CACHE_DRIVER": "redis"}, "redis.url is required"},
		{"bad schedule", map[string]string{"RELOAD_SCHEDULE": "every day"}, "reload.schedule"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "log"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "log.format"},
		{"bad port", map[string]string{"SERVER_PORT": "70000"}, "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("CONFIG_PATH", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ErrInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CACHE_DRIVER", "disk")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestParseSchedule(t *testing.T) {
	t.Parallel()

	sched, err := config.ParseSchedule("*/5 * * * *")
	require.NoError(t, err)

	from := time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC), sched.Next(from))

	_, err = config.ParseSchedule("* * *")
	require.Error(t, err)
}
