package config

import (
	"strings"
	"time"

	"github.com/dmitrymomot/langdiff/pkg/logger"
	"github.com/dmitrymomot/langdiff/pkg/redis"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

// Source kinds.
const (
	SourceDir = "dir"
	SourceS3  = "s3"
)

// Cache drivers.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Compare CompareConfig `yaml:"compare"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	Reload  ReloadConfig  `yaml:"reload"`
	Log     logger.Config `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// SourceConfig selects where translation files are read from.
type SourceConfig struct {
	Kind        string   `yaml:"kind"        env:"SOURCE_KIND"        env-default:"dir"`
	Root        string   `yaml:"root"        env:"SOURCE_ROOT"        env-default:"./locales"`
	FilesRaw    string   `yaml:"files"       env:"SOURCE_FILES"       env-default:"translation.json"`
	Concurrency int      `yaml:"concurrency" env:"SOURCE_CONCURRENCY" env-default:"8"`
	S3          S3Config `yaml:"s3"`
}

// Files returns the comma-separated file names in order, skipping empty entries.
func (s SourceConfig) Files() []string {
	var names []string
	for name := range strings.SplitSeq(s.FilesRaw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []string{source.DefaultFileName}
	}
	return names
}

// S3Config holds bucket settings used when Kind is "s3".
type S3Config struct {
	Bucket    string `yaml:"bucket"     env:"S3_BUCKET"`
	Prefix    string `yaml:"prefix"     env:"S3_PREFIX"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Endpoint  string `yaml:"endpoint"   env:"S3_ENDPOINT"`
	Region    string `yaml:"region"     env:"S3_REGION"     env-default:"us-east-1"`
	PathStyle bool   `yaml:"path_style" env:"S3_PATH_STYLE"`
}

// CompareConfig holds comparison policy.
type CompareConfig struct {
	// Primary is the reference language. Empty selects the first loaded language.
	Primary        string `yaml:"primary"          env:"COMPARE_PRIMARY"`
	BlankAsMissing bool   `yaml:"blank_as_missing" env:"COMPARE_BLANK_AS_MISSING" env-default:"true"`
	KeepEmpty      bool   `yaml:"keep_empty"       env:"COMPARE_KEEP_EMPTY"`
	// SkipFailed leaves languages that failed to load out of classification.
	SkipFailed bool `yaml:"skip_failed" env:"COMPARE_SKIP_FAILED"`
}

// SearchConfig holds fuzzy search settings.
type SearchConfig struct {
	Threshold float64 `yaml:"threshold" env:"SEARCH_THRESHOLD" env-default:"0.3"`
}

// CacheConfig holds search result cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"      env:"CACHE_DRIVER"      env-default:"memory"`
	TTL        time.Duration `yaml:"ttl"         env:"CACHE_TTL"         env-default:"10m"`
	MaxEntries int           `yaml:"max_entries" env:"CACHE_MAX_ENTRIES" env-default:"1000"`
	Prefix     string        `yaml:"prefix"      env:"CACHE_PREFIX"      env-default:"langdiff:search"`
	Redis      redis.Config  `yaml:"redis"`
}

// ReloadConfig controls periodic re-reading of the source.
type ReloadConfig struct {
	// Schedule is a 5-field cron expression or a descriptor such as "@every 5m".
	// Empty disables scheduled reloads.
	Schedule string        `yaml:"schedule" env:"RELOAD_SCHEDULE"`
	Timeout  time.Duration `yaml:"timeout"  env:"RELOAD_TIMEOUT"  env-default:"30s"`
}
