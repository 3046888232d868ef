package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath, then applies .env and BLOGICUM_*
// overrides. A missing file at the default path yields the defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	raw := rawAppConfig{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := godotenv.Load(filepath.Join(filepath.Dir(path), ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var overrides envOverrides
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg := defaultAppConfig()
	applyRawAppConfig(&cfg, raw)
	applyEnvOverrides(&cfg, overrides)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:        defaultPort,
		Env:         defaultEnv,
		PageSize:    defaultPageSize,
		SessionTTLH: defaultSessionTTL,
		Database:    normalizeDatabaseConfig(DatabaseRuntimeConfig{Driver: defaultDBDriver}),
		Storage: StorageConfig{
			Backend:   defaultStorageBackend,
			MaxSizeMB: defaultMaxImageSizeMB,
		},
		RateLimit: RateLimitConfig{
			Max:           defaultRateLimitMax,
			WindowSeconds: defaultRateLimitWindow,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw.Database)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	if v := strings.TrimSpace(raw.Storage.Backend); v != "" {
		cfg.Storage.Backend = v
	}
	if raw.Storage.MaxSizeMB != 0 {
		cfg.Storage.MaxSizeMB = raw.Storage.MaxSizeMB
	}
	cfg.Storage.S3 = raw.Storage.S3
	cfg.Storage.MinIO = raw.Storage.MinIO

	cfg.Paths = raw.Paths
	if v := strings.TrimSpace(raw.MediaDir); v != "" {
		cfg.Paths.Media = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}

	if raw.RateLimit.Max != 0 {
		cfg.RateLimit.Max = raw.RateLimit.Max
	}
	if raw.RateLimit.WindowSeconds != 0 {
		cfg.RateLimit.WindowSeconds = raw.RateLimit.WindowSeconds
	}
	if raw.PageSize != 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.SessionTTLHours != 0 {
		cfg.SessionTTLH = raw.SessionTTLHours
	}
	cfg.PageCacheSeconds = raw.PageCacheSecs
	cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(raw.JWTSecret)
	cfg.Timezone = strings.TrimSpace(raw.Timezone)
	if v := strings.TrimSpace(raw.TZ); v != "" && cfg.Timezone == "" {
		cfg.Timezone = v
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Storage = normalizeStorageConfig(cfg.Storage)
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawDatabaseConfig) DatabaseRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Driver); v != "" && !strings.EqualFold(v, cfg.Driver) {
		// Switching driver drops the port default of the previous one.
		cfg.Driver = v
		cfg.Port = 0
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.User = v
	}
	if raw.Password != "" {
		cfg.Password = raw.Password
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		cfg.Charset = v
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		cfg.Loc = v
	}
	if v := strings.TrimSpace(raw.SSLMode); v != "" {
		cfg.SSLMode = v
	}
	if v := strings.TrimSpace(raw.Path); v != "" {
		cfg.Path = v
	}
	if raw.Params != nil {
		cfg.Params = copyStringMap(raw.Params)
	}

	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if raw.Redis.Password != "" {
		cfg.Password = raw.Redis.Password
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}

	return normalizeRedisConfig(cfg)
}

func applyEnvOverrides(cfg *AppConfig, o envOverrides) {
	if o.Port != 0 {
		cfg.Port = o.Port
	}
	if v := strings.TrimSpace(o.Env); v != "" {
		cfg.Env = normalizeEnv(v)
	}
	if v := strings.TrimSpace(o.DBDriver); v != "" || strings.TrimSpace(o.DBDSN) != "" {
		cfg.Database = applyRawDatabaseConfig(cfg.Database, rawDatabaseConfig{Driver: v, DSN: o.DBDSN})
	}
	if v := strings.TrimSpace(o.RedisURL); v != "" {
		cfg.Redis = normalizeRedisConfig(RedisRuntimeConfig{URL: v})
	}
	if v := strings.TrimSpace(o.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(o.StorageBackend); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.MediaDir); v != "" {
		cfg.Paths.Media = v
	}
	if v := strings.TrimSpace(o.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("database.port %d out of range 1-65535", c.Database.Port)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if err := c.Database.validateDSN(); err != nil {
		return err
	}
	if c.Redis.Enabled() && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("redis.port %d out of range 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db %d must be >= 0", c.Redis.DB)
	}
	switch c.Storage.Backend {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "" {
			return errors.New("storage.s3 requires bucket and region")
		}
	case StorageMinIO:
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "" {
			return errors.New("storage.minio requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("unsupported storage.backend %q", c.Storage.Backend)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page_size %d out of range 1-100", c.PageSize)
	}
	if c.SessionTTLH < 1 {
		return fmt.Errorf("session_ttl_hours %d must be positive", c.SessionTTLH)
	}
	if c.RateLimit.Max < 1 || c.RateLimit.WindowSeconds < 1 {
		return errors.New("rate_limit.max and rate_limit.window_seconds must be positive")
	}
	if c.PageCacheSeconds < 0 {
		return fmt.Errorf("page_cache_seconds %d must be >= 0", c.PageCacheSeconds)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogSubdir)
}

func (c *AppConfig) MediaDir() string {
	return ResolveRuntimePath(c.Paths.Media, defaultMediaSubdir)
}
