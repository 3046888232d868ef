package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func writeConfig(c *qt.C, body string) string {
	c.Helper()
	path := filepath.Join(c.TempDir(), "config.yml")
	c.Assert(os.WriteFile(path, []byte(body), 0o600), qt.IsNil)
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := Load(writeConfig(c, ""))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, defaultPort)
	c.Assert(cfg.Env, qt.Equals, "development")
	c.Assert(cfg.IsDev(), qt.IsTrue)
	c.Assert(cfg.Database.Driver, qt.Equals, DriverSQLite)
	c.Assert(cfg.PageSize, qt.Equals, 10)
	c.Assert(cfg.Storage.Backend, qt.Equals, StorageLocal)
	c.Assert(cfg.Redis.Enabled(), qt.IsFalse)
	c.Assert(cfg.RedisURL, qt.Equals, "")
}

func TestLoadMySQL(t *testing.T) {
	c := qt.New(t)

	cfg, err := Load(writeConfig(c, `
port: 9000
env: production
database:
  driver: mysql
  host: db.internal
  username: blog
  password: s3cret
  db_name: blog
redis:
  host: cache.internal
  db: 2
`))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, 9000)
	c.Assert(cfg.IsDev(), qt.IsFalse)
	c.Assert(cfg.Database.Port, qt.Equals, defaultMySQLPort)
	c.Assert(cfg.DSN, qt.Contains, "blog:s3cret@tcp(db.internal:3306)/blog")
	c.Assert(cfg.DSN, qt.Contains, "parseTime=true")
	c.Assert(cfg.DSN, qt.Contains, "charset=utf8mb4")
	c.Assert(cfg.RedisURL, qt.Equals, "redis://cache.internal:6379/2")
}

func TestLoadPostgres(t *testing.T) {
	c := qt.New(t)

	cfg, err := Load(writeConfig(c, `
database:
  driver: postgresql
  user: blog
  name: posts
`))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Database.Driver, qt.Equals, DriverPostgres)
	c.Assert(cfg.DSN, qt.Equals, "postgres://blog@127.0.0.1:5432/posts?sslmode=disable")
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "port out of range", body: "port: 70000"},
		{name: "unknown driver", body: "database:\n  driver: oracle"},
		{name: "unknown key", body: "porrt: 80"},
		{name: "s3 without bucket", body: "storage:\n  backend: s3"},
		{name: "page size too big", body: "page_size: 500"},
		{name: "bad mysql dsn", body: "database:\n  driver: mysql\n  dsn: \"not a dsn\""},
		{name: "unknown timezone", body: "timezone: Mars/Olympus"},
		{name: "negative page cache", body: "page_cache_seconds: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			_, err := Load(writeConfig(c, tt.body))
			c.Assert(err, qt.IsNotNil)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	c := qt.New(t)

	_, err := Load(filepath.Join(c.TempDir(), "nope.yml"))
	c.Assert(err, qt.ErrorMatches, `read config file .*`)
}

func TestEnvOverrides(t *testing.T) {
	c := qt.New(t)
	c.Setenv("BLOGICUM_PORT", "8081")
	c.Setenv("BLOGICUM_DB_DRIVER", "mysql")
	c.Setenv("BLOGICUM_DB_DSN", "u:p@tcp(localhost:3306)/x?parseTime=true")
	c.Setenv("BLOGICUM_REDIS_URL", "localhost:6380")
	c.Setenv("BLOGICUM_STORAGE_BACKEND", "LOCAL")

	cfg, err := Load(writeConfig(c, "port: 9000"))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, 8081)
	c.Assert(cfg.Database.Driver, qt.Equals, DriverMySQL)
	c.Assert(cfg.DSN, qt.Equals, "u:p@tcp(localhost:3306)/x?parseTime=true")
	c.Assert(cfg.RedisURL, qt.Equals, "redis://localhost:6380")
	c.Assert(cfg.Storage.Backend, qt.Equals, StorageLocal)
}

func TestDotEnvNextToConfig(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	c.Assert(os.WriteFile(filepath.Join(dir, ".env"), []byte("BLOGICUM_JWT_SECRET=from-dotenv\n"), 0o600), qt.IsNil)
	path := filepath.Join(dir, "config.yml")
	c.Assert(os.WriteFile(path, []byte("jwt_secret: from-file\n"), 0o600), qt.IsNil)
	c.Cleanup(func() { os.Unsetenv("BLOGICUM_JWT_SECRET") })

	cfg, err := Load(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.JWTSecret, qt.Equals, "from-dotenv")
}

func TestSQLiteDSN(t *testing.T) {
	c := qt.New(t)

	dsn := DatabaseRuntimeConfig{Driver: DriverSQLite, Path: "/var/lib/blog.db"}.DSNValue()
	c.Assert(dsn, qt.Equals, "/var/lib/blog.db?_foreign_keys=1")
}

func TestLocation(t *testing.T) {
	tests := map[string]struct {
		tz     string
		offset int
	}{
		"empty is utc": {"", 0},
		"iana zone":    {"Europe/Moscow", 3 * 3600},
		"fixed offset": {"-05:30", -(5*3600 + 30*60)},
	}
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &AppConfig{Timezone: tt.tz}
			loc, err := cfg.Location()
			qt.Assert(t, err, qt.IsNil)
			_, offset := at.In(loc).Zone()
			qt.Assert(t, offset, qt.Equals, tt.offset)
		})
	}
}
