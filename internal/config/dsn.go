package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DSNValue returns the connection string for the configured driver.
// An explicit dsn always wins.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverMySQL:
		return c.mysqlDSN()
	case DriverPostgres:
		return c.postgresDSN()
	default:
		return c.sqliteDSN()
	}
}

func (c DatabaseRuntimeConfig) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Name
	mc.ParseTime = true
	if loc, err := time.LoadLocation(c.Loc); err == nil {
		mc.Loc = loc
	}
	mc.Params = map[string]string{"charset": c.Charset}
	for k, v := range c.Params {
		mc.Params[k] = v
	}
	return mc.FormatDSN()
}

func (c DatabaseRuntimeConfig) postgresDSN() string {
	params := neturl.Values{}
	for k, v := range c.Params {
		params.Set(k, v)
	}
	if params.Get("sslmode") == "" {
		params.Set("sslmode", c.SSLMode)
	}
	u := neturl.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: params.Encode(),
	}
	if c.Password != "" {
		u.User = neturl.UserPassword(c.User, c.Password)
	} else {
		u.User = neturl.User(c.User)
	}
	return u.String()
}

func (c DatabaseRuntimeConfig) sqliteDSN() string {
	path := c.Path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		path = ResolveRuntimePath(path, defaultSQLitePath)
	}
	params := neturl.Values{}
	for k, v := range c.Params {
		params.Set(k, v)
	}
	if params.Get("_foreign_keys") == "" {
		params.Set("_foreign_keys", "1")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

func (c DatabaseRuntimeConfig) validateDSN() error {
	if c.DSN == "" {
		return nil
	}
	switch c.Driver {
	case DriverMySQL:
		if _, err := mysql.ParseDSN(c.DSN); err != nil {
			return fmt.Errorf("database.dsn: %w", err)
		}
	case DriverPostgres:
		if !strings.HasPrefix(c.DSN, "postgres://") && !strings.HasPrefix(c.DSN, "postgresql://") && !strings.Contains(c.DSN, "=") {
			return fmt.Errorf("database.dsn: expected postgres URL or key=value DSN")
		}
	}
	return nil
}

// Enabled reports whether a Redis server is configured.
func (c RedisRuntimeConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// URLValue returns a redis:// URL, or "" when Redis is disabled.
func (c RedisRuntimeConfig) URLValue() string {
	if c.URL != "" {
		if strings.Contains(c.URL, "://") {
			return c.URL
		}
		return "redis://" + c.URL
	}
	if c.Host == "" {
		return ""
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	u := neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	if c.Username != "" || c.Password != "" {
		if c.Password != "" {
			u.User = neturl.UserPassword(c.Username, c.Password)
		} else {
			u.User = neturl.User(c.Username)
		}
	}
	return u.String()
}
