package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int
	Env            string
	Database       DatabaseRuntimeConfig
	Redis          RedisRuntimeConfig
	Storage        StorageConfig
	Paths          RuntimePathsConfig
	RateLimit      RateLimitConfig
	AllowedOrigins []string
	JWTSecret      string
	Timezone       string
	PageSize       int
	SessionTTLH    int

	// PageCacheSeconds caches anonymous pages in Redis; 0 disables it.
	PageCacheSeconds int

	// DSN and RedisURL are derived from Database and Redis by Load.
	DSN      string
	RedisURL string
}

type DatabaseRuntimeConfig struct {
	Driver   string            `yaml:"driver"`
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	SSLMode  string            `yaml:"sslmode"`
	Path     string            `yaml:"path"`
	Params   map[string]string `yaml:"params"`
}

// RedisRuntimeConfig is optional: with neither URL nor Host set, Redis is off.
type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type StorageConfig struct {
	Backend   string       `yaml:"backend"`
	MaxSizeMB int          `yaml:"max_size_mb"`
	S3        S3Options    `yaml:"s3"`
	MinIO     MinIOOptions `yaml:"minio"`
}

type S3Options struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	PublicURL       string `yaml:"public_url"`
}

type MinIOOptions struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

type RuntimePathsConfig struct {
	Logs  string `yaml:"logs"`
	Media string `yaml:"media"`
}

type RateLimitConfig struct {
	Max           int `yaml:"max"`
	WindowSeconds int `yaml:"window_seconds"`
}

type rawAppConfig struct {
	Port            int                `yaml:"port"`
	Env             string             `yaml:"env"`
	Database        rawDatabaseConfig  `yaml:"database"`
	Redis           rawRedisConfig     `yaml:"redis"`
	RedisURL        string             `yaml:"redis_url"`
	Storage         StorageConfig      `yaml:"storage"`
	Paths           RuntimePathsConfig `yaml:"paths"`
	MediaDir        string             `yaml:"media_dir"`
	LogDir          string             `yaml:"log_dir"`
	RateLimit       RateLimitConfig    `yaml:"rate_limit"`
	AllowedOrigins  []string           `yaml:"allowed_origins"`
	JWTSecret       string             `yaml:"jwt_secret"`
	Timezone        string             `yaml:"timezone"`
	TZ              string             `yaml:"tz"`
	PageSize        int                `yaml:"page_size"`
	SessionTTLHours int                `yaml:"session_ttl_hours"`
	PageCacheSecs   int                `yaml:"page_cache_seconds"`
}

type rawDatabaseConfig struct {
	Driver   string            `yaml:"driver"`
	DSN      string            `yaml:"dsn"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	DBName   string            `yaml:"db_name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	SSLMode  string            `yaml:"sslmode"`
	Path     string            `yaml:"path"`
	Params   map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

// envOverrides is filled from BLOGICUM_* variables and wins over the file.
type envOverrides struct {
	Port           int    `env:"PORT"`
	Env            string `env:"ENV"`
	DBDriver       string `env:"DB_DRIVER"`
	DBDSN          string `env:"DB_DSN"`
	RedisURL       string `env:"REDIS_URL"`
	JWTSecret      string `env:"JWT_SECRET"`
	StorageBackend string `env:"STORAGE_BACKEND"`
	MediaDir       string `env:"MEDIA_DIR"`
	LogDir         string `env:"LOG_DIR"`
}
