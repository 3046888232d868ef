package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// EnvPrefix namespaces environment overrides, e.g. BLOGICUM_PORT.
	EnvPrefix = "BLOGICUM_"

	defaultPort       = 8000
	defaultEnv        = "development"
	defaultPageSize   = 10
	defaultSessionTTL = 30 * 24 // hours

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultDBDriver   = DriverSQLite
	defaultDBHost     = "127.0.0.1"
	defaultMySQLPort  = 3306
	defaultPGPort     = 5432
	defaultDBUser     = "blogicum"
	defaultDBName     = "blogicum"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "UTC"
	defaultPGSSLMode  = "disable"
	defaultSQLitePath = "blogicum.db"

	defaultRedisPort = 6379

	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinIO = "minio"

	defaultStorageBackend = StorageLocal
	defaultMaxImageSizeMB = 5
	defaultMediaSubdir    = "media"
	defaultLogSubdir      = "logs"

	defaultRateLimitMax    = 10
	defaultRateLimitWindow = 60 // seconds
)
