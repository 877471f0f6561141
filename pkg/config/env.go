package config

const EnvPrefix = "POPMAKEUP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// MySQLTLSConfigName is the key the CA bundle is registered under with the mysql driver.
const MySQLTLSConfigName = "popmakeup"

const (
	EnvAppEnv    = "POPMAKEUP_APP_ENV"
	EnvPort      = "POPMAKEUP_APP_PORT"
	EnvTimezone  = "POPMAKEUP_APP_TIMEZONE"
	EnvDBDSN     = "POPMAKEUP_DB_DSN"
	EnvDBDriver  = "POPMAKEUP_DB_DRIVER"
	EnvDBHost    = "POPMAKEUP_DB_HOST"
	EnvDBPort    = "POPMAKEUP_DB_PORT"
	EnvDBUser    = "POPMAKEUP_DB_USER"
	EnvDBPass    = "POPMAKEUP_DB_PASSWORD"
	EnvDBName    = "POPMAKEUP_DB_NAME"
	EnvDBSSLCA   = "POPMAKEUP_DB_SSL_CA"
	EnvRedisURL  = "POPMAKEUP_REDIS_URL"
	EnvJWTSecret = "POPMAKEUP_JWT_SECRET"
	EnvJWTIssuer = "POPMAKEUP_JWT_ISSUER"
	EnvJWTExp    = "POPMAKEUP_JWT_EXPIRATION_MINUTES"
	EnvCORS      = "POPMAKEUP_CORS_ALLOWED_ORIGINS"
	EnvFront     = "FRONT_SERVER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
