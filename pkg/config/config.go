package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Calendar      CalendarConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvTimezone, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POPMAKEUP_APP_ENV" required:"true"`
	Port         string `envconfig:"POPMAKEUP_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"POPMAKEUP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POPMAKEUP_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"POPMAKEUP_APP_TIMEZONE" default:"Local"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the timezone used to compute "today".
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

type DBConfig struct {
	DSN    string `envconfig:"POPMAKEUP_DB_DSN"`
	Driver string `envconfig:"POPMAKEUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POPMAKEUP_DB_HOST"`
	LegacyPort     int    `envconfig:"POPMAKEUP_DB_PORT"`
	LegacyUser     string `envconfig:"POPMAKEUP_DB_USER"`
	LegacyPassword string `envconfig:"POPMAKEUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"POPMAKEUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"POPMAKEUP_DB_SSLMODE" default:"disable"`
	SSLCAPath      string `envconfig:"POPMAKEUP_DB_SSL_CA"`

	MaxOpenConns    int           `envconfig:"POPMAKEUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POPMAKEUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POPMAKEUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POPMAKEUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver returns the lower-cased driver name, defaulting to postgres.
func (db DBConfig) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	if driver == "" {
		return DriverPostgres
	}
	return driver
}

type RedisConfig struct {
	URL          string        `envconfig:"POPMAKEUP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POPMAKEUP_REDIS_ADDR"`
	Password     string        `envconfig:"POPMAKEUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"POPMAKEUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POPMAKEUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POPMAKEUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POPMAKEUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POPMAKEUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POPMAKEUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POPMAKEUP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POPMAKEUP_JWT_ISSUER" default:"popmakeup"`
	ExpirationMinutes      int    `envconfig:"POPMAKEUP_JWT_EXPIRATION_MINUTES" default:"15"`
	RefreshTokenTTLMinutes int    `envconfig:"POPMAKEUP_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POPMAKEUP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POPMAKEUP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POPMAKEUP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POPMAKEUP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POPMAKEUP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"POPMAKEUP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit int           `envconfig:"POPMAKEUP_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"POPMAKEUP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"POPMAKEUP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"POPMAKEUP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"POPMAKEUP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"POPMAKEUP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:8000,http://127.0.0.1:8001"`
	FrontServer    string   `envconfig:"FRONT_SERVER"`
}

// Origins merges the configured list with the optional front server origin.
func (c CORSConfig) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	seen := map[string]struct{}{}
	add := func(origin string) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			return
		}
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	for _, origin := range c.AllowedOrigins {
		add(origin)
	}
	add(c.FrontServer)
	return origins
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POPMAKEUP_AUTO_MIGRATE" default:"false"`
}

type CalendarConfig struct {
	DaysAhead    int           `envconfig:"POPMAKEUP_CALENDAR_DAYS_AHEAD" default:"60"`
	DaysBehind   int           `envconfig:"POPMAKEUP_CALENDAR_DAYS_BEHIND" default:"7"`
	CronInterval time.Duration `envconfig:"POPMAKEUP_CRON_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	driver := db.NormalizedDriver()
	if driver == DriverSQLite {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	switch driver {
	case DriverMySQL:
		db.DSN = db.mysqlDSN()
	case DriverPostgres:
		db.DSN = db.postgresDSN()
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

func (db *DBConfig) postgresDSN() string {
	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	port := db.LegacyPort
	if port == 0 {
		port = 5432
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, port),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	return u.String()
}

func (db *DBConfig) mysqlDSN() string {
	host := db.LegacyHost
	if db.LegacyPort != 0 {
		host = net.JoinHostPort(db.LegacyHost, strconv.Itoa(db.LegacyPort))
	} else if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(db.LegacyHost, "3306")
	}

	mc := mysql.NewConfig()
	mc.User = db.LegacyUser
	mc.Passwd = db.LegacyPassword
	mc.Net = "tcp"
	mc.Addr = host
	mc.DBName = db.LegacyName
	mc.ParseTime = true
	mc.Loc = time.UTC
	if db.SSLCAPath != "" {
		mc.TLSConfig = MySQLTLSConfigName
	}
	return mc.FormatDSN()
}
