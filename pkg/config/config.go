package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TOWNKART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TOWNKART_DB_DSN"
	EnvDBHost = "TOWNKART_DB_HOST"
	EnvDBUser = "TOWNKART_DB_USER"
	EnvDBName = "TOWNKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Dispatch      DispatchConfig
	Worker        WorkerConfig
	FeatureFlags  FeatureFlagsConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TOWNKART_APP_ENV" required:"true"`
	Port         string `envconfig:"TOWNKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TOWNKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TOWNKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TOWNKART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TOWNKART_DB_DSN"`
	Driver string `envconfig:"TOWNKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TOWNKART_DB_HOST"`
	LegacyPort     int    `envconfig:"TOWNKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TOWNKART_DB_USER"`
	LegacyPassword string `envconfig:"TOWNKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"TOWNKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"TOWNKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TOWNKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TOWNKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TOWNKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TOWNKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TOWNKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TOWNKART_REDIS_ADDR"`
	Password     string        `envconfig:"TOWNKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"TOWNKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TOWNKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TOWNKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TOWNKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TOWNKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TOWNKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TOWNKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TOWNKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TOWNKART_JWT_EXPIRATION_MINUTES" required:"true"`

	RefreshTokenTTLMinutes int `envconfig:"TOWNKART_JWT_REFRESH_TTL_MINUTES" default:"20160"`
}

// RefreshTokenTTL returns the refresh session lifetime.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TOWNKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TOWNKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TOWNKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TOWNKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TOWNKART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TOWNKART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TOWNKART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TOWNKART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TOWNKART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TOWNKART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TOWNKART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"TOWNKART_GOOGLE_MAPS_API_KEY"`
}

// DispatchConfig tunes partner selection and assignment economics.
type DispatchConfig struct {
	DefaultDeliveryFee  float64       `envconfig:"TOWNKART_DISPATCH_DEFAULT_DELIVERY_FEE" default:"50"`
	CommissionRate      float64       `envconfig:"TOWNKART_DISPATCH_COMMISSION_RATE" default:"0.8"`
	DefaultRadiusKm     float64       `envconfig:"TOWNKART_DISPATCH_DEFAULT_RADIUS_KM" default:"10"`
	DefaultDistanceKm   float64       `envconfig:"TOWNKART_DISPATCH_DEFAULT_DISTANCE_KM" default:"5"`
	FallbackPickupAge   time.Duration `envconfig:"TOWNKART_DISPATCH_FALLBACK_PICKUP_AGE" default:"15m"`
	SelectionRetries    int           `envconfig:"TOWNKART_DISPATCH_SELECTION_RETRIES" default:"3"`
	LockStripes         int           `envconfig:"TOWNKART_DISPATCH_LOCK_STRIPES" default:"64"`
	RecentActivityShort time.Duration `envconfig:"TOWNKART_DISPATCH_RECENT_ACTIVITY_SHORT" default:"5m"`
	RecentActivityLong  time.Duration `envconfig:"TOWNKART_DISPATCH_RECENT_ACTIVITY_LONG" default:"15m"`
}

// WorkerConfig tunes the background retry loop for unassigned orders.
type WorkerConfig struct {
	RetryInterval     time.Duration `envconfig:"TOWNKART_WORKER_RETRY_INTERVAL" default:"1m"`
	RetryMaxAttempts  int           `envconfig:"TOWNKART_WORKER_RETRY_MAX_ATTEMPTS" default:"5"`
	RetryLookbackAge  time.Duration `envconfig:"TOWNKART_WORKER_RETRY_LOOKBACK_AGE" default:"30m"`
	CronLockTTL       time.Duration `envconfig:"TOWNKART_WORKER_CRON_LOCK_TTL" default:"50s"`
	ShutdownGracetime time.Duration `envconfig:"TOWNKART_WORKER_SHUTDOWN_GRACETIME" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TOWNKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TOWNKART_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TOWNKART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TOWNKART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TOWNKART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"TOWNKART_PUBSUB_NOTIFICATION_TOPIC" default:"tk-notification-events"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
