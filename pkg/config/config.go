package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	FeatureFlags  FeatureFlagsConfig
	Assignments   AssignmentsConfig
	Notifications NotificationsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"LOOPCYCLE_APP_ENV" required:"true"`
	Port         string `envconfig:"LOOPCYCLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOOPCYCLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOOPCYCLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LOOPCYCLE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LOOPCYCLE_DB_DSN"`
	Driver string `envconfig:"LOOPCYCLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LOOPCYCLE_DB_HOST"`
	LegacyPort     int    `envconfig:"LOOPCYCLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOOPCYCLE_DB_USER"`
	LegacyPassword string `envconfig:"LOOPCYCLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOOPCYCLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOOPCYCLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOOPCYCLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOOPCYCLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOOPCYCLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOOPCYCLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOOPCYCLE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LOOPCYCLE_REDIS_ADDR"`
	Password     string        `envconfig:"LOOPCYCLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOOPCYCLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOOPCYCLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOOPCYCLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOOPCYCLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOOPCYCLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOOPCYCLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LOOPCYCLE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LOOPCYCLE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LOOPCYCLE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LOOPCYCLE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LOOPCYCLE_AUTO_MIGRATE" default:"false"`
}

type AssignmentsConfig struct {
	// ReminderAge is how long an assignment may sit unanswered before the
	// cron worker re-notifies the driver.
	ReminderAge time.Duration `envconfig:"LOOPCYCLE_ASSIGNMENT_REMINDER_AGE" default:"2h"`
}

type NotificationsConfig struct {
	RetentionDays int `envconfig:"LOOPCYCLE_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"LOOPCYCLE_CRON_INTERVAL" default:"1h"`
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
