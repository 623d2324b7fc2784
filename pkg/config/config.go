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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	Catalog       CatalogConfig
	AuthRateLimit AuthRateLimitConfig
	GCS           GCSConfig
	Media         MediaConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SHADOW_APP_ENV" required:"true"`
	Port         string `envconfig:"SHADOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHADOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHADOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHADOW_DB_DSN"`
	Driver string `envconfig:"SHADOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHADOW_DB_HOST"`
	LegacyPort     int    `envconfig:"SHADOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHADOW_DB_USER"`
	LegacyPassword string `envconfig:"SHADOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHADOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHADOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHADOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHADOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHADOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHADOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHADOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHADOW_REDIS_ADDR"`
	Password     string        `envconfig:"SHADOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHADOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHADOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHADOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHADOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHADOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHADOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHADOW_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHADOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHADOW_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHADOW_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int           `envconfig:"SHADOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int           `envconfig:"SHADOW_ARGON_TIME" default:"3"`
	ArgonParallelism int           `envconfig:"SHADOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int           `envconfig:"SHADOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int           `envconfig:"SHADOW_ARGON_KEY_LEN" default:"32"`
	ResetTokenTTL    time.Duration `envconfig:"SHADOW_PASSWORD_RESET_TTL" default:"30m"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"SHADOW_CART_SESSION_TTL" default:"24h"`
}

type CheckoutConfig struct {
	// TaxRatePercent is the single canonical tax rate applied to the
	// discounted subtotal. The legacy storefront computed 8% while labeling
	// it 10%; 8% is the value orders were actually charged.
	TaxRatePercent string `envconfig:"SHADOW_CHECKOUT_TAX_RATE_PERCENT" default:"8"`

	// RevokeDiscountOnFailedApply replicates the legacy behavior where a
	// failed discount lookup also cleared an already-applied discount.
	RevokeDiscountOnFailedApply bool `envconfig:"SHADOW_CHECKOUT_REVOKE_DISCOUNT_ON_FAILED_APPLY" default:"false"`

	IdempotencyTTL time.Duration `envconfig:"SHADOW_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type CatalogConfig struct {
	NotifyChannel string `envconfig:"SHADOW_CATALOG_NOTIFY_CHANNEL" default:"shadow:catalog:changed"`
}

type GCSConfig struct {
	BucketName string `envconfig:"SHADOW_GCS_BUCKET_NAME" required:"true"`
	PublicHost string `envconfig:"SHADOW_GCS_PUBLIC_HOST" default:"https://storage.googleapis.com"`

	CredentialsJSON        string `envconfig:"SHADOW_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHADOW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type MediaConfig struct {
	MaxUploadMB int    `envconfig:"SHADOW_MAX_UPLOAD_MB" default:"10"`
	PathPrefix  string `envconfig:"SHADOW_MEDIA_PATH_PREFIX" default:"images"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SHADOW_AUTH_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"SHADOW_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"SHADOW_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`

	RegisterWindow     time.Duration `envconfig:"SHADOW_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"SHADOW_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"SHADOW_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"3"`

	ResetWindow     time.Duration `envconfig:"SHADOW_AUTH_RL_RESET_WINDOW" default:"1h"`
	ResetIPLimit    int           `envconfig:"SHADOW_AUTH_RL_RESET_IP_LIMIT" default:"10"`
	ResetEmailLimit int           `envconfig:"SHADOW_AUTH_RL_RESET_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHADOW_AUTO_MIGRATE" default:"false"`
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
