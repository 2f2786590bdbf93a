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
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Geo           GeoConfig
	Location      LocationConfig
	Checkout      CheckoutConfig
	Storefront    StorefrontConfig
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
	Env          string `envconfig:"KIRANAKART_APP_ENV" required:"true"`
	Port         string `envconfig:"KIRANAKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KIRANAKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIRANAKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KIRANAKART_DB_DSN"`
	Driver string `envconfig:"KIRANAKART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"KIRANAKART_DB_HOST"`
	Port     int    `envconfig:"KIRANAKART_DB_PORT" default:"5432"`
	User     string `envconfig:"KIRANAKART_DB_USER"`
	Password string `envconfig:"KIRANAKART_DB_PASSWORD"`
	Name     string `envconfig:"KIRANAKART_DB_NAME"`
	SSLMode  string `envconfig:"KIRANAKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIRANAKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIRANAKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIRANAKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIRANAKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIRANAKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KIRANAKART_REDIS_ADDR"`
	Password     string        `envconfig:"KIRANAKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIRANAKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIRANAKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIRANAKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIRANAKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIRANAKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIRANAKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KIRANAKART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KIRANAKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KIRANAKART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KIRANAKART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"KIRANAKART_PASSWORD_MIN_LENGTH" default:"8"`
	ArgonMemoryKB    int `envconfig:"KIRANAKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KIRANAKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KIRANAKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KIRANAKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KIRANAKART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KIRANAKART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KIRANAKART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KIRANAKART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KIRANAKART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KIRANAKART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KIRANAKART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KIRANAKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KIRANAKART_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"KIRANAKART_SEED_CATALOG" default:"false"`
}

type GeoConfig struct {
	BigDataCloudBaseURL string        `envconfig:"KIRANAKART_GEO_BDC_BASE_URL" default:"https://api.bigdatacloud.net"`
	NominatimBaseURL    string        `envconfig:"KIRANAKART_GEO_NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent  string        `envconfig:"KIRANAKART_GEO_NOMINATIM_USER_AGENT" default:"kiranakart-backend"`
	RequestTimeout      time.Duration `envconfig:"KIRANAKART_GEO_REQUEST_TIMEOUT" default:"6s"`
}

type LocationConfig struct {
	ServiceAreas      []string      `envconfig:"KIRANAKART_LOCATION_SERVICE_AREAS" default:"Ramagiri,Kalyandurg,Anantapur"`
	AcquisitionTimeout time.Duration `envconfig:"KIRANAKART_LOCATION_ACQUISITION_TIMEOUT" default:"10s"`
	MaxFixAge          time.Duration `envconfig:"KIRANAKART_LOCATION_MAX_FIX_AGE" default:"1m"`
}

type CheckoutConfig struct {
	PlatformFee string `envconfig:"KIRANAKART_CHECKOUT_PLATFORM_FEE" default:"5.00"`
	DeliveryFee string `envconfig:"KIRANAKART_CHECKOUT_DELIVERY_FEE" default:"0.00"`
	Currency    string `envconfig:"KIRANAKART_CHECKOUT_CURRENCY" default:"INR"`
}

type StorefrontConfig struct {
	SessionIdleTTL time.Duration `envconfig:"KIRANAKART_STOREFRONT_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval  time.Duration `envconfig:"KIRANAKART_STOREFRONT_SWEEP_INTERVAL" default:"10m"`
	BlobTTL        time.Duration `envconfig:"KIRANAKART_STOREFRONT_BLOB_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
