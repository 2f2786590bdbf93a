package config

// EnvPrefix namespaces every environment variable consumed by envconfig.
const EnvPrefix = "KIRANAKART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced directly in error messages and tests.
const (
	EnvAppEnv                 = "KIRANAKART_APP_ENV"
	EnvPort                   = "KIRANAKART_APP_PORT"
	EnvDBDSN                  = "KIRANAKART_DB_DSN"
	EnvDBHost                 = "KIRANAKART_DB_HOST"
	EnvDBUser                 = "KIRANAKART_DB_USER"
	EnvDBName                 = "KIRANAKART_DB_NAME"
	EnvRedisURL               = "KIRANAKART_REDIS_URL"
	EnvJWTSecret              = "KIRANAKART_JWT_SECRET"
	EnvJWTIssuer              = "KIRANAKART_JWT_ISSUER"
	EnvJWTExpMins             = "KIRANAKART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "KIRANAKART_REFRESH_TOKEN_TTL_MINUTES"
	EnvServiceAreas           = "KIRANAKART_LOCATION_SERVICE_AREAS"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
