package config

// EnvPrefix scopes every environment variable consumed by the platform.
const EnvPrefix = "LOOPCYCLE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "LOOPCYCLE_APP_ENV"
	EnvDBDSN  = "LOOPCYCLE_DB_DSN"
	EnvDBHost = "LOOPCYCLE_DB_HOST"
	EnvDBUser = "LOOPCYCLE_DB_USER"
	EnvDBName = "LOOPCYCLE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
