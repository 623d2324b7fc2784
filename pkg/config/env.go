package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "SHADOW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SHADOW_DB_DSN"
	EnvDBHost = "SHADOW_DB_HOST"
	EnvDBUser = "SHADOW_DB_USER"
	EnvDBName = "SHADOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
