package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "XB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "XB_DB_DSN"
	EnvDBHost = "XB_DB_HOST"
	EnvDBUser = "XB_DB_USER"
	EnvDBName = "XB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
