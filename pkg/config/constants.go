package config

const (
	// EnvPrefix namespaces every environment variable consumed by envconfig.
	EnvPrefix = "OPENSTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "OPENSTORE_DB_DSN"
	EnvDBHost = "OPENSTORE_DB_HOST"
	EnvDBUser = "OPENSTORE_DB_USER"
	EnvDBName = "OPENSTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
