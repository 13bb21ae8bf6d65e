package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry explicit
	// CARBONLEDGER_ names so the prefix stays informational.
	EnvPrefix = "CARBONLEDGER"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "CARBONLEDGER_APP_ENV"
	EnvPort   = "CARBONLEDGER_APP_PORT"

	EnvDBDSN  = "CARBONLEDGER_DB_DSN"
	EnvDBHost = "CARBONLEDGER_DB_HOST"
	EnvDBUser = "CARBONLEDGER_DB_USER"
	EnvDBName = "CARBONLEDGER_DB_NAME"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
