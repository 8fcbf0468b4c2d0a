package config

const (
	EnvPrefix = "BENGKELHUB"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)
