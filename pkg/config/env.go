package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:storefront.db?_foreign_keys=on"
)

const (
	EnvAppEnv    = "STOREFRONT_APP_ENV"
	EnvPort      = "STOREFRONT_APP_PORT"
	EnvDBDSN     = "STOREFRONT_DB_DSN"
	EnvDBHost    = "STOREFRONT_DB_HOST"
	EnvDBUser    = "STOREFRONT_DB_USER"
	EnvDBName    = "STOREFRONT_DB_NAME"
	EnvUseSQLite = "STOREFRONT_USE_SQLITE"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvPricingBaseFee     = "STOREFRONT_PRICING_BASE_DELIVERY_FEE"
	EnvPricingExpress     = "STOREFRONT_PRICING_EXPRESS_SURCHARGE"
	EnvPricingThermalBag  = "STOREFRONT_PRICING_THERMAL_BAG_FEE"
	EnvPricingPostalTiers = "STOREFRONT_PRICING_POSTAL_TIERS"

	EnvSendgridAPIKey = "STOREFRONT_SENDGRID_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
