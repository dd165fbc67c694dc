package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "PACKFINDERZ"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "PACKFINDERZ_APP_ENV"
	EnvPort         = "PACKFINDERZ_APP_PORT"
	EnvLogLevel     = "PACKFINDERZ_LOG_LEVEL"
	EnvLogWarnStack = "PACKFINDERZ_LOG_WARN_STACK"
	EnvCORSOrigins  = "PACKFINDERZ_CORS_ALLOWED_ORIGINS"

	EnvCheckoutMode    = "PACKFINDERZ_CHECKOUT_MODE"
	EnvCheckoutDelay   = "PACKFINDERZ_CHECKOUT_DELAY"
	EnvCheckoutURL     = "PACKFINDERZ_CHECKOUT_URL"
	EnvCheckoutTimeout = "PACKFINDERZ_CHECKOUT_TIMEOUT"

	EnvRedisURL  = "PACKFINDERZ_REDIS_URL"
	EnvRedisAddr = "PACKFINDERZ_REDIS_ADDR"

	EnvGCPProjectID        = "PACKFINDERZ_GCP_PROJECT_ID"
	EnvPubSubCheckoutTopic = "PACKFINDERZ_PUBSUB_CHECKOUT_TOPIC"

	EnvCatalogFile = "PACKFINDERZ_CATALOG_FILE"
)
