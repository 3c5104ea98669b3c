package config

// Environment variable names shared between Load and tests/tooling.
const (
	EnvAppEnv      = "TILLPOINT_APP_ENV"
	EnvPort        = "TILLPOINT_APP_PORT"
	EnvDBDSN       = "TILLPOINT_DB_DSN"
	EnvRedisURL    = "TILLPOINT_REDIS_URL"
	EnvJWTSecret   = "TILLPOINT_JWT_SECRET"
	EnvJWTIssuer   = "TILLPOINT_JWT_ISSUER"
	EnvGCPProject  = "TILLPOINT_GCP_PROJECT_ID"
	EnvOrdersTopic = "TILLPOINT_PUBSUB_ORDERS_TOPIC"
)
