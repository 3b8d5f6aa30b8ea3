package config

import (
	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - session.go: SSO session validation
//   - database.go: PostgreSQL and Redis configuration
//   - http.go: HTTP server configuration
//   - observability.go: logging and metrics
type AppConfig struct {
	// Environment is the deployment environment name. APP_ENV wins over
	// ENVIRONMENT when both are set; empty, "local" and "default" mean local.
	Environment    string `env:"APP_ENV"`
	EnvironmentAlt string `env:"ENVIRONMENT"`

	Session SessionConfig
	DevAuth DevAuthConfig

	Postgres DBConfig    `envPrefix:"POSTGRES_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// AutoMigrate applies embedded migrations before the server starts.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"false"`

	HTTP HTTPConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Session.Sanitize()
	c.Postgres.Sanitize()
	c.Redis.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// DeploymentMode resolves the effective deployment mode.
func (c *AppConfig) DeploymentMode() domainauth.Mode {
	return domainauth.ResolveMode(c.Environment, c.EnvironmentAlt)
}
