package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/officeplus/faq-api/config"
	"github.com/officeplus/faq-api/internal/adapters/devauth"
	redisadapter "github.com/officeplus/faq-api/internal/adapters/redis"
	"github.com/officeplus/faq-api/internal/core"
	"github.com/officeplus/faq-api/internal/data"
	httpx "github.com/officeplus/faq-api/internal/http"
	"github.com/officeplus/faq-api/internal/observability/metrics"
	"github.com/officeplus/faq-api/internal/observability/statsd"
	"github.com/officeplus/faq-api/internal/ports"
	"github.com/officeplus/faq-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	FAQs     *service.FAQService
	Tags     *service.TagService
	Feedback *service.FeedbackService
	Status   core.StatusRepository

	Sessions      ports.SessionStore
	Validator     *service.SessionValidator
	Authenticator *httpx.Authenticator

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	SessionMetrics *metrics.SessionMetrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *pgxpool.Pool
	Redis  redisadapter.ClientSource
	// Refresher is usually the same ClientHandle as Redis.
	Refresher ports.PoolRefresher
	Logger    *slog.Logger
}

// BuildObservability creates the statsd sink. A dial failure is logged and
// metrics are dropped.
func BuildObservability(logger *slog.Logger, cfg config.ObservabilityConfig, mode string) ObservabilityContainer {
	if logger == nil {
		logger = slog.Default()
	}
	var sink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled:    true,
			Address:    cfg.Metrics.StatsdAddress,
			Prefix:     cfg.Metrics.Prefix,
			Logger:     logger,
			GlobalTags: map[string]string{"env": mode},
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			sink = client
		}
	}
	obs := ObservabilityContainer{MetricsSink: sink, SessionMetrics: &metrics.SessionMetrics{}}
	if sink != nil {
		obs.SessionMetrics.Sink = sink
	}
	return obs
}

// NewSessionServices builds the session store, validator and authenticator.
// They depend only on Redis, so the admin CLI can use them without Postgres.
func NewSessionServices(deps *ServiceDeps, obs ObservabilityContainer) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var out ServiceContainer
	out.Observability = obs

	store := redisadapter.NewSessionStore(deps.Redis)
	validator, err := service.NewSessionValidator(service.SessionValidatorOptions{
		Store:       store,
		Refresher:   deps.Refresher,
		TTL:         cfg.Session.TTL,
		MaxAttempts: cfg.Session.ValidateAttempts,
		BaseDelay:   cfg.Session.RetryBaseDelay,
		Metrics:     obs.SessionMetrics,
		Logger:      logger,
	})
	if err != nil {
		return out, fmt.Errorf("build session validator: %w", err)
	}

	auth, err := BuildAuthenticator(cfg, validator, obs.SessionMetrics, logger)
	if err != nil {
		return out, err
	}

	out.Sessions = store
	out.Validator = validator
	out.Authenticator = auth
	return out, nil
}

// BuildAuthenticator wires the session middleware for the configured mode.
// Only local mode receives a development identity policy.
func BuildAuthenticator(
	cfg *config.AppConfig,
	validator ports.SessionValidator,
	m *metrics.SessionMetrics,
	logger *slog.Logger,
) (*httpx.Authenticator, error) {
	mode := cfg.DeploymentMode()
	var policy *devauth.Policy
	if mode.IsLocal() {
		p, err := devauth.NewPolicy(mode, devauth.Config{
			SubjectID:      cfg.DevAuth.SubjectID,
			DisplayName:    cfg.DevAuth.DisplayName,
			DepartmentCode: cfg.DevAuth.DepartmentCode,
			DepartmentName: cfg.DevAuth.DepartmentName,
			OrgCode:        cfg.DevAuth.OrgCode,
			TitleName:      cfg.DevAuth.TitleName,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth policy: %w", err)
		}
		policy = p
		if logger != nil {
			id, _ := p.Identity()
			logger.Warn("local mode: requests without a valid session use the development identity",
				"subject", id.SubjectID)
		}
	}
	auth, err := httpx.NewAuthenticator(httpx.AuthenticatorOptions{
		Mode:            mode,
		Validator:       validator,
		Policy:          policy,
		Exemptions:      httpx.NewExemptions(cfg.HTTP.APIPrefix),
		Cookie:          httpx.CookieSpec{Name: cfg.Session.CookieName, KeyPrefix: cfg.Session.KeyPrefix},
		RecheckAttempts: cfg.Session.RecheckAttempts,
		RecheckDelay:    cfg.Session.RetryBaseDelay,
		Metrics:         m,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build authenticator: %w", err)
	}
	return auth, nil
}

// NewServices builds every service the HTTP API needs.
func NewServices(deps *ServiceDeps, obs ObservabilityContainer) (ServiceContainer, error) {
	out, err := NewSessionServices(deps, obs)
	if err != nil {
		return out, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if deps.DB != nil {
		out.FAQs = service.NewFAQService(service.FAQServiceOptions{Repo: data.NewFAQRepo(deps.DB), Logger: logger})
		out.Tags = service.NewTagService(data.NewTagRepo(deps.DB))
		out.Feedback = service.NewFeedbackService(service.FeedbackServiceOptions{
			Feedback:   data.NewFeedbackRepo(deps.DB),
			SearchLogs: data.NewSearchLogRepo(deps.DB),
			Logger:     logger,
		})
		out.Status = &data.StatusRepo{DB: deps.DB, MaskedDSN: deps.Config.Postgres.MaskedConnString()}
	}
	return out, nil
}
