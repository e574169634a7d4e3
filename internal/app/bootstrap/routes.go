// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	healthfeature "github.com/sroam/sroregistry/internal/app/features/health"
	registryfeature "github.com/sroam/sroregistry/internal/app/features/registry"
	"github.com/sroam/sroregistry/internal/app/store/audit"
	"github.com/sroam/sroregistry/internal/app/system/auditlog"
	"github.com/sroam/sroregistry/internal/app/system/auth"
	"github.com/sroam/sroregistry/internal/app/system/metrics"
	"github.com/sroam/sroregistry/internal/app/system/ratelimit"
	"github.com/sroam/sroregistry/internal/app/system/requestid"
	"go.uber.org/zap"
)

// exportLimiter is the export throttle built by buildRouter; Shutdown stops it.
var exportLimiter *ratelimit.Limiter

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return buildRouter(coreCfg.Env, appCfg, deps, prometheus.DefaultRegisterer, logger), nil
}

func buildRouter(env string, appCfg AppConfig, deps DBDeps, reg prometheus.Registerer, logger *zap.Logger) chi.Router {
	// Secure cookies are enabled in production mode.
	secure := env == "prod"
	sessions := auth.NewCookieStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger)

	var tokens *auth.TokenVerifier
	if appCfg.JWTSecret != "" {
		tokens = auth.NewTokenVerifier(appCfg.JWTSecret, appCfg.JWTIssuer)
	} else {
		logger.Warn("jwt_secret not set; bearer tokens are disabled")
	}
	resolver := auth.NewResolver(tokens, sessions, appCfg.SessionName, logger)

	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Registry: appCfg.AuditLogRegistry,
	})
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(requestid.Middleware(logger))

	// Loads the Actor into context when credentials are present.
	r.Use(resolver.LoadActor)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if g, ok := reg.(prometheus.Gatherer); ok {
		r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	}

	registryHandler := registryfeature.NewHandler(deps.MongoDatabase, auditLog, m, appCfg.ExportFilenamePrefix, logger)
	closeExportLimiter()
	if appCfg.ExportRateLimit > 0 {
		exportLimiter = ratelimit.New(appCfg.ExportRateLimit, appCfg.ExportRateWindow)
		registryHandler.ExportLimiter = exportLimiter
	}
	r.Mount("/registry", registryfeature.Routes(registryHandler))

	return r
}

func closeExportLimiter() {
	if exportLimiter != nil {
		exportLimiter.Close()
		exportLimiter = nil
	}
}
