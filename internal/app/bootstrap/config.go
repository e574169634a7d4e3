// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/sroam/sroregistry/internal/app/system/auditlog"
	"github.com/sroam/sroregistry/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the registry.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: SROREGISTRY_MONGO_URI, SROREGISTRY_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "sro_registry", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "sroregistry-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret shared with the auth service (required outside dev)"},
	{Name: "jwt_issuer", Default: "", Desc: "Expected token issuer (blank disables the check)"},

	// Audit logging settings
	{Name: "audit_log_registry", Default: "all", Desc: "Registry event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-member reads and deletes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries, creates and updates"},
	{Name: "timeout_long", Default: "60s", Desc: "Deadline for exports and statistics"},

	// Exports
	{Name: "export_filename_prefix", Default: "registry", Desc: "Base name of export downloads"},
	{Name: "export_rate_limit", Default: 10, Desc: "Exports allowed per actor per window (0 disables)"},
	{Name: "export_rate_window", Default: "1m", Desc: "Window for export_rate_limit"},
}

// filenamePrefixRe keeps Content-Disposition names plain.
var filenamePrefixRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// WAFFLE_* / SROREGISTRY_* environment variables and flags, merged with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SROREGISTRY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),

		AuditLogRegistry: appValues.String("audit_log_registry"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		ExportFilenamePrefix: appValues.String("export_filename_prefix"),
		ExportRateLimit:      appValues.Int("export_rate_limit"),
		ExportRateWindow:     appValues.Duration("export_rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(coreCfg.Env, appCfg)
}

func validateAppConfig(env string, appCfg AppConfig) error {
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if env != "dev" && appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required outside dev")
	}
	switch appCfg.AuditLogRegistry {
	case auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
	default:
		return fmt.Errorf("audit_log_registry must be all, db, log or off (got %q)", appCfg.AuditLogRegistry)
	}
	if !filenamePrefixRe.MatchString(appCfg.ExportFilenamePrefix) {
		return fmt.Errorf("export_filename_prefix must be 1-64 letters, digits, '-' or '_' (got %q)", appCfg.ExportFilenamePrefix)
	}
	if appCfg.ExportRateLimit < 0 {
		return fmt.Errorf("export_rate_limit must not be negative (got %d)", appCfg.ExportRateLimit)
	}
	if appCfg.ExportRateLimit > 0 && appCfg.ExportRateWindow <= 0 {
		return errors.New("export_rate_window must be positive when export_rate_limit is set")
	}
	return nil
}
