// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits); AppConfig
// covers the registry itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Admin panel session cookie
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: sroregistry-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Bearer tokens issued by the auth service
	JWTSecret string
	JWTIssuer string // blank disables the issuer check

	// Audit logging destination for registry events: all | db | log | off
	AuditLogRegistry string

	// Handler deadlines
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Base name of export downloads (registry_YYYYMMDD_HHMMSS.xlsx)
	ExportFilenamePrefix string

	// Export downloads allowed per actor per window; 0 disables the limit
	ExportRateLimit  int
	ExportRateWindow time.Duration
}
